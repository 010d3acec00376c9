package psgc

// Report counts what a build or backfill pass did with its input.
type Report struct {
	Records int `json:"records"`
	Skipped int `json:"skipped"`

	Provinces                int `json:"provinces"`
	DuplicateProvinces       int `json:"duplicate_provinces"`
	FabricatedProvinces      int `json:"fabricated_provinces"`
	Municipalities           int `json:"municipalities"`
	SuppressedMunicipalities int `json:"suppressed_municipalities"`
	DroppedUnknown           int `json:"dropped_unknown"`

	Barangays          int `json:"barangays"`
	DroppedBarangays   int `json:"dropped_barangays"`
	DuplicateBarangays int `json:"duplicate_barangays"`

	ByParentID    int `json:"by_parent_id"`
	ByName        int `json:"by_name"`
	ByPrefix      int `json:"by_prefix"`
	ByFabrication int `json:"by_fabrication"`
}

func (r *Report) count(s Strategy) {
	switch s {
	case StrategyParentID:
		r.ByParentID++
	case StrategyName:
		r.ByName++
	case StrategyPrefix:
		r.ByPrefix++
	case StrategyFabricate:
		r.ByFabrication++
	}
}

// Merge adds the counters of o to r.
func (r *Report) Merge(o Report) {
	r.Records += o.Records
	r.Skipped += o.Skipped
	r.Provinces += o.Provinces
	r.DuplicateProvinces += o.DuplicateProvinces
	r.FabricatedProvinces += o.FabricatedProvinces
	r.Municipalities += o.Municipalities
	r.SuppressedMunicipalities += o.SuppressedMunicipalities
	r.DroppedUnknown += o.DroppedUnknown
	r.Barangays += o.Barangays
	r.DroppedBarangays += o.DroppedBarangays
	r.DuplicateBarangays += o.DuplicateBarangays
	r.ByParentID += o.ByParentID
	r.ByName += o.ByName
	r.ByPrefix += o.ByPrefix
	r.ByFabrication += o.ByFabrication
}
