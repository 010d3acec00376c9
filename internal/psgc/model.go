package psgc

import (
	"sort"
)

// Record is one flat input row before classification.
type Record struct {
	Type       string
	Code       string
	ParentCode string
	Name       string

	// ProvinceName is the declared province of a tabular row. Flat package
	// records leave it empty.
	ProvinceName string
}

// Barangay is the smallest administrative division.
type Barangay struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Municipality covers municipalities and every city variant.
type Municipality struct {
	Code      string     `json:"code" yaml:"code"`
	Name      string     `json:"name" yaml:"name"`
	Barangays []Barangay `json:"barangays" yaml:"barangays"`
}

// Province owns an ordered set of municipalities.
type Province struct {
	Code           string         `json:"code" yaml:"code"`
	Name           string         `json:"name" yaml:"name"`
	Synthetic      bool           `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
	Municipalities []Municipality `json:"municipalities" yaml:"municipalities"`
}

// Tree is the finished three-level hierarchy.
type Tree struct {
	Provinces []Province `json:"provinces" yaml:"provinces"`
}

// Counts holds entity totals for a tree.
type Counts struct {
	Provinces      int
	Municipalities int
	Barangays      int
}

// Counts returns the number of entities at every level.
func (t *Tree) Counts() Counts {
	var c Counts
	c.Provinces = len(t.Provinces)
	for _, p := range t.Provinces {
		c.Municipalities += len(p.Municipalities)
		for _, m := range p.Municipalities {
			c.Barangays += len(m.Barangays)
		}
	}
	return c
}

// Sort orders every level by name, breaking ties by code.
func (t *Tree) Sort() {
	sort.SliceStable(t.Provinces, func(i, j int) bool {
		return byName(t.Provinces[i].Name, t.Provinces[i].Code, t.Provinces[j].Name, t.Provinces[j].Code)
	})
	for pi := range t.Provinces {
		munis := t.Provinces[pi].Municipalities
		sort.SliceStable(munis, func(i, j int) bool {
			return byName(munis[i].Name, munis[i].Code, munis[j].Name, munis[j].Code)
		})
		for mi := range munis {
			brgys := munis[mi].Barangays
			sort.SliceStable(brgys, func(i, j int) bool {
				return byName(brgys[i].Name, brgys[i].Code, brgys[j].Name, brgys[j].Code)
			})
		}
	}
}

func byName(nameA, codeA, nameB, codeB string) bool {
	if nameA != nameB {
		return nameA < nameB
	}
	return codeA < codeB
}
