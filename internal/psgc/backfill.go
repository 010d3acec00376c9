package psgc

import (
	"go.uber.org/zap"
)

// Backfill attaches barangay records to the municipalities already in tree.
// The parent lookup goes through a code index built once up front. Barangays
// whose parent is not a known municipality are dropped; they never get a
// fabricated parent. A code already present under a municipality is not added
// twice, so running Backfill again over the same source changes nothing.
func Backfill(tree *Tree, records []Record) Report {
	var report Report

	index := make(map[string]*Municipality)
	seen := make(map[*Municipality]map[string]struct{})
	for pi := range tree.Provinces {
		munis := tree.Provinces[pi].Municipalities
		for mi := range munis {
			m := &munis[mi]
			if _, dup := index[m.Code]; dup {
				continue
			}
			index[m.Code] = m
			codes := make(map[string]struct{}, len(m.Barangays))
			for _, b := range m.Barangays {
				codes[b.Code] = struct{}{}
			}
			seen[m] = codes
		}
	}

	for _, rec := range records {
		code, ok := NormalizeCode(rec.Code)
		if !ok || Classify(rec.Type, code) != KindBarangay {
			continue
		}
		name := NormalizeName(rec.Name)
		parent, hasParent := NormalizeCode(rec.ParentCode)
		if name == "" || !hasParent {
			report.Skipped++
			continue
		}

		m, ok := index[parent]
		if !ok {
			report.DroppedBarangays++
			zap.L().Debug("psgc: dropping barangay without known municipality",
				zap.String("code", code),
				zap.String("parent", parent),
				zap.String("name", name),
			)
			continue
		}

		if _, dup := seen[m][code]; dup {
			report.DuplicateBarangays++
			continue
		}
		seen[m][code] = struct{}{}
		m.Barangays = append(m.Barangays, Barangay{Code: code, Name: name})
		report.Barangays++
	}

	tree.Sort()
	return report
}

