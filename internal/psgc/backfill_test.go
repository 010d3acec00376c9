package psgc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Tree {
	return &Tree{Provinces: []Province{
		{Code: "012800000", Name: "Ilocos Norte", Municipalities: []Municipality{
			{Code: "012801000", Name: "Adams"},
			{Code: "012805000", Name: "Batac"},
		}},
	}}
}

func allBarangayCodes(tree *Tree) []string {
	var codes []string
	for _, p := range tree.Provinces {
		for _, m := range p.Municipalities {
			for _, b := range m.Barangays {
				codes = append(codes, b.Code)
			}
		}
	}
	return codes
}

func TestBackfill_AttachesAndSorts(t *testing.T) {
	tree := sampleTree()
	report := Backfill(tree, []Record{
		{Type: "barangay", Code: "012801002", ParentCode: "012801000", Name: "Pancian"},
		{Type: "barangay", Code: "012801001", ParentCode: "012801000", Name: "Adams (Pob.)"},
		{Type: "Barangay", Code: "0128050010", ParentCode: "0128050000", Name: "Ablan"},
	})

	assert.Equal(t, 3, report.Barangays)
	adams := tree.Provinces[0].Municipalities[0]
	require.Len(t, adams.Barangays, 2)
	assert.Equal(t, "Adams (Pob.)", adams.Barangays[0].Name)
	assert.Equal(t, "Pancian", adams.Barangays[1].Name)

	batac := tree.Provinces[0].Municipalities[1]
	require.Len(t, batac.Barangays, 1)
	assert.Equal(t, "012805001", batac.Barangays[0].Code)
}

func TestBackfill_DropsUnknownParent(t *testing.T) {
	tree := sampleTree()
	report := Backfill(tree, []Record{
		{Type: "barangay", Code: "099901001", ParentCode: "099901000", Name: "Orphan"},
	})

	assert.Equal(t, 1, report.DroppedBarangays)
	assert.Empty(t, allBarangayCodes(tree))
	assert.Len(t, tree.Provinces, 1, "no province is fabricated for barangays")
	assert.Len(t, tree.Provinces[0].Municipalities, 2, "no municipality is fabricated for barangays")
}

func TestBackfill_SkipsIncompleteAndOtherKinds(t *testing.T) {
	tree := sampleTree()
	report := Backfill(tree, []Record{
		{Type: "barangay", Code: "012801001", Name: "No Parent"},
		{Type: "barangay", Code: "012801002", ParentCode: "012801000", Name: ""},
		{Type: "barangay", Code: "", ParentCode: "012801000", Name: "No Code"},
		{Type: "municipality", Code: "012806000", ParentCode: "012800000", Name: "Not A Barangay"},
	})

	assert.Equal(t, 2, report.Skipped)
	assert.Zero(t, report.Barangays)
	assert.Empty(t, allBarangayCodes(tree))
}

func TestBackfill_Idempotent(t *testing.T) {
	tree := sampleTree()
	records := []Record{
		{Type: "barangay", Code: "012801001", ParentCode: "012801000", Name: "Adams (Pob.)"},
	}

	first := Backfill(tree, records)
	second := Backfill(tree, records)

	assert.Equal(t, 1, first.Barangays)
	assert.Zero(t, second.Barangays)
	assert.Equal(t, 1, second.DuplicateBarangays)
	assert.Len(t, allBarangayCodes(tree), 1)
}

func TestBackfill_ManyRecords(t *testing.T) {
	tree := &Tree{}
	var records []Record
	for p := 0; p < 10; p++ {
		prov := Province{Code: fmt.Sprintf("%02d0000000", p+10)}
		for m := 0; m < 40; m++ {
			prov.Municipalities = append(prov.Municipalities, Municipality{
				Code: fmt.Sprintf("%02d%02d00000", p+10, m+10),
				Name: fmt.Sprintf("M%d", m),
			})
			for b := 0; b < 50; b++ {
				records = append(records, Record{
					Type:       "barangay",
					Code:       fmt.Sprintf("%02d%02d%03d00", p+10, m+10, b+100),
					ParentCode: fmt.Sprintf("%02d%02d00000", p+10, m+10),
					Name:       fmt.Sprintf("B%d", b),
				})
			}
		}
		tree.Provinces = append(tree.Provinces, prov)
	}

	report := Backfill(tree, records)
	assert.Equal(t, 10*40*50, report.Barangays)
	assert.Equal(t, 10*40*50, tree.Counts().Barangays)
}

func TestTreeCounts(t *testing.T) {
	tree := sampleTree()
	tree.Provinces[0].Municipalities[0].Barangays = []Barangay{{Code: "1", Name: "a"}, {Code: "2", Name: "b"}}
	assert.Equal(t, Counts{Provinces: 1, Municipalities: 2, Barangays: 2}, tree.Counts())
}
