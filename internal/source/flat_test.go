package source

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseString(t *testing.T) {
	tests := []struct {
		input string
		want  LooseString
	}{
		{`"012800000"`, "012800000"},
		{`12800000`, "12800000"},
		{`null`, ""},
		{`true`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s LooseString
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestDecodeFlat(t *testing.T) {
	input := `[
		{"type": "Province", "psgc_id": "012800000", "name": "Ilocos Norte"},
		{"type": "Municipality", "psgc_id": 12801000, "parent_psgc_id": "012800000", "name": " Adams "},
		{"type": "Barangay", "psgc_id": "012801001", "parent_psgc_id": "012801000", "name": "Adams"},
		{"type": "Barangay", "psgc_id": "012801002", "parent_psgc_id": "012801000"},
		{"type": "Barangay", "name": "No Code"},
		"not an object",
		42,
		{"type": "City", "psgc_id": "012805000", "parent_psgc_id": null, "name": "Laoag"}
	]`

	records, skipped, err := DecodeFlat(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 4, skipped)
	require.Len(t, records, 4)

	assert.Equal(t, "Province", records[0].Type)
	assert.Equal(t, "12801000", records[1].Code)
	assert.Equal(t, "Adams", records[1].Name)
	assert.Equal(t, "012801000", records[2].ParentCode)
	assert.Empty(t, records[3].ParentCode)
}

func TestDecodeFlat_Errors(t *testing.T) {
	_, _, err := DecodeFlat(context.Background(), strings.NewReader(`{"type": "Province"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode flat package")

	_, _, err = DecodeFlat(context.Background(), strings.NewReader(`[{"type": "Province"`))
	assert.Error(t, err)
}

func TestDecodeFlat_Empty(t *testing.T) {
	records, skipped, err := DecodeFlat(context.Background(), strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}

func TestDecodeFlatCSV(t *testing.T) {
	input := "Type,PSGC_ID,Parent_PSGC_ID,Name\n" +
		"Province,012800000,,Ilocos Norte\n" +
		"Municipality,012801000,012800000,Adams\n" +
		"Barangay,012801001,012801000,\n" +
		"Barangay,012801002,012801000,\"Pagsanjan, Lower\"\n"

	records, skipped, err := DecodeFlatCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 3)
	assert.Equal(t, "Municipality", records[1].Type)
	assert.Equal(t, "012800000", records[1].ParentCode)
	assert.Equal(t, "Pagsanjan, Lower", records[2].Name)
}

func TestDecodeFlatCSV_MissingColumn(t *testing.T) {
	_, _, err := DecodeFlatCSV(context.Background(), strings.NewReader("type,name\nProvince,Abra\n"), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no "psgc_id" column`)
}

func TestDecodeFlatCSV_Empty(t *testing.T) {
	records, skipped, err := DecodeFlatCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	require.NoError(t, err)
	assert.Nil(t, records)
	assert.Zero(t, skipped)
}
