package source

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

// Flat package field names.
const (
	fieldType     = "type"
	fieldID       = "psgc_id"
	fieldParentID = "parent_psgc_id"
	fieldName     = "name"
)

// LooseString accepts a JSON string, number, or null. Packages are inconsistent
// about quoting numeric codes.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LooseString(v)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*s = LooseString(data)
	default:
		*s = ""
	}
	return nil
}

// FlatRecord is one element of a flat record package.
type FlatRecord struct {
	Type         LooseString `json:"type"`
	PSGCID       LooseString `json:"psgc_id"`
	ParentPSGCID LooseString `json:"parent_psgc_id"`
	Name         LooseString `json:"name"`
}

// Record converts a flat record. The bool is false when the record lacks a
// name or its own identifier.
func (f FlatRecord) Record() (psgc.Record, bool) {
	rec := psgc.Record{
		Type:       strings.TrimSpace(string(f.Type)),
		Code:       strings.TrimSpace(string(f.PSGCID)),
		ParentCode: strings.TrimSpace(string(f.ParentPSGCID)),
		Name:       strings.TrimSpace(string(f.Name)),
	}
	if rec.Code == "" || rec.Name == "" {
		return psgc.Record{}, false
	}
	return rec, true
}

// DecodeFlat reads a JSON array package. Elements that are not objects, fail
// to decode, or miss a name or identifier are skipped and counted.
func DecodeFlat(ctx context.Context, r io.Reader) ([]psgc.Record, int, error) {
	itemCh, errCh := DecodeJSONArray[json.RawMessage](ctx, r)

	var (
		records []psgc.Record
		skipped int
	)
	for raw := range itemCh {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			skipped++
			continue
		}
		var fr FlatRecord
		if err := json.Unmarshal(trimmed, &fr); err != nil {
			zap.L().Debug("source: skipping malformed record", zap.Error(err))
			skipped++
			continue
		}
		rec, ok := fr.Record()
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	for err := range errCh {
		if err != nil {
			return nil, skipped, eris.Wrap(err, "source: decode flat package")
		}
	}
	return records, skipped, nil
}

// DecodeFlatCSV reads a CSV package whose header names the flat package fields.
// The psgc_id and name columns are required.
func DecodeFlatCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([]psgc.Record, int, error) {
	rowCh, errCh := StreamCSV(ctx, r, opts)

	var (
		records []psgc.Record
		skipped int
		index   map[string]int
	)
	for row := range rowCh {
		if index == nil {
			index = headerIndex(row)
			continue
		}
		fr := FlatRecord{
			Type:         LooseString(field(row, index, fieldType)),
			PSGCID:       LooseString(field(row, index, fieldID)),
			ParentPSGCID: LooseString(field(row, index, fieldParentID)),
			Name:         LooseString(field(row, index, fieldName)),
		}
		rec, ok := fr.Record()
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	for err := range errCh {
		if err != nil {
			return nil, skipped, eris.Wrap(err, "source: decode flat csv")
		}
	}

	if index == nil {
		return nil, 0, nil
	}
	for _, required := range []string{fieldID, fieldName} {
		if _, ok := index[required]; !ok {
			return nil, skipped, eris.Errorf("source: flat csv has no %q column", required)
		}
	}
	return records, skipped, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return index
}

func field(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
