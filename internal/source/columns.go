package source

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

// Column name fragments per role, matched case-insensitively.
var (
	codePatterns         = []string{"code", "psgc", "id"}
	provincePatterns     = []string{"province", "prov"}
	municipalityPatterns = []string{"municipality", "city", "muni"}
)

// ColumnOverrides forces a header name for a role instead of guessing.
type ColumnOverrides struct {
	Code         string
	Province     string
	Municipality string
}

// Columns holds the header index per role; -1 when the role was not found.
type Columns struct {
	Code         int
	Province     int
	Municipality int
}

// IdentifyColumns picks the first header matching each role. A role with an
// override only accepts a header equal to it (ignoring case).
func IdentifyColumns(header []string, overrides ColumnOverrides) Columns {
	return Columns{
		Code:         findColumn(header, overrides.Code, codePatterns),
		Province:     findColumn(header, overrides.Province, provincePatterns),
		Municipality: findColumn(header, overrides.Municipality, municipalityPatterns),
	}
}

func findColumn(header []string, override string, patterns []string) int {
	if override != "" {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(override)) {
				return i
			}
		}
		return -1
	}
	for i, h := range header {
		lower := strings.ToLower(h)
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				return i
			}
		}
	}
	return -1
}

// Missing lists the roles that were not identified.
func (c Columns) Missing() []string {
	var missing []string
	if c.Code < 0 {
		missing = append(missing, "code")
	}
	if c.Province < 0 {
		missing = append(missing, "province")
	}
	if c.Municipality < 0 {
		missing = append(missing, "municipality")
	}
	return missing
}

// Complete reports whether every role has a column.
func (c Columns) Complete() bool {
	return len(c.Missing()) == 0
}

// Validate returns an error naming the unidentified roles and the available headers.
func (c Columns) Validate(header []string) error {
	if missing := c.Missing(); len(missing) > 0 {
		return eris.Errorf("columns: could not identify %s column(s) among %q",
			strings.Join(missing, ", "), header)
	}
	return nil
}

// Records turns table rows into tabular records. Rows without a province or
// municipality name are skipped and counted. Every row is declared a
// municipality; province rows are recognised by their code shape.
func (t *Table) Records(cols Columns) ([]psgc.Record, int) {
	var (
		records []psgc.Record
		skipped int
	)
	for _, row := range t.Rows {
		province := cell(row, cols.Province)
		municipality := cell(row, cols.Municipality)
		if province == "" || municipality == "" {
			skipped++
			continue
		}
		records = append(records, psgc.Record{
			Type:         "municipality",
			Code:         cell(row, cols.Code),
			Name:         municipality,
			ProvinceName: province,
		})
	}
	return records, skipped
}

// cell returns a trimmed cell value; blanks and spreadsheet "nan" markers are empty.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[idx])
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}
