// Package psgc reconciles flat Philippine Standard Geographic Code records into a
// province -> municipality/city -> barangay tree.
package psgc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// CodeLength is the width of every canonical PSGC code.
const CodeLength = 9

// provinceSuffix marks a canonical code as a province regardless of its stated type.
const provinceSuffix = "000000"

// Kind is the canonical entity classification of a record.
type Kind int

// Record kinds.
const (
	KindUnknown Kind = iota
	KindProvince
	KindMunicipality
	KindBarangay
)

func (k Kind) String() string {
	switch k {
	case KindProvince:
		return "province"
	case KindMunicipality:
		return "municipality"
	case KindBarangay:
		return "barangay"
	default:
		return "unknown"
	}
}

// municipalityLabels lists every type label that denotes a municipality or a city variant.
var municipalityLabels = map[string]bool{
	"municipality": true,
	"city":         true,
	"city (icc)":   true,
	"city (huc)":   true,
	"city (cc)":    true,
}

// NormalizeCode canonicalizes a raw identifier to CodeLength characters: trimmed,
// right-padded with '0' when short, truncated when long. Width is counted in
// runes, not bytes. Returns false when the trimmed input is empty.
func NormalizeCode(raw string) (string, bool) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", false
	}
	return PadCode(code, CodeLength), true
}

// PadCode right-pads code with '0' or truncates it to exactly width runes.
func PadCode(code string, width int) string {
	n := utf8.RuneCountInString(code)
	if n > width {
		return CodePrefix(code, width)
	}
	return code + strings.Repeat("0", width-n)
}

// CodePrefix returns the first n runes of code, or all of it when shorter.
func CodePrefix(code string, n int) string {
	i := 0
	for pos := range code {
		if i == n {
			return code[:pos]
		}
		i++
	}
	return code
}

// IsProvinceCode reports whether a canonical code has the structural shape of a province.
func IsProvinceCode(code string) bool {
	return utf8.RuneCountInString(code) == CodeLength && strings.HasSuffix(code, provinceSuffix)
}

// ClassifyType maps a free-text type label to a Kind, ignoring case and surrounding space.
func ClassifyType(label string) Kind {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "province":
		return KindProvince
	case municipalityLabels[l]:
		return KindMunicipality
	case l == "barangay":
		return KindBarangay
	default:
		return KindUnknown
	}
}

// Classify combines the stated type label with the structural province fallback.
// A canonical code ending in six zeros is a province whatever its label says.
func Classify(label, code string) Kind {
	if IsProvinceCode(code) {
		return KindProvince
	}
	return ClassifyType(label)
}

// NormalizeName trims a display name and composes it to NFC so that visually equal
// names from different sources compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
