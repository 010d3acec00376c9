package psgc

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// UnknownPolicy decides what happens to records whose type cannot be classified
// and whose code does not look like a province.
type UnknownPolicy string

// Unknown record policies.
const (
	UnknownAsMunicipality UnknownPolicy = "municipality"
	UnknownDrop           UnknownPolicy = "drop"
)

// ParseUnknownPolicy validates a configured policy name. Empty selects the default.
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch UnknownPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnknownAsMunicipality:
		return UnknownAsMunicipality, nil
	case UnknownDrop:
		return UnknownDrop, nil
	default:
		return "", eris.Errorf("psgc: unknown policy %q (want %q or %q)", s, UnknownAsMunicipality, UnknownDrop)
	}
}

// Defaults for BuildOptions.
const (
	DefaultPrefixLength    = 2
	DefaultPlaceholderName = "Unknown Province"
)

// BuildOptions tunes the hierarchy builder.
type BuildOptions struct {
	UnknownPolicy UnknownPolicy
	// PrefixLength is how many leading code characters a municipality must share
	// with a province for the prefix strategy to match.
	PrefixLength int
	// PlaceholderName names fabricated provinces when the record declares none.
	PlaceholderName string
}

// DefaultBuildOptions returns the options used when nothing is configured.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		UnknownPolicy:   UnknownAsMunicipality,
		PrefixLength:    DefaultPrefixLength,
		PlaceholderName: DefaultPlaceholderName,
	}
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.UnknownPolicy == "" {
		o.UnknownPolicy = UnknownAsMunicipality
	}
	if o.PrefixLength <= 0 || o.PrefixLength > CodeLength {
		o.PrefixLength = DefaultPrefixLength
	}
	if o.PlaceholderName == "" {
		o.PlaceholderName = DefaultPlaceholderName
	}
	return o
}

// Strategy names the rule that attached a municipality to its province.
type Strategy string

// Attachment strategies, tried in this order.
const (
	StrategyParentID  Strategy = "parent_id"
	StrategyName      Strategy = "province_name"
	StrategyPrefix    Strategy = "prefix"
	StrategyFabricate Strategy = "fabricated"
)

type provinceNode struct {
	code      string
	name      string
	synthetic bool
	munis     []Municipality
	names     nameIndex
}

// Builder accumulates provinces and municipalities over a single ordered pass.
// It is not safe for concurrent use.
type Builder struct {
	opts      BuildOptions
	provinces map[string]*provinceNode
	// codes is kept sorted so prefix matching always picks the smallest code.
	codes  []string
	byName map[string]*provinceNode
	report Report
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts BuildOptions) *Builder {
	return &Builder{
		opts:      opts.withDefaults(),
		provinces: make(map[string]*provinceNode),
		byName:    make(map[string]*provinceNode),
	}
}

// Add classifies one record and folds it into the hierarchy. Barangays are
// ignored here; they are attached by Backfill once every municipality is known.
func (b *Builder) Add(rec Record) {
	b.report.Records++

	name := NormalizeName(rec.Name)
	provinceName := NormalizeName(rec.ProvinceName)
	code, hasCode := NormalizeCode(rec.Code)

	if name == "" && provinceName == "" {
		b.skip(rec, "missing name")
		return
	}
	// Only tabular rows, which always declare a province, may lack a code.
	if !hasCode && provinceName == "" {
		b.skip(rec, "missing code")
		return
	}

	kind := Classify(rec.Type, code)
	switch kind {
	case KindProvince:
		if provinceName != "" {
			name = provinceName
		}
		b.addProvince(code, name)
	case KindBarangay:
		return
	case KindUnknown:
		if b.opts.UnknownPolicy == UnknownDrop {
			b.report.DroppedUnknown++
			zap.L().Debug("psgc: dropping unclassified record",
				zap.String("code", code),
				zap.String("type", rec.Type),
				zap.String("name", name),
			)
			return
		}
		fallthrough
	case KindMunicipality:
		if name == "" {
			b.skip(rec, "missing municipality name")
			return
		}
		b.addMunicipality(rec, code, hasCode, name, provinceName)
	}
}

func (b *Builder) skip(rec Record, reason string) {
	b.report.Skipped++
	zap.L().Debug("psgc: skipping record",
		zap.String("reason", reason),
		zap.String("code", rec.Code),
		zap.String("name", rec.Name),
	)
}

func (b *Builder) addProvince(code, name string) {
	if node, ok := b.provinces[code]; ok {
		// A fabricated province takes the real name the first time the
		// source actually lists it; otherwise the first occurrence wins.
		if node.synthetic {
			node.synthetic = false
			node.name = name
			if _, ok := b.byName[name]; !ok {
				b.byName[name] = node
			}
			return
		}
		b.report.DuplicateProvinces++
		return
	}
	b.insertProvince(&provinceNode{code: code, name: name, names: nameIndex{}})
	b.report.Provinces++
}

func (b *Builder) insertProvince(node *provinceNode) {
	b.provinces[node.code] = node
	i := sort.SearchStrings(b.codes, node.code)
	b.codes = append(b.codes, "")
	copy(b.codes[i+1:], b.codes[i:])
	b.codes[i] = node.code
	if _, ok := b.byName[node.name]; !ok {
		b.byName[node.name] = node
	}
}

func (b *Builder) addMunicipality(rec Record, code string, hasCode bool, name, provinceName string) {
	target, strategy := b.resolve(rec, code, hasCode, provinceName)
	b.report.count(strategy)

	if target.names.seen(name) {
		b.report.SuppressedMunicipalities++
		zap.L().Debug("psgc: suppressing duplicate municipality",
			zap.String("province", target.code),
			zap.String("code", code),
			zap.String("name", name),
		)
		return
	}

	if !hasCode {
		code = fmt.Sprintf("%s-%d", target.code, len(target.munis))
	}
	target.munis = append(target.munis, Municipality{Code: code, Name: name, Barangays: []Barangay{}})
	target.names.add(name)
	b.report.Municipalities++
}

// resolve picks the province for a municipality: explicit parent code, declared
// province name, shared code prefix, and finally a fabricated province.
func (b *Builder) resolve(rec Record, code string, hasCode bool, provinceName string) (*provinceNode, Strategy) {
	if parent, ok := NormalizeCode(rec.ParentCode); ok {
		if node, ok := b.provinces[parent]; ok {
			return node, StrategyParentID
		}
	}

	if provinceName != "" {
		if node, ok := b.byName[provinceName]; ok {
			return node, StrategyName
		}
	}

	var prefix string
	if hasCode && utf8.RuneCountInString(code) >= b.opts.PrefixLength {
		prefix = CodePrefix(code, b.opts.PrefixLength)
		i := sort.SearchStrings(b.codes, prefix)
		if i < len(b.codes) && strings.HasPrefix(b.codes[i], prefix) {
			return b.provinces[b.codes[i]], StrategyPrefix
		}
	}

	return b.fabricate(prefix, provinceName), StrategyFabricate
}

func (b *Builder) fabricate(prefix, provinceName string) *provinceNode {
	var code string
	if prefix != "" {
		code = PadCode(prefix, CodeLength)
	} else {
		for n := len(b.provinces); ; n++ {
			code = fmt.Sprintf("UNKNOWN-%d", n)
			if _, taken := b.provinces[code]; !taken {
				break
			}
		}
	}

	name := provinceName
	if name == "" {
		name = b.opts.PlaceholderName
	}

	node := &provinceNode{code: code, name: name, synthetic: true, names: nameIndex{}}
	b.insertProvince(node)
	b.report.FabricatedProvinces++
	zap.L().Debug("psgc: fabricated province",
		zap.String("code", code),
		zap.String("name", name),
	)
	return node
}

// Report returns the counters accumulated so far.
func (b *Builder) Report() Report {
	return b.report
}

// Tree returns the hierarchy built so far, sorted by name at every level.
func (b *Builder) Tree() *Tree {
	tree := &Tree{Provinces: make([]Province, 0, len(b.codes))}
	for _, code := range b.codes {
		node := b.provinces[code]
		munis := make([]Municipality, len(node.munis))
		copy(munis, node.munis)
		tree.Provinces = append(tree.Provinces, Province{
			Code:           node.code,
			Name:           node.name,
			Synthetic:      node.synthetic,
			Municipalities: munis,
		})
	}
	tree.Sort()
	return tree
}

// Build runs the province/municipality pass and then the barangay backfill
// over the same records.
func Build(records []Record, opts BuildOptions) (*Tree, Report) {
	b := NewBuilder(opts)
	for _, rec := range records {
		b.Add(rec)
	}
	tree := b.Tree()
	report := b.Report()
	report.Merge(Backfill(tree, records))
	return tree, report
}
