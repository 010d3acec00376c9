// Package emit renders a finished PSGC tree into output artifacts.
package emit

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

// Output formats.
const (
	FormatKotlin = "kotlin"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// Defaults for Options.
const (
	DefaultChunkSize     = 25
	DefaultKotlinPackage = "com.onlineexamination.data.model"
	DefaultKotlinObject  = "PsgcData"
)

// Emitter writes a tree to w.
type Emitter interface {
	Emit(ctx context.Context, tree *psgc.Tree, w io.Writer) error
}

// Options configures emitters. Unused fields are ignored by formats that do not
// need them.
type Options struct {
	ChunkSize     int
	KotlinPackage string
	KotlinObject  string
	// Source is recorded in the SQLite build_info table.
	Source string
}

func (o Options) withDefaults() Options {
	if o.KotlinPackage == "" {
		o.KotlinPackage = DefaultKotlinPackage
	}
	if o.KotlinObject == "" {
		o.KotlinObject = DefaultKotlinObject
	}
	return o
}

var registry = map[string]func(Options) Emitter{
	FormatKotlin: func(o Options) Emitter { return &KotlinEmitter{opts: o} },
	FormatJSON:   func(Options) Emitter { return JSONEmitter{} },
	FormatYAML:   func(Options) Emitter { return YAMLEmitter{} },
	FormatXLSX:   func(Options) Emitter { return XLSXEmitter{} },
	FormatSQLite: func(o Options) Emitter { return SQLiteEmitter{Source: o.Source} },
}

// New returns the emitter for format.
func New(format string, opts Options) (Emitter, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, eris.Errorf("emit: unknown format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
	return ctor(opts.withDefaults()), nil
}

// Formats lists the registered format names.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extension returns the conventional file extension for format.
func Extension(format string) string {
	switch format {
	case FormatKotlin:
		return ".kt"
	case FormatSQLite:
		return ".db"
	default:
		return "." + format
	}
}
