package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/psgc-cli/internal/emit"
	"github.com/sells-group/psgc-cli/internal/psgc"
	"github.com/sells-group/psgc-cli/internal/source"
)

// useConfigChunkSize is the --chunk-size default meaning "take emit.chunk_size".
const useConfigChunkSize = -1

// outputFlags are shared by every command that writes a tree.
type outputFlags struct {
	out       string
	format    string
	chunkSize int
}

func (o outputFlags) resolvedFormat() string {
	if o.format != "" {
		return strings.ToLower(o.format)
	}
	return strings.ToLower(cfg.Emit.Format)
}

func (o outputFlags) resolvedPath(format string) string {
	if o.out != "" {
		return o.out
	}
	if format == emit.FormatKotlin {
		return cfg.Emit.Kotlin.Object + emit.Extension(format)
	}
	return "psgc" + emit.Extension(format)
}

func (o outputFlags) emitOptions(sourceName string) emit.Options {
	chunk := cfg.Emit.ChunkSize
	if o.chunkSize != useConfigChunkSize {
		chunk = o.chunkSize
	}
	return emit.Options{
		ChunkSize:     chunk,
		KotlinPackage: cfg.Emit.Kotlin.Package,
		KotlinObject:  cfg.Emit.Kotlin.Object,
		Source:        sourceName,
	}
}

// write renders tree and returns the path written.
func (o outputFlags) write(ctx context.Context, tree *psgc.Tree, sourceName string) (string, error) {
	format := o.resolvedFormat()
	path := o.resolvedPath(format)
	if err := emit.Render(ctx, tree, format, o.emitOptions(sourceName), path); err != nil {
		return "", err
	}
	return path, nil
}

func buildOptions() (psgc.BuildOptions, error) {
	policy, err := psgc.ParseUnknownPolicy(cfg.Build.UnknownPolicy)
	if err != nil {
		return psgc.BuildOptions{}, err
	}
	return psgc.BuildOptions{
		UnknownPolicy:   policy,
		PrefixLength:    cfg.Build.PrefixLength,
		PlaceholderName: cfg.Build.PlaceholderName,
	}, nil
}

func flatOptions() source.FlatOptions {
	return source.FlatOptions{
		Charset: cfg.Source.Charset,
		HTTP: source.HTTPOptions{
			UserAgent:  cfg.Source.HTTP.UserAgent,
			Timeout:    time.Duration(cfg.Source.HTTP.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Source.HTTP.MaxRetries,
			RatePerSec: cfg.Source.HTTP.RatePerSec,
		},
	}
}

func reportFields(r psgc.Report) []zap.Field {
	return []zap.Field{
		zap.Int("records", r.Records),
		zap.Int("skipped", r.Skipped),
		zap.Int("provinces", r.Provinces),
		zap.Int("duplicate_provinces", r.DuplicateProvinces),
		zap.Int("fabricated_provinces", r.FabricatedProvinces),
		zap.Int("municipalities", r.Municipalities),
		zap.Int("suppressed_municipalities", r.SuppressedMunicipalities),
		zap.Int("dropped_unknown", r.DroppedUnknown),
		zap.Int("barangays", r.Barangays),
		zap.Int("dropped_barangays", r.DroppedBarangays),
		zap.Int("duplicate_barangays", r.DuplicateBarangays),
		zap.Int("by_parent_id", r.ByParentID),
		zap.Int("by_name", r.ByName),
		zap.Int("by_prefix", r.ByPrefix),
		zap.Int("by_fabrication", r.ByFabrication),
	}
}

func countFields(c psgc.Counts) []zap.Field {
	return []zap.Field{
		zap.Int("tree_provinces", c.Provinces),
		zap.Int("tree_municipalities", c.Municipalities),
		zap.Int("tree_barangays", c.Barangays),
	}
}

func addOutputFlags(cmd *cobra.Command, o *outputFlags) {
	flags := cmd.Flags()
	flags.StringVar(&o.out, "out", "", "output path, '-' for stdout (default: derived from format)")
	flags.StringVar(&o.format, "format", "", "output format: "+strings.Join(emit.Formats(), ", ")+" (default: emit.format)")
	flags.IntVar(&o.chunkSize, "chunk-size", useConfigChunkSize, "provinces per Kotlin chunk, 0 for one chunk (default: emit.chunk_size)")
}
