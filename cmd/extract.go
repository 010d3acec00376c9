package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/psgc-cli/internal/psgc"
	"github.com/sells-group/psgc-cli/internal/source"
)

var (
	extractPackage       string
	extractSkipBarangays bool
	extractOutput        outputFlags
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build the tree from a flat PSGC record package",
	Long:  "Reads a flat record package (JSON or CSV, local, zipped or over HTTP), builds provinces and municipalities, attaches barangays, and writes the tree.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		opts, err := buildOptions()
		if err != nil {
			return err
		}

		res, err := source.OpenFlat(ctx, extractPackage, flatOptions())
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		b := psgc.NewBuilder(opts)
		for _, rec := range res.Records {
			b.Add(rec)
		}
		tree := b.Tree()
		report := b.Report()
		report.Records += res.Skipped
		report.Skipped += res.Skipped

		if !extractSkipBarangays {
			report.Merge(psgc.Backfill(tree, res.Records))
		}

		path, err := extractOutput.write(ctx, tree, extractPackage)
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		fields := append([]zap.Field{zap.String("out", path), zap.String("package", res.Path)}, reportFields(report)...)
		zap.L().Info("extract complete", fields...)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractPackage, "package", "", "flat package path or URL: .json, .csv or .zip (required)")
	extractCmd.Flags().BoolVar(&extractSkipBarangays, "skip-barangays", false, "build provinces and municipalities only")
	addOutputFlags(extractCmd, &extractOutput)
	_ = extractCmd.MarkFlagRequired("package")
	rootCmd.AddCommand(extractCmd)
}
