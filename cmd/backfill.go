package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/psgc-cli/internal/psgc"
	"github.com/sells-group/psgc-cli/internal/source"
	"github.com/sells-group/psgc-cli/internal/store"
)

var (
	backfillTree    string
	backfillPackage string
	backfillOutput  outputFlags
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Attach barangays from a flat package to an existing tree",
	Long:  "Loads a tree artifact (JSON or SQLite) and attaches barangay records from a flat package to its municipalities. Barangays with no known municipality are dropped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		tree, err := store.ReadTree(ctx, backfillTree)
		if err != nil {
			return eris.Wrap(err, "backfill")
		}
		fields := append([]zap.Field{zap.String("tree", backfillTree)}, countFields(tree.Counts())...)
		zap.L().Info("backfill: loaded tree", fields...)

		res, err := source.OpenFlat(ctx, backfillPackage, flatOptions())
		if err != nil {
			return eris.Wrap(err, "backfill")
		}

		report := psgc.Backfill(tree, res.Records)
		report.Records = len(res.Records) + res.Skipped
		report.Skipped += res.Skipped

		path, err := backfillOutput.write(ctx, tree, backfillPackage)
		if err != nil {
			return eris.Wrap(err, "backfill")
		}

		fields = append([]zap.Field{zap.String("out", path)}, reportFields(report)...)
		fields = append(fields, countFields(tree.Counts())...)
		zap.L().Info("backfill complete", fields...)
		return nil
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillTree, "tree", "", "tree artifact to extend: .json or .db (required)")
	backfillCmd.Flags().StringVar(&backfillPackage, "package", "", "flat package path or URL holding barangay records (required)")
	addOutputFlags(backfillCmd, &backfillOutput)
	_ = backfillCmd.MarkFlagRequired("tree")
	_ = backfillCmd.MarkFlagRequired("package")
	rootCmd.AddCommand(backfillCmd)
}
