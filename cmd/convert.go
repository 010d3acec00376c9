package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/psgc-cli/internal/psgc"
	"github.com/sells-group/psgc-cli/internal/source"
)

var (
	convertXLSX   string
	convertSheet  string
	convertOutput outputFlags
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Build the tree from a PSGC spreadsheet",
	Long:  "Reads a province/municipality spreadsheet, reconciles rows into provinces (matching declared province names), and writes the tree.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		opts, err := buildOptions()
		if err != nil {
			return err
		}

		sheet := convertSheet
		if sheet == "" {
			sheet = cfg.Source.Sheet
		}
		table, err := source.ReadTable(convertXLSX, source.TableOptions{Sheet: sheet})
		if err != nil {
			return eris.Wrap(err, "convert")
		}

		cols := source.IdentifyColumns(table.Header, source.ColumnOverrides{
			Code:         cfg.Source.Columns.Code,
			Province:     cfg.Source.Columns.Province,
			Municipality: cfg.Source.Columns.Municipality,
		})
		if err := cols.Validate(table.Header); err != nil {
			return eris.Wrapf(err, "convert: sheet %q", table.Sheet)
		}
		zap.L().Debug("convert: identified columns",
			zap.String("sheet", table.Sheet),
			zap.String("code", table.Header[cols.Code]),
			zap.String("province", table.Header[cols.Province]),
			zap.String("municipality", table.Header[cols.Municipality]),
		)

		records, skippedRows := table.Records(cols)
		tree, report := psgc.Build(records, opts)
		report.Records += skippedRows
		report.Skipped += skippedRows

		path, err := convertOutput.write(ctx, tree, convertXLSX)
		if err != nil {
			return eris.Wrap(err, "convert")
		}

		fields := append([]zap.Field{zap.String("out", path), zap.String("sheet", table.Sheet)}, reportFields(report)...)
		zap.L().Info("convert complete", fields...)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertXLSX, "xlsx", "", "path to PSGC spreadsheet (required)")
	convertCmd.Flags().StringVar(&convertSheet, "sheet", "", "sheet name (default: source.sheet, else auto-detect)")
	addOutputFlags(convertCmd, &convertOutput)
	_ = convertCmd.MarkFlagRequired("xlsx")
	rootCmd.AddCommand(convertCmd)
}
