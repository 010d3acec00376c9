package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/psgc-cli/internal/psgc"
	"github.com/sells-group/psgc-cli/internal/source"
)

var (
	inspectXLSX    string
	inspectPackage string
	inspectSheet   string
	inspectRows    int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Preview a spreadsheet or flat package",
	Long:  "Shows sheets, headers and identified columns of a spreadsheet, or record counts by kind for a flat package, without building anything.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		switch {
		case inspectXLSX != "" && inspectPackage != "":
			return eris.New("inspect: use either --xlsx or --package, not both")
		case inspectXLSX != "":
			sheet := inspectSheet
			if sheet == "" {
				sheet = cfg.Source.Sheet
			}
			table, err := source.ReadTable(inspectXLSX, source.TableOptions{Sheet: sheet})
			if err != nil {
				return eris.Wrap(err, "inspect")
			}
			cols := source.IdentifyColumns(table.Header, source.ColumnOverrides{
				Code:         cfg.Source.Columns.Code,
				Province:     cfg.Source.Columns.Province,
				Municipality: cfg.Source.Columns.Municipality,
			})
			formatTableSummary(out, table, cols, inspectRows)
			return nil
		case inspectPackage != "":
			res, err := source.OpenFlat(ctx, inspectPackage, flatOptions())
			if err != nil {
				return eris.Wrap(err, "inspect")
			}
			formatPackageSummary(out, res)
			return nil
		default:
			return eris.New("inspect: one of --xlsx or --package is required")
		}
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectXLSX, "xlsx", "", "spreadsheet to preview")
	inspectCmd.Flags().StringVar(&inspectPackage, "package", "", "flat package path or URL to preview")
	inspectCmd.Flags().StringVar(&inspectSheet, "sheet", "", "sheet name (default: source.sheet, else auto-detect)")
	inspectCmd.Flags().IntVar(&inspectRows, "rows", 5, "number of data rows to show")
	rootCmd.AddCommand(inspectCmd)
}

func columnName(header []string, idx int) string {
	if idx < 0 || idx >= len(header) {
		return "-"
	}
	return header[idx]
}

// formatTableSummary writes the sheet layout, column roles and first n rows.
func formatTableSummary(out io.Writer, table *source.Table, cols source.Columns, n int) {
	_, _ = fmt.Fprintf(out, "Sheets:  %s\n", strings.Join(table.Sheets, ", "))
	_, _ = fmt.Fprintf(out, "Sheet:   %s\n", table.Sheet)
	_, _ = fmt.Fprintf(out, "Rows:    %d\n", len(table.Rows))
	_, _ = fmt.Fprintf(out, "Header:  %s\n\n", strings.Join(table.Header, " | "))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ROLE\tCOLUMN")
	_, _ = fmt.Fprintln(w, "----\t------")
	_, _ = fmt.Fprintf(w, "code\t%s\n", columnName(table.Header, cols.Code))
	_, _ = fmt.Fprintf(w, "province\t%s\n", columnName(table.Header, cols.Province))
	_, _ = fmt.Fprintf(w, "municipality\t%s\n", columnName(table.Header, cols.Municipality))
	_ = w.Flush()

	if missing := cols.Missing(); len(missing) > 0 {
		_, _ = fmt.Fprintf(out, "\nMissing: %s\n", strings.Join(missing, ", "))
	}

	if n <= 0 || len(table.Rows) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(table.Header, "\t"))
	for i, row := range table.Rows {
		if i >= n {
			break
		}
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// formatPackageSummary writes record counts by kind and a sample record.
func formatPackageSummary(out io.Writer, res *source.FlatResult) {
	counts := make(map[psgc.Kind]int)
	var sample *psgc.Record
	for i, rec := range res.Records {
		code, _ := psgc.NormalizeCode(rec.Code)
		counts[psgc.Classify(rec.Type, code)]++
		if sample == nil {
			sample = &res.Records[i]
		}
	}

	_, _ = fmt.Fprintf(out, "File:     %s\n", res.Path)
	_, _ = fmt.Fprintf(out, "Records:  %d\n", len(res.Records))
	_, _ = fmt.Fprintf(out, "Skipped:  %d\n\n", res.Skipped)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KIND\tCOUNT")
	_, _ = fmt.Fprintln(w, "----\t-----")
	for _, k := range []psgc.Kind{psgc.KindProvince, psgc.KindMunicipality, psgc.KindBarangay, psgc.KindUnknown} {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", k, counts[k])
	}
	_ = w.Flush()

	if sample != nil {
		_, _ = fmt.Fprintf(out, "\nSample:   type=%q psgc_id=%q parent_psgc_id=%q name=%q\n",
			sample.Type, sample.Code, sample.ParentCode, sample.Name)
	}
}
