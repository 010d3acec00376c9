package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/psgc-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "psgc-cli",
	Short: "Build the PSGC province, municipality and barangay hierarchy",
	Long:  "Reads PSGC spreadsheets or flat record packages, reconciles them into a province > municipality > barangay tree, and emits Kotlin source, JSON, YAML, XLSX or SQLite artifacts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		zap.ReplaceGlobals(zap.L().With(zap.String("run_id", uuid.New().String())))

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
