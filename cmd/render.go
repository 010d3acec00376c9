package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/psgc-cli/internal/store"
)

var (
	renderTree   string
	renderOutput outputFlags
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Re-emit an existing tree artifact",
	Long:  "Loads a tree artifact (JSON or SQLite) and writes it in another format or with a different chunk size.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		tree, err := store.ReadTree(ctx, renderTree)
		if err != nil {
			return eris.Wrap(err, "render")
		}

		path, err := renderOutput.write(ctx, tree, renderTree)
		if err != nil {
			return eris.Wrap(err, "render")
		}

		fields := append([]zap.Field{zap.String("tree", renderTree), zap.String("out", path)}, countFields(tree.Counts())...)
		zap.L().Info("render complete", fields...)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderTree, "tree", "", "tree artifact: .json or .db (required)")
	addOutputFlags(renderCmd, &renderOutput)
	_ = renderCmd.MarkFlagRequired("tree")
	rootCmd.AddCommand(renderCmd)
}
