package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/droid-cli/internal/model"
	"github.com/mj1618/droid-cli/internal/output"
)

var diffCmd = &cobra.Command{
	Use:   "diff <before> <after>",
	Short: "Compare the elements of two screens",
	Long: `Compare two snapshots, or two raw dumps, by element identity (kind and
label) rather than position. Reports added, removed and changed elements.

Examples:
  droid-cli diff login.json home.json
  droid-cli diff before.xml after.xml --format agent`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	x := newExtractor("extract")
	prev, err := loadSnapshotOrDump(cmd.Context(), x, args[0])
	if err != nil {
		return err
	}
	curr, err := loadSnapshotOrDump(cmd.Context(), x, args[1])
	if err != nil {
		return err
	}
	return output.Fprint(cmd.OutOrStdout(), model.DiffSnapshots(prev, curr))
}
