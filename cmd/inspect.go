package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/droid-cli/internal/extract"
	"github.com/mj1618/droid-cli/internal/model"
	"github.com/mj1618/droid-cli/internal/output"
	"github.com/mj1618/droid-cli/internal/source"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <dump>",
	Short: "Show how each node of a dump was classified",
	Long: `Print the flattened node list of a dump with the class each node was given
(btn, input, txt or -), followed by the buttons discarded as decorative and
the elements removed as duplicates. Use it to understand why an element is
missing from a snapshot.

Examples:
  droid-cli inspect screen.xml
  droid-cli inspect screen.xml --classified-only --format agent`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("classified-only", false, "Only list nodes classified as button, input or label")
}

// inspectResult is the output of the inspect command.
type inspectResult struct {
	Source    string            `yaml:"source"              json:"source"`
	Nodes     []model.FlatNode  `yaml:"nodes"               json:"nodes"`
	Discarded []extract.Discard `yaml:"discarded,omitempty" json:"discarded,omitempty"`
	Removed   []extract.Removal `yaml:"removed,omitempty"   json:"removed,omitempty"`
	Buttons   int               `yaml:"buttons"             json:"buttons"`
	Inputs    int               `yaml:"inputs"              json:"inputs"`
}

func (r inspectResult) FormatAgent() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %d buttons, %d inputs\n", r.Source, r.Buttons, r.Inputs)
	for _, n := range r.Nodes {
		fmt.Fprintf(&b, "%s%-5s %s", strings.Repeat("  ", n.Depth), n.As, n.Class)
		if n.Text != "" {
			fmt.Fprintf(&b, " %q", n.Text)
		}
		fmt.Fprintf(&b, " %s\n", n.Bounds)
	}
	for _, d := range r.Discarded {
		fmt.Fprintf(&b, "discarded %s %q: %s\n", d.Class, d.Text, d.Reason)
	}
	for _, rm := range r.Removed {
		fmt.Fprintf(&b, "removed %s %q: %s\n", rm.Kind, rm.Label, rm.Rule)
	}
	return b.String()
}

func runInspect(cmd *cobra.Command, args []string) error {
	classifiedOnly, _ := cmd.Flags().GetBool("classified-only")

	sources, err := source.Resolve(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	src := sources[0]
	root, err := src.ReadTree(cmd.Context())
	if err != nil {
		return err
	}
	res := newExtractor("extract").Extract(*root, sourceName(src))

	nodes := model.FlattenNodes(*root)
	if classifiedOnly {
		kept := nodes[:0]
		for _, n := range nodes {
			if n.As != model.ClassIgnored.String() {
				kept = append(kept, n)
			}
		}
		nodes = kept
	}

	return output.Fprint(cmd.OutOrStdout(), inspectResult{
		Source:    src.Name(),
		Nodes:     nodes,
		Discarded: res.Discarded,
		Removed:   res.Removed,
		Buttons:   res.Snapshot.ButtonCount,
		Inputs:    res.Snapshot.InputCount,
	})
}
