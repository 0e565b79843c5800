package cmd

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/droid-cli/internal/logger"
	"github.com/mj1618/droid-cli/internal/model"
	"github.com/mj1618/droid-cli/internal/output"
	"github.com/mj1618/droid-cli/internal/source"
)

var convertCmd = &cobra.Command{
	Use:   "convert <dump>...",
	Short: "Convert UI dumps into element snapshots",
	Long: `Convert one or more UIAutomator dumps (XML or JSON) into snapshots of the
buttons and editable fields on screen.

By default each snapshot is written next to its dump as <name>.json and a
summary is printed. Directories are expanded to the dumps they contain and
"-" reads a dump from stdin.

Examples:
  droid-cli convert screen.xml
  droid-cli convert dumps/ --jobs 4
  adb exec-out uiautomator dump /dev/tty | droid-cli convert - --stdout --format agent
  droid-cli convert screen.xml --stdout --kind button --text salva`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("output", "o", "", "Output path (single input only)")
	convertCmd.Flags().Bool("stdout", false, "Print snapshots instead of writing files")
	convertCmd.Flags().Int("jobs", runtime.NumCPU(), "Number of dumps converted in parallel")
	convertCmd.Flags().String("kind", "", "Comma-separated kinds to keep: button, edit_text")
	convertCmd.Flags().String("text", "", "Keep elements whose label, text, hint or description contains this text")
	convertCmd.Flags().String("bbox", "", "Keep elements intersecting a bounding box (x,y,w,h)")
}

// convertSummary reports one converted dump.
type convertSummary struct {
	Source  string `yaml:"source"           json:"source"`
	Output  string `yaml:"output,omitempty" json:"output,omitempty"`
	Buttons int    `yaml:"buttons"          json:"buttons"`
	Inputs  int    `yaml:"inputs"           json:"inputs"`
}

type convertSummaries []convertSummary

func (s convertSummaries) FormatAgent() string {
	var b strings.Builder
	for _, c := range s {
		fmt.Fprintf(&b, "%s -> %s: %d buttons, %d inputs\n", c.Source, c.Output, c.Buttons, c.Inputs)
	}
	return b.String()
}

func runConvert(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("output")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	jobs, _ := cmd.Flags().GetInt("jobs")
	kinds, _ := cmd.Flags().GetString("kind")
	text, _ := cmd.Flags().GetString("text")
	bbox, _ := cmd.Flags().GetString("bbox")

	var kindList []string
	if kinds != "" {
		kindList = strings.Split(kinds, ",")
	}
	filter, err := source.ParseFilter(kindList, text, bbox)
	if err != nil {
		return err
	}

	sources, err := source.Resolve(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if outPath != "" && len(sources) > 1 {
		return fmt.Errorf("--output needs a single input, got %d", len(sources))
	}
	if outPath != "" && toStdout {
		return fmt.Errorf("--output and --stdout are mutually exclusive")
	}
	outputs := make([]string, len(sources))
	for i, src := range sources {
		switch {
		case toStdout:
		case outPath != "":
			outputs[i] = outPath
		case src.Name() == "stdin":
			return fmt.Errorf("reading stdin requires --output or --stdout")
		default:
			outputs[i] = model.DefaultOutputPath(src.Name())
		}
	}

	log := logger.Named("convert")
	x := newExtractor("extract")
	snaps := make([]model.Snapshot, len(sources))

	g, ctx := errgroup.WithContext(cmd.Context())
	if jobs < 1 {
		jobs = 1
	}
	g.SetLimit(jobs)
	for i, src := range sources {
		g.Go(func() error {
			res, err := extractSource(ctx, x, src)
			if err != nil {
				return fmt.Errorf("convert %s: %w", src.Name(), err)
			}
			snap := filter.Apply(res.Snapshot)
			snaps[i] = snap
			if outputs[i] == "" {
				return nil
			}
			if err := model.SaveSnapshot(outputs[i], snap); err != nil {
				return err
			}
			log.Debug("wrote snapshot",
				slog.String("source", src.Name()),
				slog.String("output", outputs[i]),
				slog.Int("buttons", snap.ButtonCount),
				slog.Int("inputs", snap.InputCount))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if toStdout {
		if len(snaps) == 1 {
			return output.Fprint(w, snaps[0])
		}
		return output.Fprint(w, snaps)
	}
	summaries := make(convertSummaries, len(snaps))
	for i, snap := range snaps {
		summaries[i] = convertSummary{
			Source:  sources[i].Name(),
			Output:  outputs[i],
			Buttons: snap.ButtonCount,
			Inputs:  snap.InputCount,
		}
	}
	return output.Fprint(w, summaries)
}
