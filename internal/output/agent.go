package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mj1618/droid-cli/internal/model"
)

// AgentFormatter is implemented by results with their own agent rendering.
type AgentFormatter interface {
	FormatAgent() string
}

// WriteAgent writes the compact listing meant for LLM agents. Snapshots are
// rendered as numbered field and button lists with tap coordinates; values
// with no agent rendering fall back to YAML.
func WriteAgent(w io.Writer, v interface{}) error {
	var s string
	switch t := v.(type) {
	case model.Snapshot:
		s = FormatAgentString(t)
	case *model.Snapshot:
		s = FormatAgentString(*t)
	case []model.Snapshot:
		parts := make([]string, len(t))
		for i, snap := range t {
			parts[i] = FormatAgentString(snap)
		}
		s = strings.Join(parts, "\n")
	case AgentFormatter:
		s = t.FormatAgent()
	default:
		return WriteYAML(w, v)
	}
	_, err := io.WriteString(w, s)
	return err
}

// FormatAgentString renders one snapshot:
//
//	# login.xml: 2 fields, 1 button
//	FIELDS:
//	1. Email @ 500,150
//	BUTTONS:
//	1. Accedi @ 500,550
func FormatAgentString(snap model.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s, %s\n", snap.SourceName,
		plural(snap.InputCount, "field"), plural(snap.ButtonCount, "button"))
	writeSection(&b, "FIELDS", snap.Inputs(), func(el model.Element) string { return el.Label })
	writeSection(&b, "BUTTONS", snap.Buttons(), AgentButtonName)
	return b.String()
}

func writeSection(b *strings.Builder, title string, elements []model.Element, name func(model.Element) string) {
	if len(elements) == 0 {
		return
	}
	b.WriteString(title + ":\n")
	for i, el := range elements {
		fmt.Fprintf(b, "%d. %s @ %d,%d\n", i+1, name(el), el.Rect.CenterX, el.Rect.CenterY)
	}
}

// AgentButtonName names a button for an agent. Buttons without text or
// description are named after their resource id.
func AgentButtonName(el model.Element) string {
	if el.Label != "" && el.Label != model.NoLabel {
		return el.Label
	}
	if el.ResourceID != "" {
		id := el.ResourceID
		if i := strings.LastIndexAny(id, ":/"); i >= 0 {
			id = id[i+1:]
		}
		return "[" + id + "]"
	}
	return "[unnamed button]"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
