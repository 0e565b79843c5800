package extract

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mj1618/droid-cli/internal/model"
)

// Discard records a button candidate dropped as decorative.
type Discard struct {
	Class       string `yaml:"class"                 json:"class"`
	Text        string `yaml:"text,omitempty"        json:"text,omitempty"`
	ContentDesc string `yaml:"contentDesc,omitempty" json:"contentDesc,omitempty"`
	Bounds      string `yaml:"bounds"                json:"bounds"`
	Reason      string `yaml:"reason"                json:"reason"`
}

const (
	reasonUnlabeled = "no resource id, text or content description"
	reasonTab       = "tab navigation: content description repeats text"
)

// walkResult is everything one traversal collects. It is built fresh for
// every call and never reused.
type walkResult struct {
	elements  []model.Element
	labels    []model.LabelCandidate
	discarded []Discard
}

type walker struct {
	cfg Config
	log *slog.Logger
	res walkResult
}

// walk visits the tree in pre-order and classifies every node that has a
// parsable rectangle. Nodes without one are transparent: their children are
// still visited.
func walk(root model.Node, cfg Config, log *slog.Logger) walkResult {
	w := &walker{cfg: cfg, log: log}
	w.visit(root)
	return w.res
}

func (w *walker) visit(n model.Node) {
	if rect, ok := model.ParseBounds(n.Bounds); ok {
		w.collect(n, rect)
	}
	for _, child := range n.Children {
		w.visit(child)
	}
}

func (w *walker) collect(n model.Node, rect model.Rect) {
	text := strings.TrimSpace(n.Text)
	resourceID := strings.TrimSpace(n.ResourceID)
	hint := strings.TrimSpace(n.Hint)
	contentDesc := strings.TrimSpace(n.ContentDesc)

	switch model.Classify(n) {
	case model.ClassEditable:
		w.res.elements = append(w.res.elements, model.Element{
			Kind:        model.KindEditText,
			Text:        text,
			Hint:        hint,
			ContentDesc: contentDesc,
			ResourceID:  resourceID,
			Rect:        rect,
			Clickable:   n.Clickable,
			Editable:    true,
		})

	case model.ClassButton:
		if n.Clickable && text == "" {
			text = findDescendantText(n.Children, w.cfg.BackfillMaxDepth, w.cfg.DecorativeMinTextLength)
		}
		if reason := w.decorativeReason(text, resourceID, contentDesc); reason != "" {
			d := Discard{
				Class:       n.Class,
				Text:        text,
				ContentDesc: contentDesc,
				Bounds:      n.Bounds,
				Reason:      reason,
			}
			w.res.discarded = append(w.res.discarded, d)
			w.log.Debug("filtered decorative element",
				slog.String("reason", reason),
				slog.String("text", text),
				slog.String("class", n.Class),
				slog.String("bounds", n.Bounds))
			return
		}
		w.res.elements = append(w.res.elements, model.Element{
			Kind:        model.KindButton,
			Text:        text,
			Hint:        hint,
			ContentDesc: contentDesc,
			ResourceID:  resourceID,
			Rect:        rect,
			Clickable:   n.Clickable,
		})

	case model.ClassLabel:
		w.res.labels = append(w.res.labels, model.LabelCandidate{Text: text, Rect: rect})
	}
}

// decorativeReason returns why a button is decorative, or "" if it is a
// real action target.
func (w *walker) decorativeReason(text, resourceID, contentDesc string) string {
	if resourceID != "" {
		return ""
	}
	if utf8.RuneCountInString(text) < w.cfg.DecorativeMinTextLength && contentDesc == "" {
		return reasonUnlabeled
	}
	if text != "" && contentDesc == text {
		return reasonTab
	}
	return ""
}

// findDescendantText returns the first descendant text, in pre-order, at
// least minLen characters long and no more than depth levels down.
func findDescendantText(children []model.Node, depth, minLen int) string {
	if depth <= 0 {
		return ""
	}
	for _, child := range children {
		text := strings.TrimSpace(child.Text)
		if text != "" && utf8.RuneCountInString(text) >= minLen {
			return text
		}
		if found := findDescendantText(child.Children, depth-1, minLen); found != "" {
			return found
		}
	}
	return ""
}
