package extract

import (
	"math"

	"github.com/mj1618/droid-cli/internal/model"
)

// resolveFieldLabel picks the label text node closest to an editable field.
// Vertical distance weighs more than horizontal, and candidates sitting
// entirely above the field get a bonus since forms usually put labels there.
// Without a candidate it falls back to hint, then the field's own text.
func resolveFieldLabel(field model.Element, labels []model.LabelCandidate, cfg Config) string {
	best := ""
	bestScore := math.Inf(1)
	for _, c := range labels {
		dy := abs(c.Rect.CenterY - field.Rect.CenterY)
		dx := abs(c.Rect.CenterX - field.Rect.CenterX)
		if dy >= cfg.VerticalLabelMaxDistance || dx >= cfg.HorizontalLabelMaxDistance {
			continue
		}
		score := float64(dy) + cfg.HorizontalWeight*float64(dx)
		if c.Rect.Y2 <= field.Rect.Y1 {
			score *= cfg.AboveLabelBias
		}
		// Strict comparison keeps the earliest candidate on ties.
		if score < bestScore {
			bestScore = score
			best = c.Text
		}
	}

	switch {
	case best != "":
		return best
	case field.Hint != "":
		return field.Hint
	case field.Text != "":
		return field.Text
	default:
		return model.NoLabel
	}
}

// resolveButtonText returns the button's text, or the text of the first
// label node drawn on top of it when the button has none.
func resolveButtonText(button model.Element, labels []model.LabelCandidate, cfg Config) string {
	if button.Text != "" {
		return button.Text
	}
	for _, c := range labels {
		d := abs(c.Rect.CenterX-button.Rect.CenterX) + abs(c.Rect.CenterY-button.Rect.CenterY)
		if d <= cfg.ButtonLabelMaxDistance {
			return c.Text
		}
	}
	return ""
}

// buttonLabel is the label shown for a button: text, then content
// description, then the placeholder.
func buttonLabel(button model.Element) string {
	switch {
	case button.Text != "":
		return button.Text
	case button.ContentDesc != "":
		return button.ContentDesc
	default:
		return model.NoLabel
	}
}

// resolveLabels returns a copy of elements with labels resolved and
// textless buttons given the text of overlapping label nodes.
func resolveLabels(elements []model.Element, labels []model.LabelCandidate, cfg Config) []model.Element {
	out := make([]model.Element, len(elements))
	for i, el := range elements {
		if el.Editable {
			el.Label = resolveFieldLabel(el, labels, cfg)
		} else {
			el.Text = resolveButtonText(el, labels, cfg)
			el.Label = buttonLabel(el)
		}
		out[i] = el
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
