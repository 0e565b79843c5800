package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/mj1618/droid-cli/internal/model"
)

// finalizeLabels settles the label of every surviving element. A field whose
// own text is meaningful and differs from the resolved label shows that text
// instead, unless the text looks like a placeholder.
func finalizeLabels(elements []model.Element) []model.Element {
	out := make([]model.Element, len(elements))
	for i, el := range elements {
		if el.Editable {
			if utf8.RuneCountInString(el.Text) > 1 && el.Text != el.Label && !isPlaceholderText(el.Text, el.Hint) {
				el.Label = el.Text
			}
		} else {
			el.Label = buttonLabel(el)
		}
		if el.Label == "" {
			el.Label = model.NoLabel
		}
		out[i] = el
	}
	return out
}

// isPlaceholderText reports whether a field's text is a placeholder rather
// than real content: the hint echoed back, a trailing ellipsis, a bracketed
// marker such as "<nome>" or "[email]", or the no-label placeholder itself.
func isPlaceholderText(text, hint string) bool {
	if hint != "" && strings.EqualFold(text, hint) {
		return true
	}
	if strings.HasSuffix(text, "...") || strings.HasSuffix(text, "…") {
		return true
	}
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '<' && last == '>') || (first == '[' && last == ']') {
			return true
		}
	}
	return strings.EqualFold(text, model.NoLabel)
}

// export assembles the snapshot from finalized, deduplicated elements.
// Order is the traversal order.
func export(elements []model.Element, sourceName, timestamp string) model.Snapshot {
	return model.NewSnapshot(sourceName, timestamp, elements)
}
