package model

import "strings"

// FilterElements returns the elements matching every given filter. An empty
// kinds list matches all kinds and a nil bbox matches everywhere.
func FilterElements(elements []Element, kinds []Kind, bbox *Rect) []Element {
	if len(kinds) == 0 && bbox == nil {
		return elements
	}

	kindSet := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		kindSet[k] = true
	}

	result := []Element{}
	for _, el := range elements {
		kindMatch := len(kindSet) == 0 || kindSet[el.Kind]
		bboxMatch := bbox == nil || el.Rect.Intersects(*bbox)
		if kindMatch && bboxMatch {
			result = append(result, el)
		}
	}
	return result
}

// FilterByText returns elements whose label, text, hint or content
// description contains text (case-insensitive).
func FilterByText(elements []Element, text string) []Element {
	if text == "" {
		return elements
	}
	textLower := strings.ToLower(text)
	result := []Element{}
	for _, el := range elements {
		if textMatchesElement(el, textLower) {
			result = append(result, el)
		}
	}
	return result
}

func textMatchesElement(el Element, textLower string) bool {
	return strings.Contains(strings.ToLower(el.Label), textLower) ||
		strings.Contains(strings.ToLower(el.Text), textLower) ||
		strings.Contains(strings.ToLower(el.Hint), textLower) ||
		strings.Contains(strings.ToLower(el.ContentDesc), textLower)
}

// ParseKinds converts user-facing kind names into Kinds. It accepts the
// serialized names plus the short aliases "btn" and "input".
func ParseKinds(names []string) ([]Kind, bool) {
	var kinds []Kind
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "":
			continue
		case "button", "btn":
			kinds = append(kinds, KindButton)
		case "edit_text", "edittext", "input", "field":
			kinds = append(kinds, KindEditText)
		default:
			return nil, false
		}
	}
	return kinds, true
}
