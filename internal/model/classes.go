package model

import "strings"

// NodeClass is how the walker treats a node.
type NodeClass int

const (
	ClassIgnored NodeClass = iota
	ClassEditable
	ClassButton
	ClassLabel
)

// String returns a compact code for the class, used by inspect output.
func (c NodeClass) String() string {
	switch c {
	case ClassEditable:
		return "input"
	case ClassButton:
		return "btn"
	case ClassLabel:
		return "txt"
	default:
		return "-"
	}
}

// EditableClassKeywords are class-name fragments of editable widgets.
// TextInputLayout and AutoCompleteTextView are matched alongside EditText.
var EditableClassKeywords = []string{"edittext", "autocomplete", "textinput"}

// ButtonClassKeywords are class-name fragments of button widgets.
var ButtonClassKeywords = []string{"button"}

// LabelClassKeywords are class-name fragments of plain text widgets.
var LabelClassKeywords = []string{"textview"}

// Classify decides how a node is treated, in priority order:
// editable, button, label text, ignored. Class names match
// case-insensitively by substring.
func Classify(n Node) NodeClass {
	class := strings.ToLower(n.Class)
	if containsAny(class, EditableClassKeywords) {
		return ClassEditable
	}
	if n.Clickable || containsAny(class, ButtonClassKeywords) {
		return ClassButton
	}
	if containsAny(class, LabelClassKeywords) && strings.TrimSpace(n.Text) != "" {
		return ClassLabel
	}
	return ClassIgnored
}

// ShortClass returns the last dotted segment of a class name, e.g.
// "android.widget.Button" becomes "Button".
func ShortClass(class string) string {
	if i := strings.LastIndex(class, "."); i >= 0 {
		return class[i+1:]
	}
	return class
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
