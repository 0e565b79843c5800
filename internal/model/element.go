package model

// Kind is the type of an interactive element.
type Kind string

const (
	KindButton   Kind = "button"
	KindEditText Kind = "edit_text"
)

// NoLabel is the label given to elements for which nothing better was found.
const NoLabel = "no label"

// Element is an interactive element of a screen: a button or an editable field.
type Element struct {
	Kind        Kind   `yaml:"kind"        json:"kind"`
	Text        string `yaml:"text"        json:"text"`
	Hint        string `yaml:"hint"        json:"hint"`
	ContentDesc string `yaml:"contentDesc" json:"contentDesc"`
	ResourceID  string `yaml:"resourceId"  json:"resourceId"`
	Rect        Rect   `yaml:"rectangle"   json:"rectangle"`
	Clickable   bool   `yaml:"clickable"   json:"clickable"`
	Editable    bool   `yaml:"editable"    json:"editable"`
	Label       string `yaml:"label"       json:"label"`
}

// IsButton reports whether the element is a button.
func (e Element) IsButton() bool {
	return !e.Editable
}
