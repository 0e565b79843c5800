package model

// Node is one node of an accessibility tree as captured from the device.
// Attributes missing from the source document are left empty.
type Node struct {
	Bounds      string `yaml:"bounds,omitempty"       json:"bounds,omitempty"`
	Text        string `yaml:"text,omitempty"         json:"text,omitempty"`
	ResourceID  string `yaml:"resource-id,omitempty"  json:"resource-id,omitempty"`
	Hint        string `yaml:"hint,omitempty"         json:"hint,omitempty"`
	ContentDesc string `yaml:"content-desc,omitempty" json:"content-desc,omitempty"`
	Clickable   bool   `yaml:"clickable,omitempty"    json:"clickable,omitempty"`
	Class       string `yaml:"class,omitempty"        json:"class,omitempty"`
	Children    []Node `yaml:"children,omitempty"     json:"children,omitempty"`
}

// LabelCandidate is a non-clickable text node used only to label other
// elements. It never appears in a snapshot.
type LabelCandidate struct {
	Text string
	Rect Rect
}
