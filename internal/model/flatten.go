package model

// FlatNode is a tree node with a path breadcrumb instead of children.
type FlatNode struct {
	Index       int    `yaml:"i"            json:"i"`
	Depth       int    `yaml:"depth"        json:"depth"`
	Class       string `yaml:"class"        json:"class"`
	As          string `yaml:"as"           json:"as"`
	Text        string `yaml:"t,omitempty"  json:"t,omitempty"`
	ResourceID  string `yaml:"id,omitempty" json:"id,omitempty"`
	ContentDesc string `yaml:"d,omitempty"  json:"d,omitempty"`
	Bounds      string `yaml:"b,omitempty"  json:"b,omitempty"`
	Clickable   bool   `yaml:"c,omitempty"  json:"c,omitempty"`
	Path        string `yaml:"p,omitempty"  json:"p,omitempty"`
}

// FlattenNodes converts a node tree into a pre-order list. Each node gets a
// path of short class names joined with " > " and the class the walker would
// assign it. Nodes without parsable bounds are listed as ignored since the
// walker never collects them.
func FlattenNodes(root Node) []FlatNode {
	var result []FlatNode
	flattenRecursive(root, "", 0, &result)
	return result
}

func flattenRecursive(n Node, parentPath string, depth int, result *[]FlatNode) {
	short := ShortClass(n.Class)
	if short == "" {
		short = "node"
	}
	currentPath := short
	if parentPath != "" {
		currentPath = parentPath + " > " + short
	}

	class := ClassIgnored
	if _, ok := ParseBounds(n.Bounds); ok {
		class = Classify(n)
	}

	*result = append(*result, FlatNode{
		Index:       len(*result),
		Depth:       depth,
		Class:       n.Class,
		As:          class.String(),
		Text:        n.Text,
		ResourceID:  n.ResourceID,
		ContentDesc: n.ContentDesc,
		Bounds:      n.Bounds,
		Clickable:   n.Clickable,
		Path:        currentPath,
	})

	for _, child := range n.Children {
		flattenRecursive(child, currentPath, depth+1, result)
	}
}
