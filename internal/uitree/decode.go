// Package uitree decodes accessibility tree dumps into model.Node trees.
//
// Two encodings are accepted: the XML written by `uiautomator dump` and a
// JSON tree using the same attribute names. Decode sniffs which one it got.
package uitree

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mj1618/droid-cli/internal/model"
)

// ErrParse matches every error returned for an unreadable document.
var ErrParse = errors.New("invalid ui tree")

// ParseError describes why a document could not be decoded.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%v: %v", ErrParse, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Source, ErrParse, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Format identifies a document encoding.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sniff reports the encoding of data from its first significant byte.
func Sniff(data []byte) (Format, bool) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return "", false
	}
	switch data[0] {
	case '<':
		return FormatXML, true
	case '{', '[':
		return FormatJSON, true
	}
	return "", false
}

// Decode reads a whole document from r.
func Decode(r io.Reader) (*model.Node, error) {
	return decode(r, "")
}

// DecodeNamed is Decode with the source name recorded in errors.
func DecodeNamed(r io.Reader, source string) (*model.Node, error) {
	return decode(r, source)
}

// DecodeFile reads and decodes the document at path.
func DecodeFile(path string) (*model.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Source: path, Err: err}
	}
	defer f.Close()
	return decode(f, path)
}

// DecodeBytes decodes an in-memory document.
func DecodeBytes(data []byte, source string) (*model.Node, error) {
	return decode(bytes.NewReader(data), source)
}

func decode(r io.Reader, source string) (*model.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	format, ok := Sniff(data)
	if !ok {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, &ParseError{Source: source, Err: errors.New("empty document")}
		}
		return nil, &ParseError{Source: source, Err: errors.New("unrecognized document format")}
	}
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))

	var root *model.Node
	switch format {
	case FormatXML:
		root, err = decodeXML(data)
	case FormatJSON:
		root, err = decodeJSON(data)
	}
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	return root, nil
}

// xmlNode captures any element with all of its attributes, so unknown
// attributes and element names from newer dump formats are tolerated.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
}

func decodeXML(data []byte) (*model.Node, error) {
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("xml: %w", err)
	}
	n := root.toNode()
	return &n, nil
}

func (x xmlNode) toNode() model.Node {
	var n model.Node
	for _, a := range x.Attrs {
		switch a.Name.Local {
		case "bounds":
			n.Bounds = a.Value
		case "text":
			n.Text = a.Value
		case "resource-id":
			n.ResourceID = a.Value
		case "hint":
			n.Hint = a.Value
		case "content-desc":
			n.ContentDesc = a.Value
		case "clickable":
			n.Clickable = parseFlag(a.Value)
		case "class":
			n.Class = a.Value
		}
	}
	if n.Class == "" && x.XMLName.Local != "node" {
		n.Class = x.XMLName.Local
	}
	if len(x.Children) > 0 {
		n.Children = make([]model.Node, len(x.Children))
		for i, c := range x.Children {
			n.Children[i] = c.toNode()
		}
	}
	return n
}

func parseFlag(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}

// decodeJSON accepts a single root object or a list of top-level nodes,
// which are wrapped under a synthetic root.
func decodeJSON(data []byte) (*model.Node, error) {
	if data[0] == '[' {
		var nodes []jsonNode
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		root := model.Node{Class: "hierarchy", Children: toNodes(nodes)}
		return &root, nil
	}
	var root jsonNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	n := root.toNode()
	return &n, nil
}

// jsonNode mirrors model.Node with lenient attribute types. Dumps produced
// by other tools write flags as strings and ids as numbers.
type jsonNode struct {
	Bounds      jsonText   `json:"bounds"`
	Text        jsonText   `json:"text"`
	ResourceID  jsonText   `json:"resource-id"`
	Hint        jsonText   `json:"hint"`
	ContentDesc jsonText   `json:"content-desc"`
	Clickable   jsonFlag   `json:"clickable"`
	Class       jsonText   `json:"class"`
	Children    []jsonNode `json:"children"`
}

func (j jsonNode) toNode() model.Node {
	return model.Node{
		Bounds:      string(j.Bounds),
		Text:        string(j.Text),
		ResourceID:  string(j.ResourceID),
		Hint:        string(j.Hint),
		ContentDesc: string(j.ContentDesc),
		Clickable:   bool(j.Clickable),
		Class:       string(j.Class),
		Children:    toNodes(j.Children),
	}
}

func toNodes(nodes []jsonNode) []model.Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]model.Node, len(nodes))
	for i, c := range nodes {
		out[i] = c.toNode()
	}
	return out
}

// jsonText is a string attribute. Numbers and booleans keep their literal
// text; null, objects and arrays read as empty.
type jsonText string

func (t *jsonText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = jsonText(s)
		return nil
	}
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "true" || raw == "false":
		*t = jsonText(raw)
	case raw != "" && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')):
		*t = jsonText(raw)
	default:
		*t = ""
	}
	return nil
}

// jsonFlag is a boolean attribute given as a bool, a string such as "true",
// or a number. Anything unreadable is false.
type jsonFlag bool

func (f *jsonFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = jsonFlag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = jsonFlag(parseFlag(s))
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = jsonFlag(n != 0)
		return nil
	}
	*f = false
	return nil
}
