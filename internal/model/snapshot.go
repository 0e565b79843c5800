package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Snapshot is the canonical list of interactive elements for one screen.
type Snapshot struct {
	SourceName  string    `yaml:"sourceName"  json:"sourceName"`
	Timestamp   string    `yaml:"timestamp"   json:"timestamp"`
	ButtonCount int       `yaml:"buttonCount" json:"buttonCount"`
	InputCount  int       `yaml:"inputCount"  json:"inputCount"`
	Elements    []Element `yaml:"elements"    json:"elements"`
}

// NewSnapshot assembles a snapshot and derives its counts from elements.
func NewSnapshot(sourceName, timestamp string, elements []Element) Snapshot {
	if elements == nil {
		elements = []Element{}
	}
	s := Snapshot{SourceName: sourceName, Timestamp: timestamp, Elements: elements}
	s.ButtonCount, s.InputCount = countKinds(elements)
	return s
}

// WithElements returns a copy of s holding only elements, with counts
// recomputed so ButtonCount+InputCount still equals len(Elements).
func (s Snapshot) WithElements(elements []Element) Snapshot {
	return NewSnapshot(s.SourceName, s.Timestamp, elements)
}

// Validate reports whether the counts agree with the element list.
func (s Snapshot) Validate() error {
	buttons, inputs := countKinds(s.Elements)
	if buttons != s.ButtonCount || inputs != s.InputCount {
		return fmt.Errorf("snapshot %q: counts %d/%d do not match elements %d/%d",
			s.SourceName, s.ButtonCount, s.InputCount, buttons, inputs)
	}
	return nil
}

// Buttons returns the button elements in order.
func (s Snapshot) Buttons() []Element {
	var out []Element
	for _, el := range s.Elements {
		if !el.Editable {
			out = append(out, el)
		}
	}
	return out
}

// Inputs returns the editable elements in order.
func (s Snapshot) Inputs() []Element {
	var out []Element
	for _, el := range s.Elements {
		if el.Editable {
			out = append(out, el)
		}
	}
	return out
}

func countKinds(elements []Element) (buttons, inputs int) {
	for _, el := range elements {
		if el.Editable {
			inputs++
		} else {
			buttons++
		}
	}
	return buttons, inputs
}

// DefaultOutputPath returns the snapshot path written next to an input
// dump: "screen.xml" becomes "screen.json".
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	if strings.EqualFold(ext, ".json") {
		return strings.TrimSuffix(input, ext) + ".snapshot.json"
	}
	return strings.TrimSuffix(input, ext) + ".json"
}

// SaveSnapshot writes a snapshot as indented JSON.
func SaveSnapshot(path string, s Snapshot) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot previously written by SaveSnapshot.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if s.Elements == nil {
		s.Elements = []Element{}
	}
	return s, nil
}
