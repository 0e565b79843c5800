package model

import (
	"fmt"
	"sort"
	"strings"
)

// ChangeType represents the kind of UI change detected.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// UIChange represents a single element change between two snapshots.
type UIChange struct {
	Type    ChangeType           `yaml:"type"              json:"type"`
	Kind    Kind                 `yaml:"kind"              json:"kind"`
	Label   string               `yaml:"label"             json:"label"`
	Element *Element             `yaml:"el,omitempty"      json:"el,omitempty"`      // For added: the full element
	Changes map[string][2]string `yaml:"changes,omitempty" json:"changes,omitempty"` // For changed: field diffs
}

// SnapshotDiff is the result of comparing two snapshots.
type SnapshotDiff struct {
	Changes        []UIChange `yaml:"changes"         json:"changes"`
	UnchangedCount int        `yaml:"unchanged_count" json:"unchanged_count"`
}

// elementKey identifies an element across snapshots. Labels repeat on
// some screens, so the occurrence index disambiguates them.
type elementKey struct {
	kind  Kind
	label string
	n     int
}

func keyElements(elements []Element) ([]elementKey, map[elementKey]Element) {
	seen := make(map[[2]string]int, len(elements))
	keys := make([]elementKey, len(elements))
	byKey := make(map[elementKey]Element, len(elements))
	for i, el := range elements {
		id := [2]string{string(el.Kind), el.Label}
		k := elementKey{kind: el.Kind, label: el.Label, n: seen[id]}
		seen[id]++
		keys[i] = k
		byKey[k] = el
	}
	return keys, byKey
}

// DiffSnapshots compares two snapshots by element identity (kind + label)
// rather than by position, so elements shifting in the list are matched.
// Added and changed elements follow curr's order, removed ones prev's.
func DiffSnapshots(prev, curr Snapshot) SnapshotDiff {
	prevKeys, prevByKey := keyElements(prev.Elements)
	currKeys, currByKey := keyElements(curr.Elements)

	diff := SnapshotDiff{Changes: []UIChange{}}

	// Check for added and changed elements
	for i, k := range currKeys {
		el := curr.Elements[i]
		prevEl, existed := prevByKey[k]
		if !existed {
			elCopy := el
			diff.Changes = append(diff.Changes, UIChange{
				Type:    ChangeAdded,
				Kind:    el.Kind,
				Label:   el.Label,
				Element: &elCopy,
			})
			continue
		}
		changes := diffProperties(prevEl, el)
		if len(changes) > 0 {
			diff.Changes = append(diff.Changes, UIChange{
				Type:    ChangeChanged,
				Kind:    el.Kind,
				Label:   el.Label,
				Changes: changes,
			})
		} else {
			diff.UnchangedCount++
		}
	}

	// Check for removed elements
	for i, k := range prevKeys {
		if _, exists := currByKey[k]; !exists {
			el := prev.Elements[i]
			diff.Changes = append(diff.Changes, UIChange{
				Type:  ChangeRemoved,
				Kind:  el.Kind,
				Label: el.Label,
			})
		}
	}

	return diff
}

// diffProperties compares the mutable fields of two matched elements.
func diffProperties(prev, curr Element) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Text != curr.Text {
		diffs["text"] = [2]string{prev.Text, curr.Text}
	}
	if prev.Hint != curr.Hint {
		diffs["hint"] = [2]string{prev.Hint, curr.Hint}
	}
	if prev.ContentDesc != curr.ContentDesc {
		diffs["contentDesc"] = [2]string{prev.ContentDesc, curr.ContentDesc}
	}
	if prev.ResourceID != curr.ResourceID {
		diffs["resourceId"] = [2]string{prev.ResourceID, curr.ResourceID}
	}
	if prev.Rect.Box() != curr.Rect.Box() {
		diffs["rectangle"] = [2]string{formatBox(prev.Rect.Box()), formatBox(curr.Rect.Box())}
	}
	if prev.Clickable != curr.Clickable {
		diffs["clickable"] = [2]string{
			fmt.Sprintf("%v", prev.Clickable),
			fmt.Sprintf("%v", curr.Clickable),
		}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}

func formatBox(b Box) string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.Width, b.Height)
}

// ChangedFields returns the sorted field names of a changed element.
func (c UIChange) ChangedFields() []string {
	fields := make([]string, 0, len(c.Changes))
	for f := range c.Changes {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// FormatAgent renders the diff one change per line:
// "+" added, "-" removed, "~" changed with the changed fields.
func (d SnapshotDiff) FormatAgent() string {
	var b strings.Builder
	for _, c := range d.Changes {
		switch c.Type {
		case ChangeAdded:
			fmt.Fprintf(&b, "+ %s %q\n", c.Kind, c.Label)
		case ChangeRemoved:
			fmt.Fprintf(&b, "- %s %q\n", c.Kind, c.Label)
		case ChangeChanged:
			fmt.Fprintf(&b, "~ %s %q: %s\n", c.Kind, c.Label, strings.Join(c.ChangedFields(), ", "))
		}
	}
	fmt.Fprintf(&b, "%d unchanged\n", d.UnchangedCount)
	return b.String()
}
