package extract

import (
	"sort"

	"github.com/mj1618/droid-cli/internal/model"
)

// Rule names a deduplication rule.
type Rule string

const (
	// RuleShadowField drops a tiny field that duplicates a visible one.
	RuleShadowField Rule = "shadow_field"
	// RuleSelectionField drops a tiny field that is really a picker button.
	RuleSelectionField Rule = "selection_field"
	// RuleDuplicateButton drops buttons repeating a tiny field's label.
	RuleDuplicateButton Rule = "duplicate_button"
)

// Removal records an element dropped by Dedup. Index refers to the input slice.
type Removal struct {
	Index int        `yaml:"index" json:"index"`
	Kind  model.Kind `yaml:"kind"  json:"kind"`
	Label string     `yaml:"label" json:"label"`
	Rule  Rule       `yaml:"rule"  json:"rule"`
}

// partitions groups element indexes by label.
type partitions struct {
	large   map[string][]int
	small   map[string][]int
	buttons map[string][]int
}

func (c Config) isLargeField(r model.Rect) bool {
	return r.Width > c.LargeFieldMinWidth && r.Height > c.LargeFieldMinHeight
}

func (c Config) isSmallField(r model.Rect) bool {
	return r.Width <= c.SmallFieldMaxSize && r.Height <= c.SmallFieldMaxSize
}

func partition(elements []model.Element, cfg Config) partitions {
	p := partitions{
		large:   make(map[string][]int),
		small:   make(map[string][]int),
		buttons: make(map[string][]int),
	}
	for i, el := range elements {
		switch {
		case el.Editable && cfg.isLargeField(el.Rect):
			p.large[el.Label] = append(p.large[el.Label], i)
		case el.Editable && cfg.isSmallField(el.Rect):
			p.small[el.Label] = append(p.small[el.Label], i)
		case !el.Editable && el.Clickable && el.Text != "":
			p.buttons[el.Label] = append(p.buttons[el.Label], i)
		}
	}
	return p
}

// Dedup removes redundant representations of the same logical field.
//
// Every rule is keyed on a small field's label:
//   - shadow field: a large field shares the label, the small one goes;
//   - selection field: the label has a selection keyword and a button shares
//     it, the small field goes;
//   - duplicate button: no selection keyword, no large field, a button shares
//     the label, the buttons go.
//
// Rules are evaluated against the partitions of the input, so removals form
// a set union and no rule sees another's effect. Labels are visited in
// lexicographic order and an element matched by several rules is reported
// under the first one in the order above. The surviving elements keep their
// input order. Running Dedup on its own output removes nothing.
func Dedup(elements []model.Element, cfg Config) ([]model.Element, []Removal) {
	p := partition(elements, cfg)

	labels := make([]string, 0, len(p.small))
	for label := range p.small {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	removed := make(map[int]Rule)
	mark := func(indexes []int, rule Rule) {
		for _, i := range indexes {
			if _, done := removed[i]; !done {
				removed[i] = rule
			}
		}
	}

	for _, label := range labels {
		small := p.small[label]
		hasLarge := len(p.large[label]) > 0
		hasButton := len(p.buttons[label]) > 0
		selection := cfg.isSelectionLabel(label)

		if hasLarge {
			mark(small, RuleShadowField)
		}
		if selection && hasButton {
			mark(small, RuleSelectionField)
		}
		if !selection && !hasLarge && hasButton {
			mark(p.buttons[label], RuleDuplicateButton)
		}
	}

	kept := make([]model.Element, 0, len(elements)-len(removed))
	var removals []Removal
	for i, el := range elements {
		if rule, ok := removed[i]; ok {
			removals = append(removals, Removal{Index: i, Kind: el.Kind, Label: el.Label, Rule: rule})
			continue
		}
		kept = append(kept, el)
	}
	return kept, removals
}
