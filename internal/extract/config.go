package extract

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds the thresholds and keyword lists used by the extractor.
// Distances are in device pixels.
type Config struct {
	// Label candidates for a field must be within these center distances.
	VerticalLabelMaxDistance   int `yaml:"vertical_label_max_distance"   json:"vertical_label_max_distance"`
	HorizontalLabelMaxDistance int `yaml:"horizontal_label_max_distance" json:"horizontal_label_max_distance"`
	// HorizontalWeight scales the horizontal distance in the field label score.
	HorizontalWeight float64 `yaml:"horizontal_weight" json:"horizontal_weight"`
	// AboveLabelBias multiplies the score of candidates sitting above the field.
	AboveLabelBias float64 `yaml:"above_label_bias" json:"above_label_bias"`
	// ButtonLabelMaxDistance is the max Manhattan distance between a textless
	// button and an overlapping text node.
	ButtonLabelMaxDistance int `yaml:"button_label_max_distance" json:"button_label_max_distance"`

	// Fields no larger than SmallFieldMaxSize on both sides are shadow/helper inputs.
	SmallFieldMaxSize int `yaml:"small_field_max_size" json:"small_field_max_size"`
	// Fields wider and taller than these are visible input widgets.
	LargeFieldMinWidth  int `yaml:"large_field_min_width"  json:"large_field_min_width"`
	LargeFieldMinHeight int `yaml:"large_field_min_height" json:"large_field_min_height"`

	// SelectionKeywords mark labels of fields that behave as pickers.
	SelectionKeywords []string `yaml:"selection_keywords" json:"selection_keywords"`

	// DecorativeMinTextLength is the shortest text a button needs to count as labeled.
	DecorativeMinTextLength int `yaml:"decorative_min_text_length" json:"decorative_min_text_length"`
	// BackfillMaxDepth bounds the descendant search for a textless button.
	BackfillMaxDepth int `yaml:"backfill_max_depth" json:"backfill_max_depth"`
}

// DefaultSelectionKeywords covers English and Italian UI vocabulary.
var DefaultSelectionKeywords = []string{
	"category", "group", "type", "choice", "option", "list", "menu",
	"preferences", "settings", "cancel", "save", "ok", "confirm", "close", "back",
	"categoria", "gruppo", "tipo", "scelta", "opzion", "lista",
	"preferenze", "impostazioni", "annulla", "salva", "conferma", "chiudi", "indietro",
}

// DefaultConfig returns the thresholds tuned for phone-sized screens.
func DefaultConfig() Config {
	keywords := make([]string, len(DefaultSelectionKeywords))
	copy(keywords, DefaultSelectionKeywords)
	return Config{
		VerticalLabelMaxDistance:   150,
		HorizontalLabelMaxDistance: 300,
		HorizontalWeight:           0.5,
		AboveLabelBias:             0.7,
		ButtonLabelMaxDistance:     50,
		SmallFieldMaxSize:          10,
		LargeFieldMinWidth:         100,
		LargeFieldMinHeight:        50,
		SelectionKeywords:          keywords,
		DecorativeMinTextLength:    2,
		BackfillMaxDepth:           3,
	}
}

// Validate rejects configurations that would make the heuristics meaningless.
func (c Config) Validate() error {
	var errs []error
	if c.VerticalLabelMaxDistance <= 0 {
		errs = append(errs, fmt.Errorf("vertical_label_max_distance must be positive, got %d", c.VerticalLabelMaxDistance))
	}
	if c.HorizontalLabelMaxDistance <= 0 {
		errs = append(errs, fmt.Errorf("horizontal_label_max_distance must be positive, got %d", c.HorizontalLabelMaxDistance))
	}
	if c.HorizontalWeight < 0 {
		errs = append(errs, fmt.Errorf("horizontal_weight must not be negative, got %v", c.HorizontalWeight))
	}
	if c.AboveLabelBias <= 0 || c.AboveLabelBias > 1 {
		errs = append(errs, fmt.Errorf("above_label_bias must be in (0,1], got %v", c.AboveLabelBias))
	}
	if c.ButtonLabelMaxDistance < 0 {
		errs = append(errs, fmt.Errorf("button_label_max_distance must not be negative, got %d", c.ButtonLabelMaxDistance))
	}
	if c.SmallFieldMaxSize < 0 {
		errs = append(errs, fmt.Errorf("small_field_max_size must not be negative, got %d", c.SmallFieldMaxSize))
	}
	if c.LargeFieldMinWidth <= c.SmallFieldMaxSize || c.LargeFieldMinHeight <= c.SmallFieldMaxSize {
		errs = append(errs, errors.New("large field minimums must exceed small_field_max_size"))
	}
	if c.DecorativeMinTextLength < 1 {
		errs = append(errs, fmt.Errorf("decorative_min_text_length must be at least 1, got %d", c.DecorativeMinTextLength))
	}
	if c.BackfillMaxDepth < 0 {
		errs = append(errs, fmt.Errorf("backfill_max_depth must not be negative, got %d", c.BackfillMaxDepth))
	}
	return errors.Join(errs...)
}

// isSelectionLabel reports whether label contains a selection keyword.
func (c Config) isSelectionLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, k := range c.SelectionKeywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
