package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/droid-cli/internal/model"
)

// Filter narrows a snapshot's element list.
type Filter struct {
	Kinds []model.Kind // Only these kinds (empty = all)
	Text  string       // Case-insensitive substring of label, text, hint or content description
	BBox  *model.Rect  // Only elements intersecting this rectangle (nil = no filter)
}

// ParseFilter builds a Filter from command flag values.
func ParseFilter(kinds []string, text, bbox string) (Filter, error) {
	var f Filter
	if len(kinds) > 0 {
		parsed, ok := model.ParseKinds(kinds)
		if !ok {
			return f, fmt.Errorf("invalid kind in %q (expected button or edit_text)", strings.Join(kinds, ","))
		}
		f.Kinds = parsed
	}
	f.Text = text
	if bbox != "" {
		r, err := ParseBBox(bbox)
		if err != nil {
			return f, err
		}
		f.BBox = r
	}
	return f, nil
}

// IsZero reports whether the filter keeps everything.
func (f Filter) IsZero() bool {
	return len(f.Kinds) == 0 && f.Text == "" && f.BBox == nil
}

// Apply returns snap with only the matching elements; counts follow.
func (f Filter) Apply(snap model.Snapshot) model.Snapshot {
	if f.IsZero() {
		return snap
	}
	elements := model.FilterElements(snap.Elements, f.Kinds, f.BBox)
	if f.Text != "" {
		elements = model.FilterByText(elements, f.Text)
	}
	return snap.WithElements(elements)
}

// ParseBBox parses a "x,y,w,h" string, x,y being the top-left corner.
func ParseBBox(s string) (*model.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid bbox %q: expected x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid bbox %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return nil, fmt.Errorf("invalid bbox %q: width and height must be positive", s)
	}
	r := model.NewRect(vals[0], vals[1], vals[0]+vals[2], vals[1]+vals[3])
	return &r, nil
}
