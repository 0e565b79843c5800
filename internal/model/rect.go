package model

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// Rect is an on-screen rectangle in device pixels with its derived center
// and size. Build it with NewRect so the derived fields stay consistent.
type Rect struct {
	X1, Y1, X2, Y2   int
	CenterX, CenterY int
	Width, Height    int
}

// NewRect builds a Rect from its top-left and bottom-right corners.
func NewRect(x1, y1, x2, y2 int) Rect {
	return Rect{
		X1: x1, Y1: y1, X2: x2, Y2: y2,
		CenterX: (x1 + x2) / 2,
		CenterY: (y1 + y2) / 2,
		Width:   x2 - x1,
		Height:  y2 - y1,
	}
}

// boundsRe matches a UIAutomator bounds string like "[0,210][1080,342]".
var boundsRe = regexp.MustCompile(`^\s*\[\s*(-?\d+)\s*,\s*(-?\d+)\s*\]\s*\[\s*(-?\d+)\s*,\s*(-?\d+)\s*\]\s*$`)

// ParseBounds parses a "[x1,y1][x2,y2]" string. It reports false for empty
// or malformed input instead of failing.
func ParseBounds(s string) (Rect, bool) {
	if s == "" {
		return Rect{}, false
	}
	m := boundsRe.FindStringSubmatch(s)
	if m == nil {
		return Rect{}, false
	}
	var v [4]int
	for i := range v {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Rect{}, false
		}
		v[i] = n
	}
	return NewRect(v[0], v[1], v[2], v[3]), true
}

// Box is the serialized form of a Rect: center point plus size.
type Box struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Box returns the center/size view of r.
func (r Rect) Box() Box {
	return Box{X: r.CenterX, Y: r.CenterY, Width: r.Width, Height: r.Height}
}

// RectFromBox rebuilds a Rect from its serialized form. Corners are
// recovered from the center, so odd sizes may shift by one pixel.
func RectFromBox(b Box) Rect {
	x1 := b.X - b.Width/2
	y1 := b.Y - b.Height/2
	return Rect{
		X1: x1, Y1: y1, X2: x1 + b.Width, Y2: y1 + b.Height,
		CenterX: b.X, CenterY: b.Y,
		Width: b.Width, Height: b.Height,
	}
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X1 < o.X2 && r.X2 > o.X1 && r.Y1 < o.Y2 && r.Y2 > o.Y1
}

// MarshalJSON writes the rectangle as {x, y, width, height}.
func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Box())
}

// UnmarshalJSON reads the {x, y, width, height} form.
func (r *Rect) UnmarshalJSON(data []byte) error {
	var b Box
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*r = RectFromBox(b)
	return nil
}

// MarshalYAML writes the rectangle as {x, y, width, height}.
func (r Rect) MarshalYAML() (interface{}, error) {
	return r.Box(), nil
}

// UnmarshalYAML reads the {x, y, width, height} form.
func (r *Rect) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var b Box
	if err := unmarshal(&b); err != nil {
		return err
	}
	*r = RectFromBox(b)
	return nil
}
