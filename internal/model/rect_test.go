package model

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseBounds_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  Rect
	}{
		{"[0,0][1080,2400]", Rect{X1: 0, Y1: 0, X2: 1080, Y2: 2400, CenterX: 540, CenterY: 1200, Width: 1080, Height: 2400}},
		{"[100,100][300,140]", Rect{X1: 100, Y1: 100, X2: 300, Y2: 140, CenterX: 200, CenterY: 120, Width: 200, Height: 40}},
		{"[1,1][4,4]", Rect{X1: 1, Y1: 1, X2: 4, Y2: 4, CenterX: 2, CenterY: 2, Width: 3, Height: 3}},
		{" [ 10, 20 ][ 30 ,41 ] ", Rect{X1: 10, Y1: 20, X2: 30, Y2: 41, CenterX: 20, CenterY: 30, Width: 20, Height: 21}},
	}
	for _, tt := range tests {
		got, ok := ParseBounds(tt.input)
		if !ok {
			t.Errorf("ParseBounds(%q) failed", tt.input)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBounds(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestParseBounds_Invalid(t *testing.T) {
	tests := []string{
		"",
		"[0,0]",
		"[0,0][10]",
		"[a,b][c,d]",
		"0,0,10,10",
		"[0,0][10,10][20,20]",
		"[99999999999999999999,0][1,1]",
	}
	for _, s := range tests {
		if _, ok := ParseBounds(s); ok {
			t.Errorf("ParseBounds(%q) should fail", s)
		}
	}
}

func TestRect_JSONUsesCenter(t *testing.T) {
	r := NewRect(100, 100, 300, 140)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"x": 200, "y": 120, "width": 200, "height": 40}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("key %q: got %d, want %d", k, m[k], v)
		}
	}
	if len(m) != len(want) {
		t.Errorf("unexpected keys in %s", data)
	}

	var back Rect
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != r {
		t.Errorf("round trip: got %+v, want %+v", back, r)
	}
}

func TestRect_YAMLUsesCenter(t *testing.T) {
	r := NewRect(0, 0, 20, 10)
	data, err := yaml.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]int
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["x"] != 10 || m["y"] != 5 || m["width"] != 20 || m["height"] != 10 {
		t.Errorf("unexpected yaml rectangle: %s", data)
	}
}

func TestRect_Intersects(t *testing.T) {
	a := NewRect(0, 0, 100, 100)
	if !a.Intersects(NewRect(50, 50, 150, 150)) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(NewRect(100, 0, 200, 100)) {
		t.Error("touching rects should not intersect")
	}
}
