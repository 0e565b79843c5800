package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/mj1618/droid-cli/internal/model"
	"gopkg.in/yaml.v3"
)

func sampleSnapshot() model.Snapshot {
	return model.NewSnapshot("login.xml", "2024-03-15T09:30:00Z", []model.Element{
		{Kind: model.KindEditText, Editable: true, Clickable: true, Label: "Email", ResourceID: "app:id/email", Rect: model.NewRect(100, 100, 900, 200)},
		{Kind: model.KindButton, Clickable: true, Text: "Accedi <ora>", Label: "Accedi <ora>", Rect: model.NewRect(100, 500, 900, 600)},
		{Kind: model.KindButton, Clickable: true, ResourceID: "app:id/fab", Label: model.NoLabel, Rect: model.NewRect(900, 2200, 1000, 2300)},
	})
}

func TestPrintYAML(t *testing.T) {
	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := PrintYAML(sampleSnapshot())
	w.Close()
	os.Stdout = old

	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if bytes.Count([]byte(output), []byte("\n")) <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", output)
	}

	var decoded model.Snapshot
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.SourceName != "login.xml" || decoded.ButtonCount != 2 || decoded.InputCount != 1 {
		t.Errorf("decoded: %+v", decoded)
	}
	if len(decoded.Elements) != 3 {
		t.Errorf("elements: got %d, want 3", len(decoded.Elements))
	}
}

func TestWriteJSON_CompactAndPretty(t *testing.T) {
	var compact, pretty bytes.Buffer
	if err := WriteJSON(&compact, sampleSnapshot(), false); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(&pretty, sampleSnapshot(), true); err != nil {
		t.Fatal(err)
	}
	if strings.Count(compact.String(), "\n") != 1 {
		t.Errorf("compact JSON should be one line:\n%s", compact.String())
	}
	if !strings.Contains(pretty.String(), "\n  \"sourceName\"") {
		t.Errorf("pretty JSON should be indented:\n%s", pretty.String())
	}
	if !strings.Contains(compact.String(), "Accedi <ora>") {
		t.Error("HTML characters must not be escaped")
	}
	var m map[string]any
	if err := json.Unmarshal(compact.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"sourceName", "timestamp", "buttonCount", "inputCount", "elements"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestFprint_UsesCurrentFormat(t *testing.T) {
	defer func(f Format, p bool) { OutputFormat, PrettyOutput = f, p }(OutputFormat, PrettyOutput)

	tests := []struct {
		format Format
		prefix string
	}{
		{FormatJSON, "{"},
		{FormatYAML, "sourceName: login.xml"},
		{FormatAgent, "# login.xml"},
	}
	for _, tt := range tests {
		OutputFormat = tt.format
		var buf bytes.Buffer
		if err := Fprint(&buf, sampleSnapshot()); err != nil {
			t.Fatalf("%s: %v", tt.format, err)
		}
		if !strings.HasPrefix(buf.String(), tt.prefix) {
			t.Errorf("%s: output starts %q, want %q", tt.format, buf.String(), tt.prefix)
		}
	}

	OutputFormat = "xml"
	if err := Fprint(&bytes.Buffer{}, sampleSnapshot()); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"yaml", "json", "agent"} {
		if f, err := ParseFormat(s); err != nil || string(f) != s {
			t.Errorf("ParseFormat(%q) = %q, %v", s, f, err)
		}
	}
	if _, err := ParseFormat("screenshot"); err == nil {
		t.Error("expected error")
	}
}

func TestYAMLString(t *testing.T) {
	s, err := YAMLString(map[string]int{"buttons": 2})
	if err != nil {
		t.Fatal(err)
	}
	if s != "buttons: 2\n" {
		t.Errorf("got %q", s)
	}
}
