package uitree

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mj1618/droid-cli/internal/model"
)

func TestDecodeFile_UIAutomatorDump(t *testing.T) {
	root, err := DecodeFile(filepath.Join("testdata", "login.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if root.Class != "hierarchy" {
		t.Errorf("root class: got %q, want hierarchy", root.Class)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(root.Children))
	}
	frame := root.Children[0]
	if frame.Class != "android.widget.FrameLayout" || frame.Bounds != "[0,0][1080,2400]" {
		t.Errorf("frame: got %+v", frame)
	}
	if len(frame.Children) != 5 {
		t.Fatalf("expected 5 children, got %d", len(frame.Children))
	}
	email := frame.Children[1]
	if email.ResourceID != "it.example.app:id/email" || email.Hint != "nome@esempio.it" || !email.Clickable {
		t.Errorf("email field: got %+v", email)
	}
	if frame.Children[0].Text != "Email" || frame.Children[0].Clickable {
		t.Errorf("label: got %+v", frame.Children[0])
	}
}

func TestDecode_JSON(t *testing.T) {
	doc := `{"class":"hierarchy","children":[
		{"class":"android.widget.EditText","bounds":"[0,0][10,10]","hint":"Cerca","content-desc":"ricerca","clickable":true}
	]}`
	root, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	want := model.Node{Class: "android.widget.EditText", Bounds: "[0,0][10,10]", Hint: "Cerca", ContentDesc: "ricerca", Clickable: true}
	if len(root.Children) != 1 || root.Children[0].Class != want.Class || root.Children[0].Hint != want.Hint ||
		root.Children[0].ContentDesc != want.ContentDesc || !root.Children[0].Clickable {
		t.Errorf("got %+v", root.Children)
	}
}

func TestDecode_JSONList(t *testing.T) {
	root, err := Decode(strings.NewReader(`[{"text":"a"},{"text":"b"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if root.Class != "hierarchy" || len(root.Children) != 2 {
		t.Errorf("got %+v", root)
	}
}

func TestDecode_JSONLenientAttributes(t *testing.T) {
	doc := `{"class":"hierarchy","children":[
		{"class":"android.widget.Button","text":"Salva","clickable":"true","bounds":"[0,0][10,10]"},
		{"class":"android.widget.Button","text":"Annulla","clickable":"false"},
		{"class":"android.view.View","clickable":1,"resource-id":42},
		{"class":"android.view.View","clickable":{"x":1},"text":null,"hint":["a"]},
		{"class":"android.view.View","clickable":"maybe","content-desc":true}
	]}`
	root, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("soft attribute types should not fail the document: %v", err)
	}
	if len(root.Children) != 5 {
		t.Fatalf("expected 5 children, got %d", len(root.Children))
	}
	tests := []struct {
		name      string
		got       model.Node
		clickable bool
	}{
		{"string true", root.Children[0], true},
		{"string false", root.Children[1], false},
		{"number", root.Children[2], true},
		{"object", root.Children[3], false},
		{"unreadable string", root.Children[4], false},
	}
	for _, tt := range tests {
		if tt.got.Clickable != tt.clickable {
			t.Errorf("%s: clickable = %v, want %v", tt.name, tt.got.Clickable, tt.clickable)
		}
	}
	if root.Children[0].Text != "Salva" || root.Children[0].Bounds != "[0,0][10,10]" {
		t.Errorf("string attributes lost: %+v", root.Children[0])
	}
	if root.Children[2].ResourceID != "42" {
		t.Errorf("numeric id: got %q", root.Children[2].ResourceID)
	}
	if root.Children[3].Text != "" || root.Children[3].Hint != "" {
		t.Errorf("null and array attributes should be empty: %+v", root.Children[3])
	}
	if root.Children[4].ContentDesc != "true" {
		t.Errorf("boolean text: got %q", root.Children[4].ContentDesc)
	}
}

func TestDecode_MissingAttributesAreEmpty(t *testing.T) {
	root, err := Decode(strings.NewReader(`<hierarchy><node class="android.view.View"/></hierarchy>`))
	if err != nil {
		t.Fatal(err)
	}
	n := root.Children[0]
	if n.Text != "" || n.Bounds != "" || n.ResourceID != "" || n.Clickable {
		t.Errorf("expected empty attributes, got %+v", n)
	}
}

func TestDecode_ClickableFlag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"false", false},
		{"", false},
		{"yes", false},
	}
	for _, tt := range tests {
		root, err := Decode(strings.NewReader(`<node clickable="` + tt.value + `"/>`))
		if err != nil {
			t.Fatal(err)
		}
		if root.Clickable != tt.want {
			t.Errorf("clickable=%q: got %v, want %v", tt.value, root.Clickable, tt.want)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "empty document"},
		{"whitespace", "  \n\t", "empty document"},
		{"plain text", "hello", "unrecognized document format"},
		{"broken xml", "<hierarchy><node>", "xml"},
		{"broken json", `{"text": `, "json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := DecodeNamed(strings.NewReader(tt.doc), "dump.xml")
			if err == nil {
				t.Fatalf("expected error, got %+v", root)
			}
			if root != nil {
				t.Error("no partial tree on error")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v should match ErrParse", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Source != "dump.xml" {
				t.Errorf("expected *ParseError for dump.xml, got %T %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestDecodeFile_Missing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.xml"))
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"<hierarchy/>", FormatXML, true},
		{"\xEF\xBB\xBF  <?xml version='1.0'?><a/>", FormatXML, true},
		{" {}", FormatJSON, true},
		{"[]", FormatJSON, true},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		got, ok := Sniff([]byte(tt.in))
		if got != tt.want || ok != tt.ok {
			t.Errorf("Sniff(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
