package model

import "testing"

func TestDiffSnapshots_NoChanges(t *testing.T) {
	s := NewSnapshot("a.xml", "", sampleElements())
	diff := DiffSnapshots(s, s)
	if len(diff.Changes) != 0 {
		t.Errorf("expected no changes, got %+v", diff.Changes)
	}
	if diff.UnchangedCount != 3 {
		t.Errorf("unchanged: got %d, want 3", diff.UnchangedCount)
	}
}

func TestDiffSnapshots_AddedRemovedChanged(t *testing.T) {
	prev := NewSnapshot("a.xml", "", sampleElements())

	currEls := sampleElements()
	currEls[0].Text = "Mario"
	currEls = currEls[:2]
	currEls = append(currEls, Element{
		Kind: KindButton, Clickable: true, Text: "Conferma", Label: "Conferma",
		Rect: NewRect(0, 600, 200, 660),
	})
	curr := NewSnapshot("b.xml", "", currEls)

	diff := DiffSnapshots(prev, curr)
	counts := map[ChangeType]int{}
	for _, c := range diff.Changes {
		counts[c.Type]++
	}
	if counts[ChangeAdded] != 1 || counts[ChangeRemoved] != 1 || counts[ChangeChanged] != 1 {
		t.Fatalf("unexpected change counts: %v", counts)
	}
	if diff.UnchangedCount != 1 {
		t.Errorf("unchanged: got %d, want 1", diff.UnchangedCount)
	}
	for _, c := range diff.Changes {
		switch c.Type {
		case ChangeAdded:
			if c.Label != "Conferma" || c.Element == nil {
				t.Errorf("added: %+v", c)
			}
		case ChangeRemoved:
			if c.Label != "Annulla" {
				t.Errorf("removed: %+v", c)
			}
		case ChangeChanged:
			if c.Label != "Nome" || c.Changes["text"] != [2]string{"", "Mario"} {
				t.Errorf("changed: %+v", c)
			}
			if fields := c.ChangedFields(); len(fields) != 1 || fields[0] != "text" {
				t.Errorf("changed fields: %v", fields)
			}
		}
	}
}

func TestDiffSnapshots_RepeatedLabels(t *testing.T) {
	btn := Element{Kind: KindButton, Clickable: true, Text: "Elimina", Label: "Elimina"}
	a, b := btn, btn
	a.Rect = NewRect(0, 0, 100, 40)
	b.Rect = NewRect(0, 100, 100, 140)

	prev := NewSnapshot("a", "", []Element{a, b})
	curr := NewSnapshot("b", "", []Element{a})
	diff := DiffSnapshots(prev, curr)
	if len(diff.Changes) != 1 || diff.Changes[0].Type != ChangeRemoved {
		t.Errorf("expected one removal, got %+v", diff.Changes)
	}
}

func TestDiffSnapshots_MovedElement(t *testing.T) {
	prev := NewSnapshot("a", "", sampleElements())
	currEls := sampleElements()
	currEls[1].Rect = NewRect(0, 700, 200, 760)
	diff := DiffSnapshots(prev, NewSnapshot("b", "", currEls))
	if len(diff.Changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", diff.Changes)
	}
	if _, ok := diff.Changes[0].Changes["rectangle"]; !ok {
		t.Errorf("expected rectangle change, got %+v", diff.Changes[0].Changes)
	}
}

func TestSnapshotDiff_FormatAgent(t *testing.T) {
	d := SnapshotDiff{
		Changes: []UIChange{
			{Type: ChangeAdded, Kind: KindButton, Label: "Salva"},
			{Type: ChangeRemoved, Kind: KindEditText, Label: "Nome"},
			{Type: ChangeChanged, Kind: KindButton, Label: "OK", Changes: map[string][2]string{
				"text": {"OK", "Ok"}, "clickable": {"true", "false"},
			}},
		},
		UnchangedCount: 4,
	}
	want := "+ button \"Salva\"\n- edit_text \"Nome\"\n~ button \"OK\": clickable, text\n4 unchanged\n"
	if got := d.FormatAgent(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
