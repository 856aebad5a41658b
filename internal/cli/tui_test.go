package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/badgeboard/pkg/fields"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFieldPicker(t *testing.T) {
	var m tea.Model = NewFieldPickerModel(fields.List())
	for _, k := range []string{"down", "j", "k", "down"} {
		m, _ = m.Update(key(k))
	}
	if got := m.(FieldPickerModel).Cursor; got != 2 {
		t.Fatalf("cursor = %d, want 2", got)
	}
	if !strings.Contains(m.View(), "Select Field") {
		t.Error("view should show the title")
	}

	m, cmd := m.Update(key("enter"))
	picked := m.(FieldPickerModel).Selected
	if picked == nil || picked.Token != fields.List()[2].Token {
		t.Errorf("selected = %+v", picked)
	}
	if cmd == nil {
		t.Error("enter should quit")
	}
}

func TestFieldPickerBounds(t *testing.T) {
	var m tea.Model = NewFieldPickerModel(fields.List())
	m, _ = m.Update(key("up"))
	if m.(FieldPickerModel).Cursor != 0 {
		t.Error("cursor should not move above the first row")
	}
	for range fields.List() {
		m, _ = m.Update(key("down"))
	}
	if got := m.(FieldPickerModel).Cursor; got != len(fields.List())-1 {
		t.Errorf("cursor = %d, should stop at the last row", got)
	}
	m, _ = m.Update(key("esc"))
	if m.(FieldPickerModel).Selected != nil {
		t.Error("esc should not select")
	}
}

func TestRenderFieldTable(t *testing.T) {
	out := renderFieldTable(fields.List())
	for _, f := range fields.List() {
		if !strings.Contains(out, f.Token) {
			t.Errorf("table missing %s", f.Token)
		}
	}
	if !strings.Contains(out, "qr") {
		t.Error("scannable fields should be marked as qr")
	}
}
