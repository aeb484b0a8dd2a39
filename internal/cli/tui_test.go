package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/classdiagram/pkg/classdiagram"
)

func zooDiagram(t *testing.T) classdiagram.Diagram {
	t.Helper()
	name, err := classdiagram.NewAttribute("name", classdiagram.WithType("String"), classdiagram.WithVisibility(classdiagram.Public))
	if err != nil {
		t.Fatal(err)
	}
	animal, err := classdiagram.NewClass("Animal", classdiagram.WithAnnotation("abstract"))
	if err != nil {
		t.Fatal(err)
	}
	dog, err := classdiagram.NewClass("Dog")
	if err != nil {
		t.Fatal(err)
	}
	cat, err := classdiagram.NewClass("Cat")
	if err != nil {
		t.Fatal(err)
	}
	inherits, err := classdiagram.NewRelationship("Dog", "Animal", classdiagram.Inheritance)
	if err != nil {
		t.Fatal(err)
	}
	d, err := classdiagram.New().WithTitle("Zoo")
	if err != nil {
		t.Fatal(err)
	}
	return d.AddClass(animal.AddMember(name), dog, cat).AddRelationship(inherits)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m InspectModel, keys ...string) (InspectModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(InspectModel)
	}
	return m, cmd
}

func TestInspectModelNavigation(t *testing.T) {
	m := NewInspectModel(zooDiagram(t))

	tests := []struct {
		keys []string
		want int
	}{
		{nil, 0},
		{[]string{"down"}, 1},
		{[]string{"j", "j"}, 2},
		{[]string{"down", "down", "down"}, 2},
		{[]string{"down", "up", "k"}, 0},
	}
	for _, tt := range tests {
		got, _ := update(m, tt.keys...)
		if got.Cursor != tt.want {
			t.Errorf("keys %v: Cursor = %d, want %d", tt.keys, got.Cursor, tt.want)
		}
	}
}

func TestInspectModelScroll(t *testing.T) {
	m := NewInspectModel(zooDiagram(t))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	m = next.(InspectModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want minimum 5", m.Height)
	}

	m.Height = 2
	m, _ = update(m, "down", "down")
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}
	m, _ = update(m, "up", "up")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0", m.Offset)
	}
}

func TestInspectModelDetail(t *testing.T) {
	m := NewInspectModel(zooDiagram(t))

	view := m.View()
	for _, want := range []string{"Zoo", "Animal", "abstract", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if strings.Contains(view, "+String name") {
		t.Error("detail should be hidden initially")
	}

	m, _ = update(m, "enter")
	if !m.ShowDetail {
		t.Fatal("enter should open the detail pane")
	}
	view = m.View()
	for _, want := range []string{"class Animal {", "+String name", "Dog --|> Animal"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail View() missing %q", want)
		}
	}

	m, cmd := update(m, "esc")
	if m.ShowDetail || cmd != nil {
		t.Error("esc should close the detail pane without quitting")
	}
	if _, cmd = update(m, "esc"); cmd == nil {
		t.Error("esc without detail should quit")
	}
	if _, cmd = update(m, "q"); cmd == nil {
		t.Error("q should quit")
	}
}

func TestInspectModelEmpty(t *testing.T) {
	m := NewInspectModel(classdiagram.New())
	m, _ = update(m, "down", "enter")
	if m.ShowDetail || m.Cursor != 0 {
		t.Errorf("empty model changed state: %+v", m)
	}
	if !strings.Contains(m.View(), "no classes") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestInspectPlain(t *testing.T) {
	setupEnv(t)
	var buf strings.Builder
	uiOut = &buf

	path := t.TempDir() + "/zoo.toml"
	writeFile(t, path, zooTOML)
	if _, err := runCLI(t, "", "inspect", path, "--plain"); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"Classes", "2", "Relationships", "Animal  1 attributes, 0 methods", "Dog  0 attributes, 0 methods"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect --plain missing %q in %q", want, out)
		}
	}
}
