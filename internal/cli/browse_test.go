package cli

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/keygrid/pkg/dag"
	kgio "github.com/matzehuels/keygrid/pkg/io"
)

func browseFixture(t *testing.T) BrowseModel {
	t.Helper()
	points := []kgio.Point{
		{Name: "home"},
		{Name: "top", Y: 19},
		{Name: "mirror_home", X: 40, Mirrored: true},
		{Name: "mirror_top", X: 40, Y: 19, Mirrored: true},
	}
	g := dag.New(nil)
	for _, p := range points {
		kind := dag.NodeKindPoint
		if p.Mirrored {
			kind = dag.NodeKindMirror
		}
		if err := g.AddNode(dag.Node{ID: p.Name, Kind: kind}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"home", "top"}, {"home", "mirror_home"}, {"top", "mirror_top"}} {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	g.AssignRows()
	return NewBrowseModel("split.yaml", points, g)
}

func press(m BrowseModel, keys ...string) BrowseModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(BrowseModel)
	}
	return m
}

func TestBrowseNavigation(t *testing.T) {
	m := browseFixture(t)

	tests := []struct {
		keys []string
		want string
	}{
		{nil, "home"},
		{[]string{"down"}, "top"},
		{[]string{"j", "j"}, "mirror_home"},
		{[]string{"down", "down", "down", "down", "down"}, "mirror_top"},
		{[]string{"down", "up", "up"}, "home"},
		{[]string{"G"}, "mirror_top"},
		{[]string{"G", "g"}, "home"},
	}

	for _, tt := range tests {
		got, ok := press(m, tt.keys...).Current()
		if !ok || got.Name != tt.want {
			t.Errorf("after %v current = %q, want %q", tt.keys, got.Name, tt.want)
		}
	}
}

func TestBrowseMirroredOnly(t *testing.T) {
	m := press(browseFixture(t), "G", "m")
	if got := m.Visible(); !slices.Equal(got, []string{"mirror_home", "mirror_top"}) {
		t.Errorf("Visible() = %v", got)
	}
	if p, _ := m.Current(); p.Name != "mirror_top" {
		t.Errorf("cursor should stay in range, got %q", p.Name)
	}

	m = press(m, "m")
	if len(m.Visible()) != 4 {
		t.Errorf("toggling again should show all points, got %v", m.Visible())
	}
}

func TestBrowseFilter(t *testing.T) {
	m := press(browseFixture(t), "/", "t", "o", "p")
	if !m.Filtering {
		t.Fatal("should be in filter mode")
	}
	if got := m.Visible(); !slices.Equal(got, []string{"top", "mirror_top"}) {
		t.Errorf("Visible() = %v", got)
	}

	// Keys are filter input while filtering.
	m = press(m, "backspace", "enter", "q")
	if m.Filter != "to" || m.Filtering {
		t.Errorf("Filter = %q, Filtering = %v", m.Filter, m.Filtering)
	}

	m = press(m, "/", "esc")
	if m.Filter != "" || len(m.Visible()) != 4 {
		t.Errorf("esc should clear the filter, got %q %v", m.Filter, m.Visible())
	}
}

func TestBrowseQuit(t *testing.T) {
	m := browseFixture(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestBrowseScroll(t *testing.T) {
	m := browseFixture(t)
	next, _ := m.Update(tea.WindowSizeMsg{Height: 0})
	m = next.(BrowseModel)
	m.Height = 2
	m = press(m, "down", "down", "down")
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
	m = press(m, "g")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0", m.Offset)
	}
}

func TestBrowseView(t *testing.T) {
	m := press(browseFixture(t), "down")
	view := m.View()

	for _, want := range []string{"split.yaml", "mirror_top", "refs", "home", "used by"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if !strings.Contains(view, "[2/4]") {
		t.Errorf("view should show the position:\n%s", view)
	}
}
