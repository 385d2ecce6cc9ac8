package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/keygrid/pkg/dag"
)

func TestToDOT_Basic(t *testing.T) {
	g := dag.New(nil)
	g.AddNode(dag.Node{ID: "home", Row: 0})
	g.AddNode(dag.Node{ID: "thumb", Row: 1})
	g.AddEdge(dag.Edge{From: "home", To: "thumb"})

	dot := ToDOT(g, Options{})

	for _, want := range []string{
		"digraph G",
		`"home" [label="home"]`,
		`"thumb" [label="thumb"]`,
		`"home" -> "thumb";`,
		`{ rank=same; "home"; }`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g := dag.New(nil)
	g.AddNode(dag.Node{ID: "home", Meta: dag.Metadata{"x": 0.0}})
	g.AddNode(dag.Node{ID: "thumb", Row: 1, Meta: dag.Metadata{"x": 9.5, "y": -19.0}})
	g.AddEdge(dag.Edge{From: "home", To: "thumb", Meta: dag.Metadata{"at": "points.thumb.ref"}})

	dot := ToDOT(g, Options{Detailed: true})

	for _, want := range []string{"row: 1", "x: 9.5", "y: -19", `label="points.thumb.ref"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() detailed output missing %q", want)
		}
	}

	if plain := ToDOT(g, Options{}); strings.Contains(plain, "points.thumb.ref") {
		t.Error("ToDOT() should not label edges unless detailed")
	}
}

func TestToDOT_Kinds(t *testing.T) {
	tests := []struct {
		kind dag.NodeKind
		want string
	}{
		{dag.NodeKindPoint, `"n" [label="n"];`},
		{dag.NodeKindMirror, "dashed"},
		{dag.NodeKindPlacement, "shape=ellipse"},
		{dag.NodeKindSeed, "fillcolor=lightgrey"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			g := dag.New(nil)
			g.AddNode(dag.Node{ID: "n", Kind: tt.kind})
			if dot := ToDOT(g, Options{}); !strings.Contains(dot, tt.want) {
				t.Errorf("ToDOT() missing %q\n%s", tt.want, dot)
			}
		})
	}
}

func TestFmtLabel(t *testing.T) {
	n := dag.Node{ID: "k", Row: 2, Meta: dag.Metadata{"r": -15.0, "kind": "point"}}

	if got := fmtLabel(n, false); got != "k" {
		t.Errorf("fmtLabel() simple = %q, want %q", got, "k")
	}
	want := "k\nrow: 2\nkind: point\nr: -15"
	if got := fmtLabel(n, true); got != want {
		t.Errorf("fmtLabel() detailed = %q, want %q", got, want)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(svg))
	if !strings.Contains(got, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}
