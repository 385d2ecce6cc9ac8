package dag_test

import (
	"fmt"

	"github.com/matzehuels/keygrid/pkg/dag"
)

func ExampleDAG_basic() {
	// home <- index <- thumb
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "home"})
	_ = g.AddNode(dag.Node{ID: "index"})
	_ = g.AddNode(dag.Node{ID: "thumb"})
	_ = g.AddEdge(dag.Edge{From: "home", To: "index"})
	_ = g.AddEdge(dag.Edge{From: "index", To: "thumb"})
	g.AssignRows()

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowCount())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: 3
}

func ExampleDAG_traversal() {
	// The thumb cluster is the average of two keys.
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "inner"})
	_ = g.AddNode(dag.Node{ID: "outer"})
	_ = g.AddNode(dag.Node{ID: "thumb"})
	_ = g.AddEdge(dag.Edge{From: "inner", To: "thumb"})
	_ = g.AddEdge(dag.Edge{From: "outer", To: "thumb"})

	fmt.Println("Parents of thumb:", g.Parents("thumb"))
	fmt.Println("Children of inner:", g.Children("inner"))
	fmt.Println("In-degree of thumb:", g.InDegree("thumb"))
	// Output:
	// Parents of thumb: [inner outer]
	// Children of inner: [thumb]
	// In-degree of thumb: 2
}

func ExampleDAG_AssignRows() {
	g := dag.New(nil)
	for _, id := range []string{"home", "top", "thumb", "mirror_home"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "home", To: "top"})
	_ = g.AddEdge(dag.Edge{From: "home", To: "thumb"})
	_ = g.AddEdge(dag.Edge{From: "top", To: "thumb"})
	_ = g.AddEdge(dag.Edge{From: "home", To: "mirror_home"})
	g.AssignRows()

	for _, n := range g.Nodes() {
		fmt.Println(n.ID, n.Row)
	}
	// Output:
	// home 0
	// top 1
	// thumb 2
	// mirror_home 1
}

func ExampleDAG_metadata() {
	g := dag.New(dag.Metadata{"source": "split.yaml"})
	_ = g.AddNode(dag.Node{
		ID:   "mirror_home",
		Kind: dag.NodeKindMirror,
		Meta: dag.Metadata{"x": -20.0, "y": 0.0},
	})

	node, _ := g.Node("mirror_home")
	fmt.Println("Point:", node.ID)
	fmt.Println("Kind:", node.Kind)
	fmt.Println("X:", node.Meta["x"])
	// Output:
	// Point: mirror_home
	// Kind: mirror
	// X: -20
}
