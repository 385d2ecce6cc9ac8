package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/keygrid/pkg/dag"
	"github.com/matzehuels/keygrid/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "home"})
	_ = g.AddNode(dag.Node{ID: "mirror_home", Kind: dag.NodeKindMirror})
	_ = g.AddEdge(dag.Edge{From: "home", To: "mirror_home"})
	g.AssignRows()

	fmt.Print(nodelink.ToDOT(g, nodelink.Options{}))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=24, margin="0.2,0.1"];
	//   ranksep=0.5;
	//   nodesep=0.3;
	//
	//   "home" [label="home"];
	//   "mirror_home" [label="mirror_home", style="rounded,filled,dashed"];
	//
	//   { rank=same; "home"; }
	//   { rank=same; "mirror_home"; }
	//
	//   "home" -> "mirror_home";
	// }
}
