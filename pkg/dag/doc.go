// Package dag provides the reference graph of a resolved layout: which
// point was derived from which.
//
// # Overview
//
// Every point of a layout is resolved from an anchor, and anchors reference
// earlier points by name. This package records those references as a
// directed acyclic graph so they can be inspected, validated and drawn. An
// edge From -> To means the To point's anchor references the From point.
//
// Nodes keep their insertion order, which is the order the pipeline resolved
// them in. [DAG.Nodes], [DAG.Sources] and [DAG.NodesInRow] all report nodes
// in that order, so output derived from a graph is deterministic.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "home"})
//	g.AddNode(dag.Node{ID: "thumb"})
//	g.AddEdge(dag.Edge{From: "home", To: "thumb"})
//	g.AssignRows()
//
// [DAG.AssignRows] gives every node the length of the longest reference
// chain leading to it. Use [DAG.Validate] to verify that edges connect known
// nodes, point to deeper rows and form no cycle.
//
// # Node Kinds
//
//   - [NodeKindPoint]: a point declared in the layout
//   - [NodeKindMirror]: the mirrored copy of a declared point
//   - [NodeKindPlacement]: a placement resolved on a point
//   - [NodeKindSeed]: a point supplied before resolution started
//
// # Metadata
//
// Nodes, edges and the graph carry [Metadata] maps. The pipeline stores the
// resolved coordinates on each node ("x", "y", "r") and the config path of
// the reference on each edge ("at"). Metadata maps are never nil after
// insertion.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. A graph that is no longer
// modified can be read from multiple goroutines.
package dag
