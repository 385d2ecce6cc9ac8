package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNonIncreasingRows is returned by [DAG.Validate] when an edge does not
	// point to a strictly deeper row.
	ErrNonIncreasingRows = errors.New("edges must point to deeper rows")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph. Metadata maps are never nil after insertion.
type Metadata map[string]any

// NodeKind says where a point came from.
type NodeKind int

const (
	// NodeKindPoint is a point declared in the points section.
	NodeKindPoint NodeKind = iota
	// NodeKindMirror is the mirrored copy of a declared point.
	NodeKindMirror
	// NodeKindPlacement is a placement resolved on a point.
	NodeKindPlacement
	// NodeKindSeed is a point supplied by the caller before resolution.
	NodeKindSeed
)

// String returns the kind name used in DOT output and JSON.
func (k NodeKind) String() string {
	switch k {
	case NodeKindPoint:
		return "point"
	case NodeKindMirror:
		return "mirror"
	case NodeKindPlacement:
		return "placement"
	case NodeKindSeed:
		return "seed"
	}
	return "unknown"
}

// Node is a resolved point in the reference graph.
type Node struct {
	ID   string   // Point name
	Row  int      // Resolution depth (0 = references nothing)
	Kind NodeKind // Origin of the point
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge records that the To point was derived from the From point.
type Edge struct {
	From string   // Referenced point
	To   string   // Dependent point
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// DAG is a directed acyclic graph of point references. Nodes keep their
// insertion order, which is the order points were resolved in.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	order    []string
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string // nodeID -> dependent IDs
	incoming map[string][]string // nodeID -> referenced IDs
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the node
// ID is empty, or ErrDuplicateNodeID if a node with the same ID exists.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. An edge that
// already exists is not added twice.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if slices.Contains(d.outgoing[e.From], e.To) {
		return nil
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// SetRows updates the row assignments for nodes. Nodes not present in the
// rows map keep their current row.
func (d *DAG) SetRows(rows map[string]int) {
	for id, row := range rows {
		if n, ok := d.nodes[id]; ok {
			n.Row = row
		}
	}
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual node structs.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = d.nodes[id]
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of points derived from id.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of points id was derived from.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// NodesInRow returns the nodes assigned to row, in insertion order.
func (d *DAG) NodesInRow(row int) []*Node {
	var out []*Node
	for _, id := range d.order {
		if n := d.nodes[id]; n.Row == row {
			out = append(out, n)
		}
	}
	return out
}

// RowIDs returns all row indices in ascending order.
func (d *DAG) RowIDs() []int {
	rows := make(map[int]bool)
	for _, n := range d.nodes {
		rows[n.Row] = true
	}
	return slices.Sorted(maps.Keys(rows))
}

// RowCount returns the number of distinct rows.
func (d *DAG) RowCount() int { return len(d.RowIDs()) }

// MaxRow returns the highest row index, or 0 if the graph is empty.
func (d *DAG) MaxRow() int {
	ids := d.RowIDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

// Sources returns nodes that reference no other point, in insertion order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, d.nodes[id])
		}
	}
	return sources
}

// Sinks returns nodes no other point references, in insertion order.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			sinks = append(sinks, d.nodes[id])
		}
	}
	return sinks
}

// Validate checks graph integrity and returns nil if valid. Every edge must
// connect existing nodes, the graph must be acyclic, and every edge must
// point to a strictly deeper row.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		_, okS := d.nodes[e.From]
		_, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
	}
	if err := d.detectCycles(); err != nil {
		return err
	}
	for _, e := range d.edges {
		if d.nodes[e.To].Row <= d.nodes[e.From].Row {
			return ErrNonIncreasingRows
		}
	}
	return nil
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
