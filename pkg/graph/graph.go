package graph

import (
	"errors"
	"slices"
)

var (
	// ErrCorrupt is returned by [Deserialize] when the input is truncated,
	// carries trailing bytes, or references a node index out of range.
	ErrCorrupt = errors.New("corrupt serialized graph")

	// ErrNoRoot is returned by [Graph.TopologicalSort] when the graph does not
	// have exactly one node without incoming edges.
	ErrNoRoot = errors.New("graph must have exactly one root")

	// ErrUnreachable is returned by [Graph.TopologicalSort] when some node
	// cannot be reached from the root.
	ErrUnreachable = errors.New("node unreachable from root")
)

// Node is a vertex of a watermark graph. Its index is its position in the
// graph and is not stored on the node.
type Node struct {
	// Data is an opaque payload carried through copies and serialization.
	Data []byte

	info [][]byte
	out  []int
	in   []int
}

// Edge is a directed (From, To) pair of node indices.
type Edge struct {
	From int
	To   int
}

// Graph is an ordered collection of nodes joined by directed edges.
//
// The zero value is an empty graph ready to use.
type Graph struct {
	nodes []*Node
	edges int
}

// New creates a graph with n unconnected nodes.
func New(n int) *Graph {
	g := &Graph{nodes: make([]*Node, n)}
	for i := range g.nodes {
		g.nodes[i] = &Node{}
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Node returns the node at index i. It panics if i is out of range.
func (g *Graph) Node(i int) *Node { return g.nodes[i] }

// Append adds an unconnected node after the last one and returns its index.
func (g *Graph) Append() int {
	g.nodes = append(g.nodes, &Node{})
	return len(g.nodes) - 1
}

// Insert adds an unconnected node at index idx. Nodes at idx and above move
// up by one and every edge endpoint is renumbered, so an edge u→v with
// v ≥ idx becomes u→v+1.
func (g *Graph) Insert(idx int) {
	for _, n := range g.nodes {
		shift(n.out, idx, 1)
		shift(n.in, idx, 1)
	}
	g.nodes = slices.Insert(g.nodes, idx, &Node{})
}

// Delete isolates the node at idx from all its edges and removes it. Nodes
// above idx move down by one.
func (g *Graph) Delete(idx int) {
	n := g.nodes[idx]
	for _, to := range slices.Clone(n.out) {
		g.Disconnect(idx, to)
	}
	for _, from := range slices.Clone(n.in) {
		g.Disconnect(from, idx)
	}
	g.nodes = slices.Delete(g.nodes, idx, idx+1)
	for _, m := range g.nodes {
		shift(m.out, idx+1, -1)
		shift(m.in, idx+1, -1)
	}
}

// shift adds delta to every index in s that is at least from.
func shift(s []int, from, delta int) {
	for i, v := range s {
		if v >= from {
			s[i] = v + delta
		}
	}
}

// Connect adds the edge from→to. It reports false, leaving the graph
// unchanged, when the edge already exists.
func (g *Graph) Connect(from, to int) bool {
	if g.Connection(from, to) {
		return false
	}
	g.nodes[from].out = append(g.nodes[from].out, to)
	g.nodes[to].in = append(g.nodes[to].in, from)
	g.edges++
	return true
}

// Disconnect removes the edge from→to and reports whether it existed.
func (g *Graph) Disconnect(from, to int) bool {
	src := g.nodes[from]
	i := slices.Index(src.out, to)
	if i < 0 {
		return false
	}
	src.out = slices.Delete(src.out, i, i+1)
	dst := g.nodes[to]
	if j := slices.Index(dst.in, from); j >= 0 {
		dst.in = slices.Delete(dst.in, j, j+1)
	}
	g.edges--
	return true
}

// Connection reports whether the edge from→to exists.
func (g *Graph) Connection(from, to int) bool {
	return slices.Contains(g.nodes[from].out, to)
}

// Backedge returns the target of the first outgoing edge of i that points to
// an earlier node.
func (g *Graph) Backedge(i int) (int, bool) {
	for _, to := range g.nodes[i].out {
		if to < i {
			return to, true
		}
	}
	return 0, false
}

// Forward returns the target of the first outgoing edge of i that skips at
// least one node ahead.
func (g *Graph) Forward(i int) (int, bool) {
	for _, to := range g.nodes[i].out {
		if to > i+1 {
			return to, true
		}
	}
	return 0, false
}

// Out returns the targets of the outgoing edges of i in insertion order.
func (g *Graph) Out(i int) []int { return slices.Clone(g.nodes[i].out) }

// In returns the sources of the incoming edges of i in insertion order.
func (g *Graph) In(i int) []int { return slices.Clone(g.nodes[i].in) }

// OutDegree returns the number of outgoing edges of i.
func (g *Graph) OutDegree(i int) int { return len(g.nodes[i].out) }

// InDegree returns the number of incoming edges of i.
func (g *Graph) InDegree(i int) int { return len(g.nodes[i].in) }

// Edges returns every edge ordered by source index, then insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for i, n := range g.nodes {
		for _, to := range n.out {
			out = append(out, Edge{From: i, To: to})
		}
	}
	return out
}

// PushInfo appends a metadata record to the chain of node i.
func (g *Graph) PushInfo(i int, info []byte) {
	g.nodes[i].info = append(g.nodes[i].info, info)
}

// PopInfo removes and returns the most recent metadata record of node i.
func (g *Graph) PopInfo(i int) ([]byte, bool) {
	n := g.nodes[i]
	if len(n.info) == 0 {
		return nil, false
	}
	last := n.info[len(n.info)-1]
	n.info = n.info[:len(n.info)-1]
	return last, true
}

// Info returns the metadata chain of node i, oldest first.
func (g *Graph) Info(i int) [][]byte { return slices.Clone(g.nodes[i].info) }

// Copy returns a graph with the same topology and node data. Metadata chains
// are not copied.
func (g *Graph) Copy() *Graph {
	return g.clone(false)
}

// DeepCopy returns a graph with the same topology, node data and metadata
// chains. The copy shares no memory with g.
func (g *Graph) DeepCopy() *Graph {
	return g.clone(true)
}

func (g *Graph) clone(withInfo bool) *Graph {
	c := &Graph{nodes: make([]*Node, len(g.nodes)), edges: g.edges}
	for i, n := range g.nodes {
		m := &Node{
			Data: slices.Clone(n.Data),
			out:  slices.Clone(n.out),
			in:   slices.Clone(n.in),
		}
		if withInfo && len(n.info) > 0 {
			m.info = make([][]byte, len(n.info))
			for j, rec := range n.info {
				m.info[j] = slices.Clone(rec)
			}
		}
		c.nodes[i] = m
	}
	return c
}
