// Package graph provides the index-addressed directed graph that watermark
// codecs build and read.
//
// # Overview
//
// A watermark graph is a Hamiltonian path 0→1→…→N−1 (the spine) decorated with
// at most one extra edge per node. Nodes are identified only by their
// position: there are no node IDs and no pointers between nodes. Every edge is
// a (source, target) pair of indices, stored in the source's outgoing list and
// mirrored in the target's incoming list.
//
// # Basic Usage
//
// Create a graph with [New] and connect nodes with [Graph.Connect]:
//
//	g := graph.New(4)
//	g.Connect(0, 1)
//	g.Connect(1, 2)
//	g.Connect(2, 3)
//	g.Connect(2, 1) // backedge
//
// Query the structure with [Graph.Connection], [Graph.Backedge] and
// [Graph.Forward]. These scan the small outgoing list of a single node.
//
// # Mutation
//
// [Graph.Insert] and [Graph.Delete] shift the indices of every later node and
// renumber every edge endpoint accordingly. Both are O(N+E), which is fine for
// graphs bounded by a payload's bit length.
//
// # Data and Metadata
//
// Each node owns an opaque data slot ([Node.Data]) and an ordered chain of
// metadata records ([Graph.PushInfo]). [Graph.Copy] duplicates topology and
// data only; [Graph.DeepCopy] also duplicates the metadata chains.
//
// # Serialization
//
// [Graph.MarshalBinary] writes a fixed big-endian layout: a node count, then
// for each node its data length, its data, its outgoing edge count and the
// target indices, every integer as a uint64. [Deserialize] reverses it.
//
// # Sorting
//
// Graphs read from outside (for example a DOT file) may arrive in any order.
// [Graph.TopologicalSort] renumbers the nodes by depth-first reverse postorder
// from the unique node without incoming edges, which restores the spine order
// of any watermark graph.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Callers that share a graph
// between goroutines must synchronize externally.
package graph
