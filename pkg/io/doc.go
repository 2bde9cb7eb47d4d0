// Package io reads and writes watermark graphs in JSON, binary and DOT form.
//
// # JSON Format
//
// Nodes are listed in Hamiltonian order with their index and optional opaque
// data (base64). Edges reference node indices:
//
//	{
//	  "nodes": [{"index": 0}, {"index": 1}, {"index": 2, "data": "aGk="}],
//	  "edges": [{"from": 0, "to": 1}, {"from": 1, "to": 2}, {"from": 1, "to": 0}]
//	}
//
// Use [WriteJSON] and [ReadJSON] for streams, [ExportJSON] and [ImportJSON]
// for files. Indices must be exactly 0..N-1 in order.
//
// # Binary Format
//
// [ExportBinary] and [ImportBinary] store the big-endian layout produced by
// [graph.Graph.MarshalBinary].
//
// # DOT Import
//
// [ReadDOT] accepts the digraph subset written by graph tools and by
// render/nodelink: attribute statements, node statements and edge chains
// such as "a -> b -> c". Nodes are numbered in order of first appearance and
// ports and compass points ("a:e") are dropped. Edges styled "invis", either
// directly or through an "edge [...]" default, are skipped; other attributes
// are ignored. When the nodes are named 0..N-1 in order of appearance the
// numbering is kept as is, so a damaged graph reads back exactly as written.
// Otherwise the result is topologically sorted so that node 0 is the root of
// the Hamiltonian path. Subgraphs are not supported.
package io
