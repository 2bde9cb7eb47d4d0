package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/asimos-bot/software-watermark/pkg/graph"
)

// ReadJSON decodes a JSON graph from r.
//
// ReadJSON returns an error if the JSON is malformed, if node indices are not
// exactly 0..N-1 in order, or if an edge references a missing node. Duplicate
// edges collapse into one. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := graph.New(len(data.Nodes))
	for i, n := range data.Nodes {
		if n.Index != i {
			return nil, fmt.Errorf("node %d: index %d out of order", i, n.Index)
		}
		g.Node(i).Data = n.Data
	}
	for _, e := range data.Edges {
		if e.From < 0 || e.From >= g.Len() || e.To < 0 || e.To >= g.Len() {
			return nil, fmt.Errorf("edge %d->%d: node out of range [0, %d)", e.From, e.To, g.Len())
		}
		g.Connect(e.From, e.To)
	}
	return g, nil
}

// ImportJSON reads a JSON graph file at path.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadBinary reads a serialized graph from r. The whole stream is consumed.
func ReadBinary(r io.Reader) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return graph.Deserialize(data)
}

// ImportBinary reads a serialized graph file at path.
func ImportBinary(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return graph.Deserialize(data)
}
