package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/asimos-bot/software-watermark/pkg/graph"
)

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	Index int    `json:"index"`
	Data  []byte `json:"data,omitempty"`
}

type edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// WriteJSON encodes g as indented JSON and writes it to w. Node metadata
// records are not exported; node data is.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := document{
		Nodes: make([]node, g.Len()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for i := range out.Nodes {
		out.Nodes[i] = node{Index: i, Data: g.Node(i).Data}
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// WriteBinary writes the serialized form of g to w.
func WriteBinary(g *graph.Graph, w io.Writer) error {
	data, err := g.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportBinary writes the serialized form of g to a file at path.
func ExportBinary(g *graph.Graph, path string) error {
	data, err := g.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
