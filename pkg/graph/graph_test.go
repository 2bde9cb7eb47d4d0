package graph

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

// chain builds 0→1→…→n-1 plus the given extra edges.
func chain(n int, extra ...Edge) *Graph {
	g := New(n)
	for i := 0; i+1 < n; i++ {
		g.Connect(i, i+1)
	}
	for _, e := range extra {
		g.Connect(e.From, e.To)
	}
	return g
}

func TestNew(t *testing.T) {
	g := New(3)
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}

	var zero Graph
	if idx := zero.Append(); idx != 0 {
		t.Errorf("Append() on zero graph = %d, want 0", idx)
	}
}

func TestConnectDisconnect(t *testing.T) {
	g := New(3)

	if !g.Connect(0, 1) {
		t.Fatal("Connect(0, 1) = false, want true")
	}
	if g.Connect(0, 1) {
		t.Error("duplicate Connect(0, 1) = true, want false")
	}
	g.Connect(2, 0)

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if !g.Connection(0, 1) || g.Connection(1, 0) {
		t.Error("Connection is not directional")
	}
	if got := g.In(0); !slices.Equal(got, []int{2}) {
		t.Errorf("In(0) = %v, want [2]", got)
	}

	if !g.Disconnect(2, 0) {
		t.Error("Disconnect(2, 0) = false, want true")
	}
	if g.Disconnect(2, 0) {
		t.Error("second Disconnect(2, 0) = true, want false")
	}
	if g.InDegree(0) != 0 || g.OutDegree(2) != 0 {
		t.Error("Disconnect left dangling references")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestBackedgeForward(t *testing.T) {
	g := chain(6, Edge{3, 1}, Edge{1, 4})

	tests := []struct {
		node        int
		back, fwd   int
		okBack, okF bool
	}{
		{node: 0},
		{node: 1, fwd: 4, okF: true},
		{node: 2},
		{node: 3, back: 1, okBack: true},
		{node: 5},
	}
	for _, tt := range tests {
		back, ok := g.Backedge(tt.node)
		if ok != tt.okBack || back != tt.back {
			t.Errorf("Backedge(%d) = %d, %v, want %d, %v", tt.node, back, ok, tt.back, tt.okBack)
		}
		fwd, ok := g.Forward(tt.node)
		if ok != tt.okF || fwd != tt.fwd {
			t.Errorf("Forward(%d) = %d, %v, want %d, %v", tt.node, fwd, ok, tt.fwd, tt.okF)
		}
	}
}

func TestInsertRenumbersEdges(t *testing.T) {
	g := chain(4, Edge{3, 1})
	g.Node(2).Data = []byte("two")

	g.Insert(2)

	if g.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", g.Len())
	}
	want := []Edge{{0, 1}, {1, 3}, {3, 4}, {4, 1}}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if g.OutDegree(2) != 0 || g.InDegree(2) != 0 {
		t.Error("inserted node should be unconnected")
	}
	if string(g.Node(3).Data) != "two" {
		t.Errorf("Node(3).Data = %q, want %q", g.Node(3).Data, "two")
	}
	// The old spine edge 1→2 now skips the new node.
	if fwd, ok := g.Forward(1); !ok || fwd != 3 {
		t.Errorf("Forward(1) = %d, %v, want 3, true", fwd, ok)
	}
}

func TestDelete(t *testing.T) {
	g := chain(5, Edge{4, 2}, Edge{3, 0})

	g.Delete(2)

	if g.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", g.Len())
	}
	want := []Edge{{0, 1}, {2, 3}, {2, 0}}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if g.EdgeCount() != len(want) {
		t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), len(want))
	}
	if got := g.In(0); !slices.Equal(got, []int{2}) {
		t.Errorf("In(0) = %v, want [2]", got)
	}
}

func TestInfoChain(t *testing.T) {
	g := New(1)
	if _, ok := g.PopInfo(0); ok {
		t.Error("PopInfo on empty chain = true, want false")
	}
	g.PushInfo(0, []byte("a"))
	g.PushInfo(0, []byte("b"))

	if got := g.Info(0); len(got) != 2 || string(got[0]) != "a" {
		t.Errorf("Info(0) = %q, want [a b]", got)
	}
	rec, ok := g.PopInfo(0)
	if !ok || string(rec) != "b" {
		t.Errorf("PopInfo(0) = %q, %v, want b, true", rec, ok)
	}
}

func TestCopy(t *testing.T) {
	g := chain(3, Edge{2, 0})
	g.Node(1).Data = []byte{1, 2, 3}
	g.PushInfo(1, []byte("label"))

	shallow := g.Copy()
	deep := g.DeepCopy()

	for name, c := range map[string]*Graph{"Copy": shallow, "DeepCopy": deep} {
		if !slices.Equal(c.Edges(), g.Edges()) {
			t.Errorf("%s edges = %v, want %v", name, c.Edges(), g.Edges())
		}
		if c.EdgeCount() != g.EdgeCount() {
			t.Errorf("%s EdgeCount() = %d, want %d", name, c.EdgeCount(), g.EdgeCount())
		}
		if !bytes.Equal(c.Node(1).Data, g.Node(1).Data) {
			t.Errorf("%s data = %v, want %v", name, c.Node(1).Data, g.Node(1).Data)
		}
	}
	if len(shallow.Info(1)) != 0 {
		t.Error("Copy should not carry metadata")
	}
	if got := deep.Info(1); len(got) != 1 || string(got[0]) != "label" {
		t.Errorf("DeepCopy Info(1) = %q, want [label]", got)
	}

	// Copies are independent.
	deep.Node(1).Data[0] = 9
	deep.Connect(1, 0)
	if g.Node(1).Data[0] != 1 || g.Connection(1, 0) {
		t.Error("mutating the copy changed the original")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Graph
	}{
		{"empty", func() *Graph { return New(0) }},
		{"single", func() *Graph { return New(1) }},
		{"chain with backedges", func() *Graph { return chain(6, Edge{2, 1}, Edge{4, 3}, Edge{5, 0}) }},
		{"forward edge", func() *Graph { return chain(5, Edge{1, 3}) }},
		{"with data", func() *Graph {
			g := chain(3)
			g.Node(0).Data = []byte("root")
			g.Node(2).Data = []byte{0, 0xff}
			return g
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.build()
			data, err := g.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary: %v", err)
			}
			got, err := Deserialize(data)
			if err != nil {
				t.Fatalf("Deserialize: %v", err)
			}
			if got.Len() != g.Len() {
				t.Errorf("Len() = %d, want %d", got.Len(), g.Len())
			}
			if got.EdgeCount() != g.EdgeCount() {
				t.Errorf("EdgeCount() = %d, want %d", got.EdgeCount(), g.EdgeCount())
			}
			if !slices.Equal(got.Edges(), g.Edges()) {
				t.Errorf("Edges() = %v, want %v", got.Edges(), g.Edges())
			}
			for i := 0; i < g.Len(); i++ {
				if !bytes.Equal(got.Node(i).Data, g.Node(i).Data) {
					t.Errorf("Node(%d).Data = %v, want %v", i, got.Node(i).Data, g.Node(i).Data)
				}
			}

			var u Graph
			if err := u.UnmarshalBinary(data); err != nil {
				t.Fatalf("UnmarshalBinary: %v", err)
			}
			if u.Len() != g.Len() {
				t.Errorf("UnmarshalBinary Len() = %d, want %d", u.Len(), g.Len())
			}
		})
	}
}

func TestSerializeLayout(t *testing.T) {
	g := chain(2)
	g.Node(0).Data = []byte{0xab}
	data, _ := g.MarshalBinary()

	want := []byte{
		0, 0, 0, 0, 0, 0, 0, 2, // node count
		0, 0, 0, 0, 0, 0, 0, 1, 0xab, // node 0 data
		0, 0, 0, 0, 0, 0, 0, 1, // node 0 out count
		0, 0, 0, 0, 0, 0, 0, 1, // -> 1
		0, 0, 0, 0, 0, 0, 0, 0, // node 1 data
		0, 0, 0, 0, 0, 0, 0, 0, // node 1 out count
	}
	if !bytes.Equal(data, want) {
		t.Errorf("MarshalBinary() = %x, want %x", data, want)
	}
}

func TestDeserializeCorrupt(t *testing.T) {
	valid, _ := chain(3, Edge{2, 0}).MarshalBinary()

	outOfRange := slices.Clone(valid)
	// Last word is the target of 2→0; point it past the end.
	outOfRange[len(outOfRange)-1] = 7

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short count", []byte{0, 0, 1}},
		{"huge count", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
		{"truncated", valid[:len(valid)-3]},
		{"trailing", append(slices.Clone(valid), 0)},
		{"target out of range", outOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Deserialize(tt.data); !errors.Is(err, ErrCorrupt) {
				t.Errorf("Deserialize() error = %v, want ErrCorrupt", err)
			}
		})
	}
}
