package watermark

import (
	"errors"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asimos-bot/software-watermark/pkg/graph"
)

var schemes = []Scheme{SchemeA, SchemeB}

func TestRoundTripEveryByte(t *testing.T) {
	for _, s := range schemes {
		t.Run(s.String(), func(t *testing.T) {
			for b := 1; b < 256; b++ {
				g, err := Encode([]byte{byte(b)}, s)
				require.NoError(t, err, "encode %d", b)

				got, err := Decode(g, s)
				require.NoError(t, err, "decode %d", b)
				require.Equal(t, []byte{byte(b)}, got, "payload %d", b)
			}
		})
	}
}

func TestKnownGraphs(t *testing.T) {
	tests := []struct {
		payload   byte
		nodes     int
		backedges []graph.Edge
	}{
		{29, 6, []graph.Edge{{From: 1, To: 0}, {From: 2, To: 1}, {From: 4, To: 3}}},
		{28, 6, []graph.Edge{{From: 1, To: 0}, {From: 2, To: 1}, {From: 4, To: 2}}},
		{1, 2, nil},
		{2, 3, nil},
		{3, 3, []graph.Edge{{From: 1, To: 0}}},
	}

	for _, tt := range tests {
		g, err := Encode([]byte{tt.payload}, SchemeA)
		require.NoError(t, err)
		require.Equal(t, tt.nodes, g.Len(), "payload %d", tt.payload)

		var back []graph.Edge
		for _, e := range g.Edges() {
			if e.To < e.From {
				back = append(back, e)
			}
		}
		require.Equal(t, tt.backedges, back, "payload %d", tt.payload)

		got, err := Decode(g, SchemeA)
		require.NoError(t, err)
		require.Equal(t, []byte{tt.payload}, got)
	}
}

func TestRoundTripWideValues(t *testing.T) {
	var values []uint64
	for k := uint64(1); k < 1e13; k = (k << 1) - (k >> 1) {
		values = append(values, k)
	}
	for shift := 0; shift < 64; shift++ {
		values = append(values, 1<<shift, 1<<shift|1)
	}
	values = append(values, ^uint64(0))

	for _, s := range schemes {
		for _, v := range values {
			payload := PayloadFromUint64(v)
			g, err := Encode(payload, s)
			require.NoError(t, err, "encode %d", v)
			require.Equal(t, bits.Len64(v)+1+Analyze(g).Forwards, g.Len(), "node count for %d", v)

			got, err := Decode(g, s)
			require.NoError(t, err, "decode %d", v)
			back, err := Uint64FromPayload(got)
			require.NoError(t, err)
			require.Equal(t, v, back, "scheme %s", s)
		}
	}
}

func TestDecodeSizeRestoresLeadingZeros(t *testing.T) {
	payloads := [][]byte{
		{0x00, 0x01},
		{0x00, 0x00, 0xde, 0xad},
		{0x7f, 0x00, 0x00},
		[]byte("watermark"),
	}
	for _, s := range schemes {
		for _, p := range payloads {
			g, err := Encode(p, s)
			require.NoError(t, err)

			got, err := DecodeSize(g, s, len(p))
			require.NoError(t, err)
			require.Equal(t, p, got)
		}
	}
}

func TestDecodeSizeTooSmall(t *testing.T) {
	g, err := Encode([]byte{0x01, 0x00}, SchemeA)
	require.NoError(t, err)

	_, err = DecodeSize(g, SchemeA, 1)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = DecodeSize(g, SchemeA, -1)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestEncodeConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		scheme  Scheme
	}{
		{"nil payload", nil, SchemeA},
		{"empty payload", []byte{}, SchemeB},
		{"all zeros", []byte{0, 0, 0}, SchemeA},
		{"unknown scheme", []byte{1}, Scheme(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Encode(tt.payload, tt.scheme)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("Encode() error = %v, want ErrConfiguration", err)
			}
			if g != nil {
				t.Error("Encode() returned a graph alongside an error")
			}
		})
	}
}

func TestEncoderOutputIsValid(t *testing.T) {
	for _, s := range schemes {
		for v := uint64(1); v < 1<<12; v++ {
			g, err := Encode(PayloadFromUint64(v), s)
			require.NoError(t, err)
			require.NoError(t, Validate(g, s), "payload %d scheme %s", v, s)
			// Scheme A output is also a valid scheme B graph.
			require.NoError(t, Validate(g, SchemeB))
		}
	}
}

// TestCapacityOrdering checks that both schemes embed the same bits and
// that scheme B pays exactly one extra node per forward edge.
func TestCapacityOrdering(t *testing.T) {
	spliced := 0
	for v := uint64(1); v < 1<<12; v++ {
		p := PayloadFromUint64(v)
		a, err := Encode(p, SchemeA)
		require.NoError(t, err)
		b, err := Encode(p, SchemeB)
		require.NoError(t, err)

		sa, sb := Analyze(a), Analyze(b)
		require.Equal(t, sa.Bits, sb.Bits, "payload %d", v)
		require.Equal(t, a.Len()+sb.Forwards, b.Len(), "payload %d", v)
		if sb.Forwards > 0 {
			spliced++
		}
	}
	require.Positive(t, spliced, "no payload produced a forward edge")
}

func TestCorruptionDetected(t *testing.T) {
	// Node 3 claims node 1, which node 2 already made inner.
	g := graph.New(5)
	for i := 0; i < 4; i++ {
		g.Connect(i, i+1)
	}
	g.Connect(2, 1)
	g.Connect(3, 1)

	got, err := Decode(g, SchemeA)
	require.ErrorIs(t, err, ErrUndecodable)
	require.Nil(t, got)

	var amb *AmbiguityError
	require.ErrorAs(t, err, &amb)
	require.Equal(t, 3, amb.Node)
	require.Equal(t, 1, amb.Target)
}

func TestUnusedTargetDetected(t *testing.T) {
	// 29 with its last backedge removed: node 4 had node 3 available.
	g, err := Encode([]byte{29}, SchemeA)
	require.NoError(t, err)
	require.True(t, g.Disconnect(4, 3))

	_, err = Decode(g, SchemeA)
	var amb *AmbiguityError
	require.ErrorAs(t, err, &amb)
	require.Equal(t, 4, amb.Node)
	require.ErrorIs(t, err, ErrUndecodable)
}

func TestStructuralErrors(t *testing.T) {
	spine := func(n int) *graph.Graph {
		g := graph.New(n)
		for i := 0; i+1 < n; i++ {
			g.Connect(i, i+1)
		}
		return g
	}

	tests := []struct {
		name   string
		build  func() *graph.Graph
		scheme Scheme
	}{
		{"empty", func() *graph.Graph { return graph.New(0) }, SchemeA},
		{"single node", func() *graph.Graph { return graph.New(1) }, SchemeB},
		{"missing spine edge", func() *graph.Graph {
			g := spine(4)
			g.Disconnect(1, 2)
			return g
		}, SchemeA},
		{"two backedges", func() *graph.Graph {
			g := spine(4)
			g.Connect(3, 0)
			g.Connect(3, 1)
			return g
		}, SchemeA},
		{"self loop", func() *graph.Graph {
			g := spine(3)
			g.Connect(1, 1)
			return g
		}, SchemeB},
		{"forward edge in scheme A", func() *graph.Graph {
			g := spine(4)
			g.Connect(0, 2)
			return g
		}, SchemeA},
		{"forward and backedge", func() *graph.Graph {
			g := spine(5)
			g.Connect(2, 4)
			g.Connect(2, 0)
			return g
		}, SchemeB},
		{"overlapping forwards", func() *graph.Graph {
			g := spine(5)
			g.Connect(0, 3)
			g.Connect(1, 3)
			return g
		}, SchemeB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.build(), tt.scheme)
			if !errors.Is(err, ErrUndecodable) {
				t.Fatalf("Decode() error = %v, want ErrUndecodable", err)
			}
			var se *StructuralError
			if !errors.As(err, &se) {
				t.Errorf("Decode() error = %T, want *StructuralError", err)
			}
			if got != nil {
				t.Errorf("Decode() = %v, want nil", got)
			}
		})
	}
}

// TestSingleEdgeRemoval removes each non-spine edge from every encoded
// payload up to ten bits and checks that decoding either fails or is off by
// at most one bit.
func TestSingleEdgeRemoval(t *testing.T) {
	for _, s := range schemes {
		t.Run(s.String(), func(t *testing.T) {
			var removed, detected int
			for v := uint64(1); v < 1<<10; v++ {
				payload := PayloadFromUint64(v)
				g, err := Encode(payload, s)
				require.NoError(t, err)

				for _, e := range g.Edges() {
					if e.To == e.From+1 {
						continue
					}
					tampered := g.Copy()
					tampered.Disconnect(e.From, e.To)
					removed++

					got, err := DecodeSize(tampered, s, len(payload))
					if e.To > e.From {
						// Without its forward edge the destination reads a
						// bit again, so the payload grows by one bit.
						if err == nil {
							require.NotEqual(t, payload, got, "payload %d without %d->%d", v, e.From, e.To)
						}
						detected++
						continue
					}
					if err != nil {
						require.ErrorIs(t, err, ErrUndecodable)
						detected++
						continue
					}
					require.LessOrEqual(t, hamming(payload, got), 1,
						"payload %d without %d->%d decoded as %x", v, e.From, e.To, got)
				}
			}
			t.Logf("scheme %s: %d removals, %d detected", s, removed, detected)
		})
	}
}

func hamming(a, b []byte) int {
	d := 0
	for i := range a {
		d += bits.OnesCount8(a[i] ^ b[i])
	}
	return d
}

func TestSerializedGraphDecodes(t *testing.T) {
	for _, s := range schemes {
		g, err := Encode([]byte("hamiltonian"), s)
		require.NoError(t, err)

		data, err := g.MarshalBinary()
		require.NoError(t, err)
		restored, err := graph.Deserialize(data)
		require.NoError(t, err)

		got, err := Decode(restored, s)
		require.NoError(t, err)
		require.Equal(t, []byte("hamiltonian"), got)
	}
}

func TestSortedGraphDecodes(t *testing.T) {
	g, err := Encode([]byte{0xb5, 0x3c}, SchemeA)
	require.NoError(t, err)

	// Renumber the nodes in reverse, then recover spine order.
	n := g.Len()
	shuffled := graph.New(n)
	for _, e := range g.Edges() {
		shuffled.Connect(n-1-e.From, n-1-e.To)
	}
	require.NoError(t, shuffled.TopologicalSort())

	got, err := Decode(shuffled, SchemeA)
	require.NoError(t, err)
	require.Equal(t, []byte{0xb5, 0x3c}, got)
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Scheme
		wantErr bool
	}{
		{"a", SchemeA, false},
		{"Baseline", SchemeA, false},
		{"2014", SchemeA, false},
		{"B", SchemeB, false},
		{" improved ", SchemeB, false},
		{"2017", SchemeB, false},
		{"c", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseScheme(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseScheme(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	var s Scheme
	require.NoError(t, s.UnmarshalText([]byte("b")))
	require.Equal(t, SchemeB, s)
	text, err := s.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "b", string(text))
	_, err = Scheme(9).MarshalText()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestPayloadHelpers(t *testing.T) {
	tests := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0}},
		{29, []byte{29}},
		{0x1234, []byte{0x12, 0x34}},
		{^uint64(0), []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		got := PayloadFromUint64(tt.v)
		require.Equal(t, tt.want, got)
		back, err := Uint64FromPayload(got)
		require.NoError(t, err)
		require.Equal(t, tt.v, back)
	}

	v, err := Uint64FromPayload([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 7})
	require.NoError(t, err)
	require.Equal(t, uint64(7), v)

	_, err = Uint64FromPayload(make([]byte, 9))
	require.NoError(t, err)

	_, err = Uint64FromPayload([]byte{1, 0, 0, 0, 0, 0, 0, 0, 0})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestAnalyze(t *testing.T) {
	g, err := Encode([]byte{29}, SchemeA)
	require.NoError(t, err)

	st := Analyze(g)
	require.Equal(t, Stats{Nodes: 6, Edges: 8, Spine: 5, Backedges: 3, Bits: 5}, st)
}
