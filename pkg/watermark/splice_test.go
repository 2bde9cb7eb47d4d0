package watermark

import (
	"slices"
	"testing"

	"github.com/asimos-bot/software-watermark/pkg/graph"
)

// forceSplice runs the scheme B walk over bs, but after node 1 claims it
// empties the odd stack so that node 2 has to splice in a forward edge.
func forceSplice(t *testing.T, bs []byte) *graph.Graph {
	t.Helper()
	e := newEncoder(bs, SchemeB)
	e.push(0)
	e.next = 1
	e.stepB(1)
	e.tracker.Claim(1, e.slots[1])
	for i := 2; i < e.g.Len(); i++ {
		e.stepB(i)
	}
	if e.state != stateIdle {
		t.Fatalf("walk ended in state %d", e.state)
	}
	if !e.pending.Empty() {
		t.Fatal("walk ended with pending splices")
	}
	return e.g
}

func TestSchemeBSplice(t *testing.T) {
	tests := []struct {
		name  string
		bits  []byte
		edges []graph.Edge
		want  byte
	}{
		{
			name: "inner zero",
			bits: []byte{1, 1, 1, 0, 1},
			edges: []graph.Edge{
				{From: 0, To: 1},
				{From: 1, To: 2}, {From: 1, To: 0},
				{From: 2, To: 4}, {From: 2, To: 3},
				{From: 3, To: 4},
				{From: 4, To: 5},
				{From: 5, To: 6}, {From: 5, To: 2},
			},
			want: 29,
		},
		{
			name: "inner one",
			bits: []byte{1, 1, 1, 1, 1},
			edges: []graph.Edge{
				{From: 0, To: 1},
				{From: 1, To: 2}, {From: 1, To: 0},
				{From: 2, To: 4}, {From: 2, To: 3},
				{From: 3, To: 4}, {From: 3, To: 2},
				{From: 4, To: 5},
				{From: 5, To: 6}, {From: 5, To: 0},
			},
			want: 31,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := forceSplice(t, tt.bits)

			if got := g.Len(); got != len(tt.bits)+2 {
				t.Errorf("Len() = %d, want %d", got, len(tt.bits)+2)
			}
			if got := g.Edges(); !slices.Equal(got, tt.edges) {
				t.Errorf("Edges() = %v, want %v", got, tt.edges)
			}
			if err := Validate(g, SchemeB); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if err := Validate(g, SchemeA); err == nil {
				t.Error("Validate(SchemeA) accepted a forward edge")
			}

			got, err := Decode(g, SchemeB)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !slices.Equal(got, []byte{tt.want}) {
				t.Errorf("Decode() = %v, want [%d]", got, tt.want)
			}

			if st := Analyze(g); st.Forwards != 1 || st.Bits != len(tt.bits) {
				t.Errorf("Analyze() = %+v, want 1 forward and %d bits", st, len(tt.bits))
			}
		})
	}
}

func TestSchemeBSplicesRealPayloads(t *testing.T) {
	// 17 = 10001: node 3 claims node 1 from the odd stack, so node 4 may
	// not take node 3 and splices a forward edge instead.
	g, err := Encode([]byte{17}, SchemeB)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := []graph.Edge{
		{From: 0, To: 1},
		{From: 1, To: 2},
		{From: 2, To: 3}, {From: 2, To: 0},
		{From: 3, To: 4}, {From: 3, To: 1},
		{From: 4, To: 6}, {From: 4, To: 5},
		{From: 5, To: 6},
	}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if got, err := Decode(g, SchemeB); err != nil || !slices.Equal(got, []byte{17}) {
		t.Errorf("Decode() = %v, %v, want [17]", got, err)
	}

	spliced := 0
	for v := uint64(1); v < 1<<12; v++ {
		payload := PayloadFromUint64(v)
		g, err := Encode(payload, SchemeB)
		if err != nil {
			t.Fatalf("Encode(%d) error = %v", v, err)
		}
		if Analyze(g).Forwards == 0 {
			continue
		}
		spliced++
		if err := Validate(g, SchemeA); err == nil {
			t.Errorf("payload %d: Validate(SchemeA) accepted a forward edge", v)
		}
		got, err := Decode(g, SchemeB)
		if err != nil {
			t.Fatalf("Decode(%d) error = %v", v, err)
		}
		if !slices.Equal(got, payload) {
			t.Errorf("Decode(%d) = %v, want %v", v, got, payload)
		}
	}
	if spliced == 0 {
		t.Error("no payload below 4096 produced a forward edge")
	}
}

func TestForwardStateCycle(t *testing.T) {
	s := stateSource
	want := []forwardState{stateInner, stateDestination, stateIdle, stateIdle}
	for i, w := range want {
		s = s.next()
		if s != w {
			t.Errorf("step %d: state = %d, want %d", i, s, w)
		}
	}
}

func TestPayloadBits(t *testing.T) {
	tests := []struct {
		payload []byte
		want    []byte
	}{
		{[]byte{1}, []byte{1}},
		{[]byte{29}, []byte{1, 1, 1, 0, 1}},
		{[]byte{0, 0x80}, []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{[]byte{0x01, 0x02}, []byte{1, 0, 0, 0, 0, 0, 0, 1, 0}},
	}
	for _, tt := range tests {
		got, err := payloadBits(tt.payload)
		if err != nil {
			t.Fatalf("payloadBits(%v) error = %v", tt.payload, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("payloadBits(%v) = %v, want %v", tt.payload, got, tt.want)
		}
		packed, err := packBits(got, len(tt.payload))
		if err != nil {
			t.Fatalf("packBits error = %v", err)
		}
		if !slices.Equal(packed, tt.payload) {
			t.Errorf("packBits(%v) = %v, want %v", got, packed, tt.payload)
		}
	}
}
