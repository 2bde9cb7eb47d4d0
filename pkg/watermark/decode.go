package watermark

import (
	"fmt"

	"github.com/asimos-bot/software-watermark/pkg/graph"
	"github.com/asimos-bot/software-watermark/pkg/parity"
)

// Decode recovers the payload carried by g under scheme s. The result is the
// smallest byte slice that holds every decoded bit, so the leading zero bytes
// of the original payload are not restored; use [DecodeSize] for that.
//
// Every decoding failure wraps [ErrUndecodable].
func Decode(g *graph.Graph, s Scheme) ([]byte, error) {
	return DecodeSize(g, s, 0)
}

// DecodeSize is like [Decode] but left-pads the payload to size bytes. A size
// of zero means no padding. A size too small to hold the decoded bits is an
// [ErrConfiguration].
func DecodeSize(g *graph.Graph, s Scheme, size int) ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: unknown scheme %d", ErrConfiguration, int(s))
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative payload size %d", ErrConfiguration, size)
	}
	if err := Validate(g, s); err != nil {
		return nil, err
	}

	bs, err := decodeBits(g, s)
	if err != nil {
		return nil, err
	}
	return packBits(bs, size)
}

func decodeBits(g *graph.Graph, s Scheme) ([]byte, error) {
	if s == SchemeB {
		return decodeB(g)
	}
	return decodeA(g)
}

// Validate checks that g has the shape of a watermark graph for scheme s:
// at least two nodes, exactly one spine edge i→i+1 on every node but the
// last, and at most one extra edge per node. The extra edge must be a
// backedge, or under [SchemeB] a forward edge. Failures are
// [StructuralError]s.
func Validate(g *graph.Graph, s Scheme) error {
	n := g.Len()
	if n < 2 {
		return &StructuralError{Node: -1, Reason: fmt.Sprintf("need at least 2 nodes, have %d", n)}
	}
	for i := 0; i < n; i++ {
		spine, extra := 0, 0
		for _, to := range g.Out(i) {
			switch {
			case to == i+1:
				spine++
			case to == i:
				return &StructuralError{Node: i, Reason: "self loop"}
			case to < i:
				extra++
			case s == SchemeA:
				return &StructuralError{Node: i, Reason: fmt.Sprintf("forward edge to %d not allowed in scheme %s", to, s)}
			default:
				extra++
			}
		}
		if i < n-1 && spine != 1 {
			return &StructuralError{Node: i, Reason: fmt.Sprintf("has %d spine edges to %d, want 1", spine, i+1)}
		}
		if extra > 1 {
			return &StructuralError{Node: i, Reason: fmt.Sprintf("has %d extra edges, want at most 1", extra)}
		}
	}
	return nil
}

// decodeA replays the scheme A walk. Edges of a node are read before the node
// itself is pushed, mirroring the encoder, which claims a target and only then
// records the current node.
func decodeA(g *graph.Graph) ([]byte, error) {
	n := g.Len()
	tracker := parity.New(n)
	slots := make([]int, n)
	bs := make([]byte, 0, n-1)

	for i := 0; i < n-1; i++ {
		var bit byte
		if t, ok := g.Backedge(i); ok {
			if !tracker.IsOuter(t, slots[t]) {
				return nil, &AmbiguityError{Node: i, Target: t, Reason: "backedge to inner node"}
			}
			tracker.Claim(t, slots[t])
			bit = byte((i - t) & 1)
		} else if i == 0 {
			bit = 1
		} else if t, ok := tracker.Top(parity.Odd); ok {
			// The encoder would have used t for either bit value.
			return nil, &AmbiguityError{Node: i, Target: t, Reason: "outer target left unused"}
		} else if parity.Of(i) == parity.Even {
			bit = 1
		}
		slots[i] = tracker.Push(i)
		bs = append(bs, bit)
	}
	return bs, nil
}

// decodeB reads scheme B: a forward edge is a 1 and its target carries no
// bit, an odd-distance backedge is a 1, anything else is a 0. Node 0 is the
// implicit leading 1.
func decodeB(g *graph.Graph) ([]byte, error) {
	n := g.Len()
	forwards := 0
	for i := 0; i < n; i++ {
		if _, ok := g.Forward(i); ok {
			forwards++
		}
	}
	want := n - 1 - forwards
	if want < 1 {
		return nil, &StructuralError{Node: -1, Reason: "no bit-carrying nodes"}
	}

	skipped := make([]bool, n)
	bs := make([]byte, 0, want)

	for i := 0; i < n-1 && len(bs) < want; i++ {
		if skipped[i] {
			continue
		}
		var bit byte
		if t, ok := g.Forward(i); ok {
			if skipped[t] {
				return nil, &StructuralError{Node: i, Reason: fmt.Sprintf("forward edge to %d overlaps another", t)}
			}
			skipped[t] = true
			bit = 1
		} else if i == 0 {
			bit = 1
		} else if t, ok := g.Backedge(i); ok && (i-t)&1 == 1 {
			bit = 1
		}
		bs = append(bs, bit)
	}
	if len(bs) < want {
		return nil, &StructuralError{Node: -1, Reason: fmt.Sprintf("decoded %d bits, want %d", len(bs), want)}
	}
	return bs, nil
}
