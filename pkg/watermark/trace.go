package watermark

import (
	"fmt"

	"github.com/asimos-bot/software-watermark/pkg/graph"
	"github.com/asimos-bot/software-watermark/pkg/parity"
)

// NodeState is the role one node plays in a decoded watermark graph.
type NodeState struct {
	Node   int    `json:"node"`
	Parity string `json:"parity"`
	Target int    `json:"target"` // extra edge target, -1 if none
	Bit    int    `json:"bit"`    // -1 when the node carries no bit
	Pushed bool   `json:"pushed"` // entered a parity stack; false inside a splice
	Outer  bool   `json:"outer"`  // still on its parity stack after the walk
}

// Trace decodes g under scheme s and reports the state of every node: the
// bit it carries, its extra edge and whether it ends the walk as an outer
// node. It fails whenever [Decode] would.
func Trace(g *graph.Graph, s Scheme) ([]NodeState, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: unknown scheme %d", ErrConfiguration, int(s))
	}
	if err := Validate(g, s); err != nil {
		return nil, err
	}
	bs, err := decodeBits(g, s)
	if err != nil {
		return nil, err
	}

	n := g.Len()
	states := make([]NodeState, n)
	for i := range states {
		states[i] = NodeState{Node: i, Parity: parity.Of(i).String(), Target: -1, Bit: -1}
		if t, ok := g.Backedge(i); ok {
			states[i].Target = t
		} else if t, ok := g.Forward(i); ok {
			states[i].Target = t
		}
	}

	// Forward destinations carry no bit.
	dest := make([]bool, n)
	for i := 0; i < n; i++ {
		if t, ok := g.Forward(i); ok {
			dest[t] = true
		}
	}
	next := 0
	for i := 0; i < n-1 && next < len(bs); i++ {
		if dest[i] {
			continue
		}
		states[i].Bit = int(bs[next])
		next++
	}

	// Replay the stacks. Nodes a forward edge jumps over are never pushed.
	tracker := parity.New(n)
	slots := make([]int, n)
	skipped := make([]bool, n)
	for i := 0; i < n; i++ {
		slots[i] = -1
		if t, ok := g.Backedge(i); ok && slots[t] >= 0 && tracker.IsOuter(t, slots[t]) {
			tracker.Claim(t, slots[t])
		}
		if t, ok := g.Forward(i); ok {
			for j := i + 1; j <= t; j++ {
				skipped[j] = true
			}
		}
		if !skipped[i] {
			slots[i] = tracker.Push(i)
		}
	}
	for _, v := range tracker.History() {
		states[v].Pushed = true
		states[v].Outer = tracker.IsOuter(v, slots[v])
	}
	return states, nil
}
