package watermark

import (
	"fmt"

	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/asimos-bot/software-watermark/pkg/graph"
	"github.com/asimos-bot/software-watermark/pkg/parity"
)

// Encode builds the watermark graph of payload under scheme s. It fails only
// with [ErrConfiguration]: for an empty or all-zero payload, or an unknown
// scheme.
func Encode(payload []byte, s Scheme) (*graph.Graph, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: unknown scheme %d", ErrConfiguration, int(s))
	}
	bs, err := payloadBits(payload)
	if err != nil {
		return nil, err
	}
	e := newEncoder(bs, s)
	e.run()
	return e.g, nil
}

// forwardState is the role of the current node around a forward splice. It
// advances one state per walk step.
type forwardState int

const (
	stateIdle        forwardState = iota
	stateSource                   // node that owns the forward edge
	stateInner                    // spliced node the forward edge skips
	stateDestination              // target of the forward edge, carries no bit
)

func (f forwardState) next() forwardState {
	switch f {
	case stateSource:
		return stateInner
	case stateInner:
		return stateDestination
	default:
		return stateIdle
	}
}

type encoder struct {
	g       *graph.Graph
	tracker *parity.Tracker
	bits    []byte
	next    int   // index of the next bit to embed
	slots   []int // slot of each pushed node, by node index; -1 if not pushed
	scheme  Scheme
	state   forwardState
	pending *linkedlistqueue.Queue // node indices awaiting insertion

	// Stack claimed by the previous scheme B step, if it added a backedge.
	lastClaim   parity.Parity
	lastClaimed bool
}

func newEncoder(bs []byte, s Scheme) *encoder {
	n := len(bs) + 1
	size := n
	if s == SchemeB {
		// Each splice adds at most one node per bit.
		size = 2 * n
	}
	g := graph.New(n)
	for i := 0; i+1 < n; i++ {
		g.Connect(i, i+1)
	}
	return &encoder{
		g:       g,
		tracker: parity.New(size),
		bits:    bs,
		slots:   make([]int, 0, size),
		scheme:  s,
		pending: linkedlistqueue.New(),
	}
}

func (e *encoder) run() {
	// Node 0 is the implicit leading 1.
	e.push(0)
	e.next = 1
	for i := 1; i < e.g.Len(); i++ {
		if e.scheme == SchemeB {
			e.stepB(i)
		} else {
			e.stepA(i)
		}
	}
}

func (e *encoder) push(i int) {
	e.slots = append(e.slots, e.tracker.Push(i))
}

func (e *encoder) skip() {
	e.slots = append(e.slots, -1)
}

// take returns the next bit and whether one was left.
func (e *encoder) take() (byte, bool) {
	if e.next >= len(e.bits) {
		return 0, false
	}
	b := e.bits[e.next]
	e.next++
	return b, true
}

// claim connects i to the top of stack p, if any.
func (e *encoder) claim(i int, p parity.Parity) bool {
	return e.claimAt(i, p, 0)
}

// claimAt connects i to the outer node depth entries below the top of
// stack p, if there is one.
func (e *encoder) claimAt(i int, p parity.Parity, depth int) bool {
	t, ok := e.tracker.Peek(p, depth)
	if !ok {
		return false
	}
	e.g.Connect(i, t)
	e.tracker.Claim(t, e.slots[t])
	return true
}

// claimB is the scheme B claim. When the previous node took its backedge
// from stack p, the top of p does not count as a candidate and the node
// below it is used instead.
func (e *encoder) claimB(i int, p parity.Parity, prevClaimed bool) bool {
	depth := 0
	if prevClaimed && e.lastClaim == p {
		depth = 1
	}
	if !e.claimAt(i, p, depth) {
		return false
	}
	e.lastClaim, e.lastClaimed = p, true
	return true
}

func (e *encoder) stepA(i int) {
	if bit, ok := e.take(); ok {
		p := parity.Of(i)
		if bit == 1 {
			p = p.Opposite()
		}
		// An empty stack is fine: the decoder reads the missing edge.
		e.claim(i, p)
	}
	e.push(i)
}

func (e *encoder) stepB(i int) {
	prevClaimed := e.lastClaimed
	e.lastClaimed = false

	switch e.state {
	case stateDestination:
		e.skip()

	case stateInner:
		// The spliced node sits right after its source, so a backedge to
		// the source has odd distance.
		if bit, ok := e.take(); ok && bit == 1 {
			e.g.Connect(i, i-1)
			e.tracker.Claim(i-1, e.slots[i-1])
			e.lastClaim, e.lastClaimed = parity.Of(i-1), true
		}
		e.skip()

	default:
		if bit, ok := e.take(); ok {
			p := parity.Of(i)
			if bit == 1 {
				p = p.Opposite()
			}
			if !e.claimB(i, p, prevClaimed) && bit == 1 {
				e.pending.Enqueue(i + 1)
				e.state = stateSource
			}
		}
		e.push(i)
	}

	e.state = e.state.next()
	e.flush()
}

// flush applies queued splices. Each turns the spine edge v-1→v into a
// forward edge v-1→v+1 over a fresh node v.
func (e *encoder) flush() {
	for !e.pending.Empty() {
		v, _ := e.pending.Dequeue()
		at := v.(int)
		e.g.Insert(at)
		e.g.Connect(at-1, at)
		e.g.Connect(at, at+1)
	}
}
