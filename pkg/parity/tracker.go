// Package parity tracks which nodes of a Hamiltonian walk may still be
// claimed as backedge targets.
//
// A [Tracker] keeps two stacks of outer node indices, one per position
// parity, plus a history of every node visited. Buffers are sized once for
// the whole walk; claiming a target only shortens a stack, so nothing is
// reallocated mid-walk.
package parity

// Parity selects one of the two stacks.
type Parity int

const (
	// Even holds nodes at even Hamiltonian positions, starting with the root.
	Even Parity = iota
	// Odd holds nodes at odd Hamiltonian positions.
	Odd
)

// Of returns the parity of a Hamiltonian position.
func Of(i int) Parity { return Parity(i & 1) }

// Opposite returns the other parity.
func (p Parity) Opposite() Parity { return 1 - p }

// String returns "even" or "odd".
func (p Parity) String() string {
	if p == Even {
		return "even"
	}
	return "odd"
}

// Tracker holds the parity stacks and the visit history of one walk.
//
// The root (node 0) is pushed first and sits at slot 0 of the even stack.
// Claiming it never removes it, so the root stays outer for the whole walk
// and every later node has at least one even-parity target.
type Tracker struct {
	stacks  [2][]int
	history []int
}

// New returns a tracker for a walk over at most n nodes.
func New(n int) *Tracker {
	return &Tracker{
		stacks:  [2][]int{make([]int, 0, (n+1)/2), make([]int, 0, n/2)},
		history: make([]int, 0, n),
	}
}

// Push records node i as visited and outer. It returns the slot i occupies
// in its parity stack, which is the stack's length before the push.
func (t *Tracker) Push(i int) int {
	p := Of(i)
	slot := len(t.stacks[p])
	t.stacks[p] = append(t.stacks[p], i)
	t.history = append(t.history, i)
	return slot
}

// Top returns the most recent outer node of parity p.
func (t *Tracker) Top(p Parity) (int, bool) { return t.Peek(p, 0) }

// Peek returns the outer node of parity p that sits depth entries below the
// top of its stack.
func (t *Tracker) Peek(p Parity, depth int) (int, bool) {
	s := t.stacks[p]
	if depth < 0 || depth >= len(s) {
		return 0, false
	}
	return s[len(s)-1-depth], true
}

// Len returns the number of outer nodes of parity p.
func (t *Tracker) Len(p Parity) int { return len(t.stacks[p]) }

// IsOuter reports whether node i, pushed at the given slot, is still outer.
func (t *Tracker) IsOuter(i, slot int) bool {
	s := t.stacks[Of(i)]
	return slot >= 0 && slot < len(s) && s[slot] == i
}

// Claim makes node i, pushed at slot, a backedge target. Its stack is
// truncated to slot, turning i and every node pushed after it into inner
// nodes. The root is the exception: its stack keeps the root itself.
func (t *Tracker) Claim(i, slot int) {
	p := Of(i)
	if i == 0 {
		slot = 1
	}
	if slot < len(t.stacks[p]) {
		t.stacks[p] = t.stacks[p][:slot]
	}
}

// History returns every node pushed so far, in visit order.
func (t *Tracker) History() []int {
	return append([]int(nil), t.history...)
}
