package watermark

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned by [Encode] for an empty or all-zero
	// payload, and by [DecodeSize] and [ParseScheme] for invalid arguments.
	ErrConfiguration = errors.New("invalid watermark configuration")

	// ErrUndecodable is wrapped by every decoding failure. Callers should test
	// for it with errors.Is and treat all failures alike.
	ErrUndecodable = errors.New("graph is not decodable")
)

// StructuralError reports a graph whose shape is not a watermark: a missing
// or duplicated spine edge, more than one extra edge on a node, a self loop,
// or a forward edge where the scheme does not allow one.
type StructuralError struct {
	Node   int // offending node, or -1 for the whole graph
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Node < 0 {
		return fmt.Sprintf("structural: %s", e.Reason)
	}
	return fmt.Sprintf("structural: node %d: %s", e.Node, e.Reason)
}

// Unwrap returns [ErrUndecodable].
func (e *StructuralError) Unwrap() error { return ErrUndecodable }

// AmbiguityError reports a well-shaped graph whose edges contradict the
// bookkeeping: a backedge to a node that is already inner, or a missing
// backedge where an outer target was available.
type AmbiguityError struct {
	Node   int // node being decoded
	Target int // backedge target involved
	Reason string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous: node %d (target %d): %s", e.Node, e.Target, e.Reason)
}

// Unwrap returns [ErrUndecodable].
func (e *AmbiguityError) Unwrap() error { return ErrUndecodable }
