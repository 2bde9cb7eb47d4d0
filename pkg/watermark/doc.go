// Package watermark encodes a binary payload into the topology of a
// Hamiltonian-path graph and decodes it back.
//
// # Encoding
//
// The payload is read as a big-endian bit string with its leading zero bits
// stripped, so the first embedded bit is always 1. A payload with n such bits
// becomes a spine of n+1 nodes 0→1→…→n. Node i carries bit i: node 0 stands
// for the leading 1 and the last node carries nothing.
//
// Every other bit is expressed by an optional backedge. While walking the
// spine a [parity.Tracker] keeps the nodes that may still be claimed as
// targets, split by position parity. A 0 bit points at the newest outer node
// of the same parity, a 1 bit at the newest outer node of the opposite parity,
// so the bit is the parity of the index distance. Claiming a target makes it
// and every newer node of its parity inner, which is what lets a decoder tell
// legitimate backedges from tampered ones.
//
// Two schemes are supported:
//
//   - [SchemeA]: the baseline. When the required stack is empty no edge is
//     added and the missing edge itself carries the bit.
//   - [SchemeB]: the capacity-improved variant. A stack top the previous
//     node just claimed from is not offered again; the entry below it is
//     used. When a 1 still cannot be expressed by a backedge, a node is
//     spliced in after the current one and a forward edge skips over it. Insertions are queued and applied between walk
//     steps so the walk never observes a half-spliced graph.
//
// # Decoding
//
// [Decode] validates the shape first (a spine plus at most one extra edge per
// node) and then replays the walk. Every failure, structural or ambiguous,
// wraps [ErrUndecodable]; the concrete [StructuralError] or [AmbiguityError]
// is available through errors.As for diagnostics. No partial payload is ever
// returned.
//
// # Usage
//
//	g, err := watermark.Encode([]byte{29}, watermark.SchemeA)
//	if err != nil {
//	    return err
//	}
//	payload, err := watermark.Decode(g, watermark.SchemeA)
//	if errors.Is(err, watermark.ErrUndecodable) {
//	    // the graph does not carry a watermark
//	}
//
// Encoder and decoder are synchronous, allocate once per call and share no
// state between calls.
package watermark
