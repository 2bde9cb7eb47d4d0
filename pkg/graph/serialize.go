package graph

import (
	"encoding/binary"
	"fmt"
)

// word is the width of every integer in the serialized layout.
const word = 8

// MarshalBinary encodes the graph as
//
//	u64 nodeCount
//	per node: u64 dataLen, data, u64 outCount, outCount × u64 target
//
// with every integer big-endian. Metadata chains are not serialized.
func (g *Graph) MarshalBinary() ([]byte, error) {
	size := word
	for _, n := range g.nodes {
		size += 2*word + len(n.Data) + word*len(n.out)
	}
	buf := make([]byte, 0, size)
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(g.nodes)))
	for _, n := range g.nodes {
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(n.Data)))
		buf = append(buf, n.Data...)
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(n.out)))
		for _, to := range n.out {
			buf = binary.BigEndian.AppendUint64(buf, uint64(to))
		}
	}
	return buf, nil
}

// UnmarshalBinary replaces g with the graph encoded in data.
func (g *Graph) UnmarshalBinary(data []byte) error {
	d, err := Deserialize(data)
	if err != nil {
		return err
	}
	*g = *d
	return nil
}

// Deserialize decodes a graph written by [Graph.MarshalBinary]. It returns an
// error wrapping [ErrCorrupt] when the input is malformed.
func Deserialize(data []byte) (*Graph, error) {
	r := reader{buf: data}
	count, err := r.uint()
	if err != nil {
		return nil, err
	}
	// Every node needs at least its two length words.
	if count > uint64(len(r.buf))/(2*word) {
		return nil, fmt.Errorf("%w: node count %d exceeds input", ErrCorrupt, count)
	}
	n := int(count)
	g := New(n)
	targets := make([][]uint64, n)
	for i := 0; i < n; i++ {
		dataLen, err := r.uint()
		if err != nil {
			return nil, err
		}
		raw, err := r.bytes(dataLen)
		if err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			g.nodes[i].Data = append([]byte(nil), raw...)
		}
		outCount, err := r.uint()
		if err != nil {
			return nil, err
		}
		if outCount > uint64(len(r.buf))/word {
			return nil, fmt.Errorf("%w: node %d edge count %d exceeds input", ErrCorrupt, i, outCount)
		}
		targets[i] = make([]uint64, outCount)
		for j := range targets[i] {
			if targets[i][j], err = r.uint(); err != nil {
				return nil, err
			}
		}
	}
	if len(r.buf) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(r.buf))
	}
	for from, ts := range targets {
		for _, to := range ts {
			if to >= count {
				return nil, fmt.Errorf("%w: edge %d->%d out of range", ErrCorrupt, from, to)
			}
			g.Connect(from, int(to))
		}
	}
	return g, nil
}

type reader struct {
	buf []byte
}

func (r *reader) uint() (uint64, error) {
	if len(r.buf) < word {
		return 0, fmt.Errorf("%w: unexpected end of input", ErrCorrupt)
	}
	v := binary.BigEndian.Uint64(r.buf)
	r.buf = r.buf[word:]
	return v, nil
}

func (r *reader) bytes(n uint64) ([]byte, error) {
	if uint64(len(r.buf)) < n {
		return nil, fmt.Errorf("%w: data length %d exceeds input", ErrCorrupt, n)
	}
	b := r.buf[:n]
	r.buf = r.buf[n:]
	return b, nil
}
