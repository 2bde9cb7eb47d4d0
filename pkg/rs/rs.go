// Package rs wraps payloads in a systematic Reed-Solomon code over GF(2^8).
//
// [Encode] appends parity bytes to the data; [Decode] corrects up to half as
// many corrupted bytes as there are parity bytes and strips the parity again.
// Data longer than one code word allows is split into consecutive blocks of
// [MaxBlock] bytes (data plus parity), the last block possibly shorter, so the
// block layout is recovered from the total length alone.
//
// The code itself is provided by github.com/vivint/infectious, used with one
// byte per share.
package rs

import (
	"errors"
	"fmt"

	"github.com/vivint/infectious"
)

// MaxBlock is the largest code word: data and parity bytes of one block.
const MaxBlock = 256

var (
	// ErrInvalidParity is returned by [Encode] and [Decode] when the parity
	// count is negative, leaves no room for data, or does not match the block.
	ErrInvalidParity = errors.New("invalid parity symbol count")

	// ErrUncorrectable is returned by [Decode] when a block holds more
	// corrupted bytes than its parity can repair.
	ErrUncorrectable = errors.New("too many corrupted bytes to correct")
)

// Encode returns data followed by parity bytes, block by block. A parity of
// zero returns a copy of data.
func Encode(data []byte, parity int) ([]byte, error) {
	if err := checkParity(parity); err != nil {
		return nil, err
	}
	if parity == 0 {
		return append([]byte(nil), data...), nil
	}

	chunk := MaxBlock - parity
	out := make([]byte, 0, len(data)+parity*(len(data)/chunk+1))
	for start := 0; start < len(data); start += chunk {
		end := min(start+chunk, len(data))
		block, err := encodeBlock(data[start:end], parity)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	return out, nil
}

// Decode corrects and strips the parity added by [Encode] with the same
// parity count.
func Decode(block []byte, parity int) ([]byte, error) {
	if err := checkParity(parity); err != nil {
		return nil, err
	}
	if parity == 0 {
		return append([]byte(nil), block...), nil
	}

	out := make([]byte, 0, len(block))
	for start := 0; start < len(block); start += MaxBlock {
		end := min(start+MaxBlock, len(block))
		if end-start <= parity {
			return nil, fmt.Errorf("%w: block of %d bytes cannot carry %d parity bytes", ErrInvalidParity, end-start, parity)
		}
		data, err := decodeBlock(block[start:end], parity)
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

func checkParity(parity int) error {
	if parity < 0 || parity >= MaxBlock {
		return fmt.Errorf("%w: %d (want 0 to %d)", ErrInvalidParity, parity, MaxBlock-1)
	}
	return nil
}

func encodeBlock(data []byte, parity int) ([]byte, error) {
	k := len(data)
	fec, err := infectious.NewFEC(k, k+parity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParity, err)
	}
	out := make([]byte, k+parity)
	err = fec.Encode(data, func(s infectious.Share) {
		out[s.Number] = s.Data[0]
	})
	if err != nil {
		return nil, fmt.Errorf("reed-solomon encode: %w", err)
	}
	return out, nil
}

func decodeBlock(block []byte, parity int) ([]byte, error) {
	n := len(block)
	k := n - parity
	fec, err := infectious.NewFEC(k, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParity, err)
	}
	shares := make([]infectious.Share, n)
	for i, b := range block {
		shares[i] = infectious.Share{Number: i, Data: []byte{b}}
	}
	data, err := fec.Decode(nil, shares)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUncorrectable, err)
	}
	return data, nil
}
