package watermark

import (
	"fmt"
	"math/bits"
)

// payloadBits returns the bits of payload, most significant first, with the
// leading zero bits removed. The first returned bit is always 1.
func payloadBits(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: payload is empty", ErrConfiguration)
	}
	first := -1
	for i, b := range payload {
		if b != 0 {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, fmt.Errorf("%w: payload is all zeros", ErrConfiguration)
	}

	total := len(payload) * 8
	lead := first*8 + bits.LeadingZeros8(payload[first])
	out := make([]byte, 0, total-lead)
	for i := lead; i < total; i++ {
		out = append(out, payload[i/8]>>(7-i%8)&1)
	}
	return out, nil
}

// packBits packs bits, most significant first, right-aligned into size bytes.
// A size of zero selects the smallest size that holds every bit.
func packBits(bs []byte, size int) ([]byte, error) {
	need := (len(bs) + 7) / 8
	if size == 0 {
		size = need
	}
	if size < need {
		return nil, fmt.Errorf("%w: %d bits do not fit in %d bytes", ErrConfiguration, len(bs), size)
	}
	out := make([]byte, size)
	offset := size*8 - len(bs)
	for i, b := range bs {
		if b != 0 {
			pos := offset + i
			out[pos/8] |= 0x80 >> (pos % 8)
		}
	}
	return out, nil
}
