package pipeline

import (
	"fmt"

	"github.com/asimos-bot/software-watermark/pkg/rs"
	"github.com/asimos-bot/software-watermark/pkg/watermark"
)

// marker is the byte carrying the implicit root bit ahead of a
// Reed-Solomon block.
const marker = 0x01

// wrapPayload returns the bytes to embed for payload.
func wrapPayload(payload []byte, parity int) ([]byte, error) {
	if parity == 0 {
		return payload, nil
	}
	block, err := rs.Encode(payload, parity)
	if err != nil {
		return nil, err
	}
	return append([]byte{marker}, block...), nil
}

// unwrapPayload reverses wrapPayload on the raw decoded bytes.
func unwrapPayload(raw []byte, parity int) ([]byte, error) {
	if parity == 0 {
		return raw, nil
	}
	if len(raw) < 2 || raw[0] != marker {
		return nil, fmt.Errorf("%w: missing error correction marker", watermark.ErrUndecodable)
	}
	return rs.Decode(raw[1:], parity)
}

// padTo left-pads payload with zero bytes to size.
func padTo(payload []byte, size int) ([]byte, error) {
	if size == 0 || len(payload) == size {
		return payload, nil
	}
	if len(payload) > size {
		return nil, fmt.Errorf("%w: decoded %d bytes do not fit in %d", watermark.ErrConfiguration, len(payload), size)
	}
	out := make([]byte, size)
	copy(out[size-len(payload):], payload)
	return out, nil
}
