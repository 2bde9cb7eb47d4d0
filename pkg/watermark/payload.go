package watermark

import (
	"encoding/binary"
	"fmt"
)

// PayloadFromUint64 returns v as a minimal big-endian payload: no leading
// zero bytes, at least one byte.
func PayloadFromUint64(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	return append([]byte(nil), buf[i:]...)
}

// Uint64FromPayload interprets a big-endian payload as an unsigned integer.
// Leading zero bytes are ignored; more than eight significant bytes is an
// error.
func Uint64FromPayload(p []byte) (uint64, error) {
	for len(p) > 8 && p[0] == 0 {
		p = p[1:]
	}
	if len(p) > 8 {
		return 0, fmt.Errorf("%w: payload of %d bytes overflows uint64", ErrConfiguration, len(p))
	}
	var v uint64
	for _, b := range p {
		v = v<<8 | uint64(b)
	}
	return v, nil
}
