package watermark

import (
	"fmt"
	"strings"
)

// Scheme selects the encoding variant.
type Scheme int

const (
	// SchemeA is the baseline scheme: backedges only.
	SchemeA Scheme = iota
	// SchemeB adds forward edges for 1 bits that no backedge can express.
	SchemeB
)

// String returns "a" or "b".
func (s Scheme) String() string {
	switch s {
	case SchemeA:
		return "a"
	case SchemeB:
		return "b"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

// Valid reports whether s is a known scheme.
func (s Scheme) Valid() bool { return s == SchemeA || s == SchemeB }

// ParseScheme parses a scheme name. It accepts "a", "baseline" and "2014" for
// [SchemeA], and "b", "improved" and "2017" for [SchemeB], case-insensitively.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a", "baseline", "2014":
		return SchemeA, nil
	case "b", "improved", "2017":
		return SchemeB, nil
	}
	return 0, fmt.Errorf("%w: unknown scheme %q", ErrConfiguration, name)
}

// MarshalText implements encoding.TextMarshaler so schemes read naturally in
// TOML and JSON.
func (s Scheme) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: unknown scheme %d", ErrConfiguration, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scheme) UnmarshalText(text []byte) error {
	v, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
