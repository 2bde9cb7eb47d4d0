package errors

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// MaxPayloadBytes bounds payloads accepted from the command line. Larger
// payloads encode fine but produce graphs nobody would graft into a program.
const MaxPayloadBytes = 4096

// ValidateHexPayload validates and decodes a hexadecimal payload string.
// An optional "0x" prefix and interior whitespace are accepted.
//
// The validation rules:
//   - No empty strings
//   - Only hex digits after the prefix is removed
//   - At most MaxPayloadBytes decoded bytes
func ValidateHexPayload(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, New(ErrCodeInvalidPayload, "hex payload cannot be empty")
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, Wrap(ErrCodeInvalidPayload, err, "invalid hex payload")
	}
	if len(b) > MaxPayloadBytes {
		return nil, New(ErrCodeInvalidPayload, "payload too long (max %d bytes)", MaxPayloadBytes)
	}
	return b, nil
}

// ValidateNumberPayload parses an unsigned decimal number for numeric payloads.
func ValidateNumberPayload(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidPayload, "number cannot be empty")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidPayload, err, "invalid number %q", s)
	}
	if v == 0 {
		return 0, New(ErrCodeInvalidPayload, "number must be greater than zero")
	}
	return v, nil
}

// ValidateTextPayload validates a text payload.
// Text is embedded as its UTF-8 bytes, so control characters other than
// tab and newline are rejected to keep round trips printable.
func ValidateTextPayload(s string) error {
	if s == "" {
		return New(ErrCodeInvalidPayload, "text payload cannot be empty")
	}
	if len(s) > MaxPayloadBytes {
		return New(ErrCodeInvalidPayload, "payload too long (max %d bytes)", MaxPayloadBytes)
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return New(ErrCodeInvalidPayload, "text payload contains control characters")
		}
	}
	return nil
}

// ValidatePath validates an output or input file path supplied by the user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// formatRegex matches graph file format names.
var formatRegex = regexp.MustCompile(`^[a-z]+$`)

// ValidateFormat checks that format is one of the allowed names.
func ValidateFormat(format string, allowed map[string]bool) error {
	if !formatRegex.MatchString(format) || !allowed[format] {
		return New(ErrCodeInvalidFormat, "unsupported format: %q", format)
	}
	return nil
}
