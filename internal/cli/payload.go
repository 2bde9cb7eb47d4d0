package cli

import (
	"encoding/hex"
	"os"
	"strconv"
	"unicode/utf8"

	wmerrors "github.com/asimos-bot/software-watermark/pkg/errors"
	"github.com/asimos-bot/software-watermark/pkg/watermark"
)

// Payload views accepted by decode --as.
const (
	viewHex    = "hex"
	viewNumber = "number"
	viewText   = "text"
	viewRaw    = "raw"
)

// payloadFlags holds the mutually exclusive payload sources of encode.
type payloadFlags struct {
	number string
	text   string
	hex    string
	file   string
}

// resolve returns the payload bytes of the one source that was set.
func (p *payloadFlags) resolve() ([]byte, error) {
	set := 0
	for _, s := range []string{p.number, p.text, p.hex, p.file} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, wmerrors.New(wmerrors.ErrCodeInvalidInput, "give exactly one of --number, --text, --hex or --file")
	}

	switch {
	case p.number != "":
		v, err := wmerrors.ValidateNumberPayload(p.number)
		if err != nil {
			return nil, err
		}
		return watermark.PayloadFromUint64(v), nil
	case p.text != "":
		if err := wmerrors.ValidateTextPayload(p.text); err != nil {
			return nil, err
		}
		return []byte(p.text), nil
	case p.hex != "":
		return wmerrors.ValidateHexPayload(p.hex)
	}

	if err := wmerrors.ValidatePath(p.file); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.file)
	if err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeFileNotFound, err, "read payload")
	}
	if len(data) == 0 {
		return nil, wmerrors.New(wmerrors.ErrCodeInvalidPayload, "payload file %s is empty", p.file)
	}
	if len(data) > wmerrors.MaxPayloadBytes {
		return nil, wmerrors.New(wmerrors.ErrCodeInvalidPayload, "payload too long (max %d bytes)", wmerrors.MaxPayloadBytes)
	}
	return data, nil
}

// formatPayload renders a decoded payload for display.
func formatPayload(payload []byte, view string) (string, error) {
	switch view {
	case viewHex, "":
		return hex.EncodeToString(payload), nil
	case viewNumber:
		v, err := watermark.Uint64FromPayload(payload)
		if err != nil {
			return "", wmerrors.Wrap(wmerrors.ErrCodeInvalidInput, err, "payload is not a number")
		}
		return strconv.FormatUint(v, 10), nil
	case viewText:
		if !utf8.Valid(payload) {
			return "", wmerrors.New(wmerrors.ErrCodeInvalidInput, "payload is not valid UTF-8")
		}
		return string(payload), nil
	case viewRaw:
		return string(payload), nil
	}
	return "", wmerrors.New(wmerrors.ErrCodeInvalidInput, "unknown view %q (must be hex, number, text or raw)", view)
}
