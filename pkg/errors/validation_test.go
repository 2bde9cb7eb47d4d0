package errors

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidateHexPayload(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"single byte", "1d", []byte{0x1d}, false},
		{"prefixed", "0x1D", []byte{0x1d}, false},
		{"odd length", "abc", []byte{0x0a, 0xbc}, false},
		{"spaces", "de ad be ef", []byte{0xde, 0xad, 0xbe, 0xef}, false},

		{"empty", "", nil, true},
		{"prefix only", "0x", nil, true},
		{"not hex", "zz", nil, true},
		{"too long", strings.Repeat("ff", MaxPayloadBytes+1), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateHexPayload(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateHexPayload(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !Is(err, ErrCodeInvalidPayload) {
					t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidPayload)
				}
				return
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("ValidateHexPayload(%q) = %x, want %x", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateNumberPayload(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{"29", 29, false},
		{" 18446744073709551615 ", 18446744073709551615, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"", 0, true},
		{"18446744073709551616", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateNumberPayload(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateNumberPayload(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateNumberPayload(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateTextPayload(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "hello", false},
		{"multiline", "a\nb\tc", false},
		{"unicode", "marca d'água", false},
		{"empty", "", true},
		{"bell", "a\x07b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTextPayload(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTextPayload(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/graph.bin", false},
		{"absolute", "/tmp/graph.json", false},
		{"empty", "", true},
		{"null byte", "foo\x00bar", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	allowed := map[string]bool{"bin": true, "json": true}

	if err := ValidateFormat("json", allowed); err != nil {
		t.Errorf("ValidateFormat(json) = %v, want nil", err)
	}
	for _, f := range []string{"svg", "", "JSON", "../x"} {
		if err := ValidateFormat(f, allowed); !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) = %v, want %s", f, err, ErrCodeInvalidFormat)
		}
	}
}
