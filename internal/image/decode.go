package image

import (
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

// Payload strips a data-URI prefix: when the string contains a comma only the
// content after the first comma is kept.
func Payload(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}

// PayloadBytes base64-decodes a raw or data-URI payload. Whitespace is
// ignored and unpadded input is accepted.
func PayloadBytes(s string) ([]byte, error) {
	raw := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, Payload(s))
	if raw == "" {
		return nil, errors.Wrap(ErrUndecodable, "empty payload")
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err == nil {
		return data, nil
	}
	data, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
	if rawErr == nil {
		return data, nil
	}
	return nil, errors.Wrapf(ErrUndecodable, "%v", err)
}

// DecodeBase64 decodes a raw base64 or data-URI image payload into a Raster.
// Every failure wraps ErrUndecodable.
func DecodeBase64(s string) (*Raster, error) {
	data, err := PayloadBytes(s)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}
