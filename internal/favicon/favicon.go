// Package favicon extracts the image bytes of a server favicon data URI.
package favicon

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Prefix is the only data URI form servers send.
const Prefix = "data:image/png;base64,"

var (
	// ErrEmpty is returned when the server has no favicon.
	ErrEmpty = errors.New("favicon is empty")

	// ErrFormat is returned for anything but a base64 PNG data URI.
	ErrFormat = errors.New("favicon is not a png data uri")
)

// Decode returns the PNG bytes of a data:image/png;base64 URI.
// Line breaks inserted by some server software are ignored.
func Decode(uri string) ([]byte, error) {
	if uri == "" {
		return nil, ErrEmpty
	}
	if !strings.HasPrefix(uri, Prefix) {
		return nil, ErrFormat
	}

	data := strings.NewReplacer("\n", "", "\r", "").Replace(uri[len(Prefix):])

	img, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.Join(ErrFormat, err)
	}

	return img, nil
}
