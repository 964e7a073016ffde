package ingest

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"advisorcli/internal/errors"
)

// utf8BOM is the byte-order mark some Windows exports prepend. It must be
// stripped before tabular parsing or it corrupts the first header cell.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decoder converts raw upload bytes to text by trying candidate encodings
// in configured order. The first encoding that decodes cleanly wins.
type Decoder struct {
	encodings []string
}

// NewDecoder creates a decoder with the given candidate encoding names.
// Recognized names: utf-8, latin-1/iso-8859-1, windows-1252/cp1252.
func NewDecoder(encodings []string) *Decoder {
	if len(encodings) == 0 {
		encodings = []string{"utf-8", "latin-1", "windows-1252"}
	}
	return &Decoder{encodings: encodings}
}

// Decode returns the file content as a UTF-8 string.
func (d *Decoder) Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	for _, name := range d.encodings {
		switch canonicalEncoding(name) {
		case "utf-8":
			if utf8.Valid(data) {
				return string(data), nil
			}
		case "latin-1":
			if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
				return string(decoded), nil
			}
		case "windows-1252":
			if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
				return string(decoded), nil
			}
		}
	}

	return "", errors.NewUndecodableError(d.encodings)
}

func canonicalEncoding(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return "utf-8"
	case "latin-1", "latin1", "iso-8859-1":
		return "latin-1"
	case "windows-1252", "cp1252":
		return "windows-1252"
	}
	return ""
}
