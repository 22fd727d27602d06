// SPDX-License-Identifier: MPL-2.0

// Package textenc decodes server-side text (directory listings, file
// names) into UTF-8 for terminal display. Many FTP servers predate the
// UTF8 feature and emit listings in a legacy code page.
package textenc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned by Lookup for names not in the table.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Decoder converts text from one server encoding to UTF-8. The zero-name
// Decoder passes text through unchanged.
type Decoder struct {
	name string
	enc  encoding.Encoding
}

// Lookup resolves an encoding by name. Names are case-insensitive and
// accept the common aliases. An empty name yields a passthrough Decoder.
func Lookup(name string) (*Decoder, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return &Decoder{}, nil
	}

	var enc encoding.Encoding
	switch trimmed {
	case "utf-8", "utf8", "ascii":
		enc = unicode.UTF8
	case "iso-8859-1", "latin1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	case "big5", "big-5", "cp950", "windows-950":
		enc = traditionalchinese.Big5
	case "ebcdic", "ebcdic-us", "cp037":
		enc = charmap.CodePage037
	case "ebcdic-1047", "cp1047":
		enc = charmap.CodePage1047
	case "ebcdic-1140", "cp1140":
		enc = charmap.CodePage1140
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return &Decoder{name: trimmed, enc: enc}, nil
}

// Name returns the normalized encoding name, or "" for passthrough.
func (d *Decoder) Name() string { return d.name }

// Passthrough reports whether Decode returns its input unchanged.
func (d *Decoder) Passthrough() bool {
	return d.enc == nil || d.enc == unicode.UTF8
}

// Decode converts s to UTF-8. On malformed input the original string is
// returned along with the error, so callers can still display something.
func (d *Decoder) Decode(s string) (string, error) {
	if d.Passthrough() {
		return s, nil
	}
	out, _, err := transform.String(d.enc.NewDecoder(), s)
	if err != nil {
		return s, fmt.Errorf("failed to decode %s text: %w", d.name, err)
	}
	return out, nil
}

// DecodeLines converts each line, best effort: lines that fail to decode
// are kept as-is.
func (d *Decoder) DecodeLines(lines []string) []string {
	if d.Passthrough() {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		decoded, err := d.Decode(line)
		if err != nil {
			out[i] = line
			continue
		}
		out[i] = decoded
	}
	return out
}
