package repodata

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// IndexFile is the name of the file which the repository index is written to.
const IndexFile = "repodata.json"

// Add appends the package to the index, unless the package has no versions.
func (idx Index) Add(p *Package) (Index, bool) {
	if len(p.Versions) == 0 {
		return idx, false
	}
	return append(idx, p), true
}

// Encode writes the index as a compact JSON array of ASCII text, without a trailing newline.
func (idx Index) Encode(w io.Writer) error {
	if idx == nil {
		idx = Index{}
	}
	encoded, err := marshal(idx)
	if err != nil {
		return errors.Wrap(err, "couldn't serialize repository index")
	}
	if _, err = w.Write(escapeNonASCII(encoded)); err != nil {
		return errors.Wrap(err, "couldn't write repository index")
	}
	return nil
}

// escapeNonASCII replaces every non-ASCII character of the JSON text with its \u escape sequence,
// using surrogate pairs outside the Basic Multilingual Plane. In valid JSON such characters only
// occur within strings.
func escapeNonASCII(encoded []byte) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(encoded)))
	for len(encoded) > 0 {
		r, size := utf8.DecodeRune(encoded)
		switch {
		case r < utf8.RuneSelf:
			buf.WriteByte(encoded[0])
		case r > 0xffff:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(buf, `\u%04x\u%04x`, r1, r2)
		default:
			fmt.Fprintf(buf, `\u%04x`, r)
		}
		encoded = encoded[size:]
	}
	return buf.Bytes()
}
