package printer

import (
	"unicode"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/memtag/track"
)

// FormatTag renders the four raw tag bytes for display. Tags carry no
// encoding, so this is best-effort: printable ASCII passes through
// unchanged, extended bytes (0x80-0xFF) go through the Windows-1252 decoder,
// and anything unprintable becomes '.'.
func FormatTag(tag track.Tag) string {
	if isPrintableASCII(tag[:]) {
		return string(tag[:])
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(tag[:])
	if err != nil {
		return dots(tag[:])
	}
	out := make([]rune, 0, len(tag))
	for _, r := range string(decoded) {
		if unicode.IsPrint(r) {
			out = append(out, r)
		} else {
			out = append(out, '.')
		}
	}
	return string(out)
}

// isPrintableASCII reports whether every byte is printable 7-bit ASCII,
// the fast path that needs no decoding.
func isPrintableASCII(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

func dots(b []byte) string {
	out := make([]byte, len(b))
	for i := range out {
		out[i] = '.'
	}
	return string(out)
}
