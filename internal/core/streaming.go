package core

// streaming.go cleans up text uploads before they reach encoding/csv.
//
// Spreadsheet exports from Windows often start with a UTF-8 BOM, and files
// saved in a legacy code page carry bytes that are not valid UTF-8. Both are
// handled while reading:
//
//   - the BOM (0xEF 0xBB 0xBF) is dropped if it is the first thing in the stream
//   - every invalid byte becomes U+FFFD
//
// Use newTextReader to apply both in the correct order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// newTextReader wraps r so that reads yield BOM-free, valid UTF-8.
func newTextReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return &utf8Sanitizer{src: br}
}

// utf8Sanitizer re-encodes its input rune by rune. bufio.Reader.ReadRune
// reports an invalid byte as (RuneError, 1), which re-encodes as U+FFFD.
type utf8Sanitizer struct {
	src *bufio.Reader

	// Bytes of an encoded rune that did not fit the caller's buffer.
	pending []byte
}

// Read implements io.Reader.
func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.pending) > 0 {
			c := copy(p[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}

		r, _, err := s.src.ReadRune()
		if err != nil {
			if n > 0 {
				// Deliver what we have; the error repeats on the next call.
				return n, nil
			}
			return 0, err
		}

		var buf [utf8.UTFMax]byte
		w := utf8.EncodeRune(buf[:], r)
		c := copy(p[n:], buf[:w])
		n += c
		if c < w {
			s.pending = append(s.pending[:0], buf[c:w]...)
		}
	}
	return n, nil
}
