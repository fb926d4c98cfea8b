package core

// streaming.go wraps task sources so the CSV reader sees clean UTF-8:
//
//   - BOMSkippingReader drops a leading UTF-8 byte order mark
//   - UTF8Sanitizer replaces invalid byte sequences with '?'
//
// Both work on a bufio.Reader, so memory stays bounded by the buffer size
// regardless of source length.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader strips the UTF-8 BOM that spreadsheet tools on Windows
// prepend to exported files. Without it the first header would read
// "\ufeffname" and never match.
type BOMSkippingReader struct {
	br      *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader. The first call discards the BOM if present.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		head, err := r.br.Peek(len(utf8BOM))
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := r.br.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.br.Read(p)
}

// UTF8Sanitizer replaces each invalid UTF-8 byte with '?' while streaming.
type UTF8Sanitizer struct {
	br *bufio.Reader

	// Encoded rune that did not fit into the caller's buffer.
	spill []byte
}

// NewUTF8Sanitizer creates a new streaming UTF-8 sanitizer.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{br: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := copy(p, s.spill)
	s.spill = s.spill[n:]
	if len(s.spill) > 0 {
		return n, nil
	}

	var enc [utf8.UTFMax]byte
	for n < len(p) {
		r, size, err := s.br.ReadRune()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}

		if r == utf8.RuneError && size == 1 {
			r = '?'
		}

		w := utf8.EncodeRune(enc[:], r)
		c := copy(p[n:], enc[:w])
		n += c
		if c < w {
			s.spill = append(s.spill[:0], enc[c:w]...)
			break
		}

		// Return what we have rather than block on the next rune.
		if s.br.Buffered() == 0 {
			break
		}
	}

	return n, nil
}

// NewSourceReader applies BOM stripping then UTF-8 sanitization.
func NewSourceReader(r io.Reader) io.Reader {
	return NewUTF8Sanitizer(NewBOMSkippingReader(r))
}
