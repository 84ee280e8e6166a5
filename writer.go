/*
Copyright (c) 2013 Blake Smith <blakesmith0@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package tarlight

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Writer provides sequential writing of a USTAR archive.
// Call WriteHeader to begin a new member, then Write to supply its payload.
// Close appends the two-block terminator.
//
// Example:
//
//	tw := tarlight.NewWriter(w)
//	hdr := tarlight.NewHeader("hello.txt", 0644, 12)
//	if err := tw.WriteHeader(hdr); err != nil {
//		return err
//	}
//	if _, err := tw.Write([]byte("Hello, World")); err != nil {
//		return err
//	}
//	return tw.Close()
type Writer struct {
	// w is the underlying io.Writer to which the archive is written.
	w io.Writer

	// closed is true if Close has been called on this Writer.
	closed bool

	// inEntry is true between a call to WriteHeader and the padding that ends the member.
	inEntry bool

	// nb is the number of payload bytes written since the most recent call to WriteHeader.
	// Padding is computed from it, not from the size declared in the header.
	nb int64
}

// NewWriter creates a new Writer that writes a USTAR archive to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader pads out the previous member and writes a freshly encoded header block for hdr.
func (tw *Writer) WriteHeader(hdr *Header) error {
	if tw.closed {
		return ErrWriteAfterClose
	}
	if err := tw.pad(); err != nil {
		return err
	}
	block := hdr.Encode()
	if _, err := tw.w.Write(block[:]); err != nil {
		return fmt.Errorf("tarlight: write header: %w", err)
	}
	tw.inEntry = true
	return nil
}

// Write writes payload bytes for the current member. The header's declared
// size is not enforced.
func (tw *Writer) Write(b []byte) (int, error) {
	if tw.closed {
		return 0, ErrWriteAfterClose
	}
	if !tw.inEntry {
		return 0, ErrWriteBeforeHeader
	}
	n, err := tw.w.Write(b)
	tw.nb += int64(n)
	return n, err
}

// Close pads out the last member and writes the terminator. It does not close the underlying io.Writer.
func (tw *Writer) Close() error {
	if tw.closed {
		return ErrWriterClosed
	}
	if err := tw.pad(); err != nil {
		return err
	}
	tw.closed = true
	for i := 0; i < 2; i++ {
		if _, err := tw.w.Write(zeroBlock[:]); err != nil {
			return fmt.Errorf("tarlight: write terminator: %w", err)
		}
	}
	return nil
}

func (tw *Writer) pad() error {
	if !tw.inEntry {
		return nil
	}
	n := paddingSize(tw.nb)
	tw.inEntry = false
	tw.nb = 0
	if n == 0 {
		return nil
	}
	if _, err := tw.w.Write(zeroBlock[:n]); err != nil {
		return fmt.Errorf("tarlight: write padding: %w", err)
	}
	return nil
}

// Encode serialises entries into a complete archive, terminator included.
//
// Every header block is encoded afresh from Entry.Header; Entry.Block is
// ignored. Only the bytes present in Entry.Data are written, whatever size
// the header declares.
func Encode(entries []*Entry) []byte {
	total := 2 * BlockSize
	for _, e := range entries {
		total += BlockSize + len(e.Data) + int(paddingSize(int64(len(e.Data))))
	}

	var buf bytes.Buffer
	buf.Grow(total)
	tw := NewWriter(&buf)
	for _, e := range entries {
		_ = tw.WriteHeader(&e.Header)
		_, _ = tw.Write(e.Data)
	}
	_ = tw.Close()
	return buf.Bytes()
}

// Encode returns the header block for h. Magic and version are always
// "ustar" and "00"; the checksum is computed over the encoded block and the
// value in h.Checksum is ignored. Values wider than their field are cut to
// the field width.
func (h *Header) Encode() [BlockSize]byte {
	var block [BlockSize]byte

	hc := *h
	hc.Magic = magicUSTAR
	hc.Version = versionUSTAR
	for _, f := range hc.layout() {
		if f.field == fieldChecksum {
			continue
		}
		b := f.slice(block[:])
		switch f.kind {
		case textField:
			copy(b, truncateToWidth([]byte(*f.text), f.size))
		case octalField:
			var v uint64
			if f.u32 != nil {
				v = uint64(*f.u32)
			} else {
				v = *f.u64
			}
			copy(b, truncateToWidth(formatOctal(v), f.size))
		case byteField:
			b[0] = *f.b
		}
	}

	sum := fmt.Sprintf("%06o\x00 ", Checksum(block[:]))
	copy(fieldChecksum.slice(block[:]), truncateToWidth([]byte(sum), fieldChecksum.size))
	return block
}

// truncateToWidth cuts b to at most width bytes.
func truncateToWidth(b []byte, width int) []byte {
	if len(b) > width {
		return b[:width]
	}
	return b
}

// formatOctal renders v as unpadded octal digits.
func formatOctal(v uint64) []byte {
	return []byte(strconv.FormatUint(v, 8))
}
