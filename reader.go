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
	"io"
	"strconv"
	"strings"
)

// Reader scans an in-memory USTAR archive one member at a time.
//
// Example:
//
//	rd := NewReader(data)
//	for {
//	    e, err := rd.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    fmt.Println(e.Header.Name, len(e.Data))
//	}
//	if rd.Truncated() {
//	    // the last member declared more payload than the archive holds
//	}
type Reader struct {
	// data is the whole archive. It is never modified and never referenced by returned entries.
	data []byte

	// off is the offset of the next header block in data.
	off int

	// done is set once the end of the archive has been reached.
	done bool

	// truncated is set when the scan stopped on a member whose payload runs past the end of data.
	truncated bool
}

// NewReader creates a new Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Next returns the next member of the archive, whatever its type. io.EOF is
// returned at the terminator block, when fewer than BlockSize bytes remain,
// or when a member's declared size does not fit in the remaining input. No
// other error is ever returned.
func (rd *Reader) Next() (*Entry, error) {
	if rd.done || len(rd.data)-rd.off < BlockSize {
		rd.done = true
		return nil, io.EOF
	}

	block := rd.data[rd.off : rd.off+BlockSize]
	if isZeroBlock(block) {
		rd.done = true
		return nil, io.EOF
	}

	header := ParseHeader(block)
	start := rd.off + BlockSize
	// The declared size is untrusted, so it is only ever compared against
	// what is actually left in the input before anything is allocated.
	if header.Size > uint64(len(rd.data)-start) {
		rd.done = true
		rd.truncated = true
		return nil, io.EOF
	}
	size := int(header.Size)

	e := &Entry{
		Header: header,
		Data:   make([]byte, size),
	}
	copy(e.Data, rd.data[start:start+size])
	copy(e.Block[:], block)

	rd.off = start + size + int(paddingSize(int64(size)))
	return e, nil
}

// Truncated reports whether the scan stopped because a member's payload ran past the end of the input.
func (rd *Reader) Truncated() bool {
	return rd.truncated
}

// Decode returns the regular file members of an archive in archive order.
//
// Members of any other type are consumed and dropped. A truncated archive
// yields the members decoded before the damaged one. Decode never fails.
func Decode(data []byte) []*Entry {
	var entries []*Entry
	rd := NewReader(data)
	for {
		e, err := rd.Next()
		if err != nil {
			break
		}
		if e.Header.IsRegular() {
			entries = append(entries, e)
		}
	}
	return entries
}

// ParseHeader decodes a header block. A block shorter than BlockSize is
// treated as if padded with zeros. Malformed numeric fields decode to zero.
func ParseHeader(block []byte) Header {
	var buf [BlockSize]byte
	copy(buf[:], block)

	var h Header
	for _, f := range h.layout() {
		b := f.slice(buf[:])
		switch f.kind {
		case textField:
			*f.text = trimField(b)
		case octalField:
			if f.u32 != nil {
				*f.u32 = uint32(parseOctalOrZero(b, 32))
			} else {
				*f.u64 = parseOctalOrZero(b, 64)
			}
		case byteField:
			*f.b = b[0]
		}
	}
	return h
}

// VerifyChecksum reports whether the checksum recorded in h matches the one
// computed over block.
func (h *Header) VerifyChecksum(block []byte) bool {
	return Checksum(block) == h.Checksum
}

// trimField returns the text of a field with trailing NULs and surrounding whitespace removed.
func trimField(b []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(b), "\x00"))
}

// parseOctalOrZero parses a numeric field as octal text. Empty, malformed
// and out of range values are zero. The checksum field's "NUL space" tail
// is stripped as well.
func parseOctalOrZero(b []byte, bitSize int) uint64 {
	s := strings.TrimSpace(strings.TrimRight(trimField(b), "\x00"))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseUint(s, 8, bitSize)
	if err != nil {
		return 0
	}
	return n
}
