package tarlight

import (
	"time"
)

const (
	// BlockSize is the size of every header block, padding unit and terminator block.
	BlockSize = 512

	magicUSTAR   = "ustar"
	versionUSTAR = "00"
)

// Type flags recognised in the typeflag byte of a header.
const (
	TypeReg           byte = '0'
	TypeRegA          byte = '\x00' // legacy regular file
	TypeLink          byte = '1'
	TypeSymlink       byte = '2'
	TypeChar          byte = '3'
	TypeBlock         byte = '4'
	TypeDir           byte = '5'
	TypeFifo          byte = '6'
	TypeCont          byte = '7'
	TypeXHeader       byte = 'x'
	TypeXGlobalHeader byte = 'g'
)

type fieldKind int

const (
	textField fieldKind = iota
	octalField
	byteField
)

// field describes one fixed byte range of a header block.
type field struct {
	off  int
	size int
	kind fieldKind
}

func (f field) slice(b []byte) []byte {
	return b[f.off : f.off+f.size]
}

var (
	fieldName     = field{0, 100, textField}
	fieldMode     = field{100, 8, octalField}
	fieldUid      = field{108, 8, octalField}
	fieldGid      = field{116, 8, octalField}
	fieldSize     = field{124, 12, octalField}
	fieldMtime    = field{136, 12, octalField}
	fieldChecksum = field{148, 8, octalField}
	fieldTypeflag = field{156, 1, byteField}
	fieldLinkname = field{157, 100, textField}
	fieldMagic    = field{257, 6, textField}
	fieldVersion  = field{263, 2, textField}
	fieldUname    = field{265, 32, textField}
	fieldGname    = field{297, 32, textField}
	fieldDevmajor = field{329, 8, octalField}
	fieldDevminor = field{337, 8, octalField}
	fieldPrefix   = field{345, 155, textField}
)

// Header is the structured form of a 512-byte USTAR header block.
type Header struct {
	Name     string
	Mode     uint32
	Uid      uint32
	Gid      uint32
	Size     uint64
	Mtime    uint64 // seconds since the epoch
	Checksum uint32
	Typeflag byte
	Linkname string
	Magic    string
	Version  string
	Uname    string
	Gname    string
	Devmajor uint32
	Devminor uint32
	Prefix   string
}

// NewHeader returns a regular file header with every other field set to its default.
func NewHeader(name string, mode uint32, size uint64) *Header {
	return &Header{
		Name:     name,
		Mode:     mode,
		Size:     size,
		Typeflag: TypeReg,
		Magic:    magicUSTAR,
		Version:  versionUSTAR,
	}
}

// ModTime returns Mtime as a time.Time.
func (h *Header) ModTime() time.Time {
	return time.Unix(int64(h.Mtime), 0)
}

// IsRegular reports whether the header describes a regular file.
func (h *Header) IsRegular() bool {
	return h.Typeflag == TypeReg || h.Typeflag == TypeRegA
}

// boundField ties a field of the block layout to the Header member that holds it.
// Exactly one of the pointers is set, matching the field kind and width.
type boundField struct {
	field
	text *string
	u32  *uint32
	u64  *uint64
	b    *byte
}

// layout returns the full block layout bound to h, in on-disk order.
func (h *Header) layout() []boundField {
	return []boundField{
		{field: fieldName, text: &h.Name},
		{field: fieldMode, u32: &h.Mode},
		{field: fieldUid, u32: &h.Uid},
		{field: fieldGid, u32: &h.Gid},
		{field: fieldSize, u64: &h.Size},
		{field: fieldMtime, u64: &h.Mtime},
		{field: fieldChecksum, u32: &h.Checksum},
		{field: fieldTypeflag, b: &h.Typeflag},
		{field: fieldLinkname, text: &h.Linkname},
		{field: fieldMagic, text: &h.Magic},
		{field: fieldVersion, text: &h.Version},
		{field: fieldUname, text: &h.Uname},
		{field: fieldGname, text: &h.Gname},
		{field: fieldDevmajor, u32: &h.Devmajor},
		{field: fieldDevminor, u32: &h.Devminor},
		{field: fieldPrefix, text: &h.Prefix},
	}
}

// Entry is one archive member: its header, its payload and the raw header block.
//
// Block is a cache of the encoded header. It holds the block as it was read
// by a Reader, or the result of the last Sync. Encode never uses it.
type Entry struct {
	Header Header
	Data   []byte
	Block  [BlockSize]byte
}

// NewEntry returns a regular file entry named name holding a copy of data.
func NewEntry(name string, mode uint32, data []byte) *Entry {
	e := &Entry{
		Header: *NewHeader(name, mode, uint64(len(data))),
		Data:   append([]byte(nil), data...),
	}
	return e
}

// Sync re-encodes the header into Block and records the resulting checksum,
// magic and version on the header.
func (e *Entry) Sync() {
	e.Block = e.Header.Encode()
	e.Header.Checksum = Checksum(e.Block[:])
	e.Header.Magic = magicUSTAR
	e.Header.Version = versionUSTAR
}

var zeroBlock [BlockSize]byte

// paddingSize returns the number of zero bytes needed to align size to a block boundary.
func paddingSize(size int64) int64 {
	return (BlockSize - size%BlockSize) % BlockSize
}

func isZeroBlock(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
