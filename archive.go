package tarlight

import (
	"bytes"
)

// defaultTextMode is the mode given to members created by AddText and SetText.
const defaultTextMode = 0664

// Archive is an ordered, in-memory collection of entries with lookups by
// name. Names need not be unique; lookups return the first match.
//
// An Archive has no internal locking and must not be mutated concurrently.
type Archive struct {
	Entries []*Entry

	// SyncHeaders makes every mutation re-encode the affected entry's Block.
	// When false, Block is left as is until the caller syncs it; Bytes always
	// encodes headers afresh either way.
	SyncHeaders bool
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{}
}

// ParseArchive returns an archive holding the regular file members of data.
func ParseArchive(data []byte) *Archive {
	return &Archive{Entries: Decode(data)}
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.Entries)
}

// Add appends e as is.
func (a *Archive) Add(e *Entry) {
	a.Entries = append(a.Entries, e)
}

// AddText appends a regular file member named name holding text.
func (a *Archive) AddText(name, text string) {
	a.AddData(name, []byte(text))
}

// AddData appends a regular file member named name holding a copy of data.
func (a *Archive) AddData(name string, data []byte) {
	e := NewEntry(name, defaultTextMode, data)
	if a.SyncHeaders {
		e.Sync()
	}
	a.Entries = append(a.Entries, e)
}

// Find returns the first entry named name, or nil.
func (a *Archive) Find(name string) *Entry {
	for _, e := range a.Entries {
		if e.Header.Name == name {
			return e
		}
	}
	return nil
}

// SetText replaces the payload of the first entry named name with text, or
// appends a new member if there is none.
func (a *Archive) SetText(name, text string) {
	a.SetData(name, []byte(text))
}

// SetData is SetText for arbitrary bytes.
func (a *Archive) SetData(name string, data []byte) {
	e := a.Find(name)
	if e == nil {
		a.AddData(name, data)
		return
	}
	e.Data = append([]byte(nil), data...)
	e.Header.Size = uint64(len(e.Data))
	if a.SyncHeaders {
		e.Sync()
	}
}

// Text returns the payload of the first entry named name with trailing NULs
// removed. The bytes are returned as is, so invalid UTF-8 is not replaced.
// The boolean is false if there is no such entry.
func (a *Archive) Text(name string) (string, bool) {
	e := a.Find(name)
	if e == nil {
		return "", false
	}
	return string(bytes.TrimRight(e.Data, "\x00")), true
}

// Bytes encodes the archive.
func (a *Archive) Bytes() []byte {
	return Encode(a.Entries)
}
