package tarlight

import (
	"errors"
	"fmt"
)

var (
	// ErrWriteAfterClose is returned when a Writer is used after Close.
	ErrWriteAfterClose = errors.New("tarlight: write after close")

	// ErrWriterClosed is returned when Close is called twice on a Writer.
	ErrWriterClosed = errors.New("tarlight: writer closed twice")

	// ErrWriteBeforeHeader is returned when payload is written before any header.
	ErrWriteBeforeHeader = errors.New("tarlight: write before header")

	// ErrAbsoluteName marks an entry name that starts at the filesystem root.
	ErrAbsoluteName = errors.New("absolute name")

	// ErrEscapesRoot marks an entry name with a ".." element.
	ErrEscapesRoot = errors.New("name escapes the output root")

	// ErrEmptyName marks an entry name that resolves to nothing.
	ErrEmptyName = errors.New("empty name")
)

// ErrUnsafeName indicates an entry whose name cannot be joined safely onto an extraction root.
type ErrUnsafeName struct {
	Name string
	Err  error
}

func (e *ErrUnsafeName) Error() string {
	return fmt.Sprintf("tarlight: archive member '%s': %s", e.Name, e.Err)
}

func (e *ErrUnsafeName) Unwrap() error {
	return e.Err
}
