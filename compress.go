package tarlight

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

var gzipSuffixes = []string{".tar.gz", ".tgz"}

// IsCompressed reports whether an archive file name calls for gzip compression.
func IsCompressed(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range gzipSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Compress returns data wrapped in a gzip stream.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, errors.Wrap(err, "gzip write")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "gzip close")
	}
	return buf.Bytes(), nil
}

// Decompress unwraps a gzip stream.
func Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "gzip header")
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "gzip read")
	}
	return out, nil
}

// Load reads the archive file name, decompressing it if its suffix says so.
func Load(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read archive %s", name)
	}
	if !IsCompressed(name) {
		return data, nil
	}
	data, err = Decompress(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress archive %s", name)
	}
	return data, nil
}

// Save writes an encoded archive to the file name, compressing it if its suffix says so.
func Save(name string, data []byte, perm os.FileMode) error {
	if IsCompressed(name) {
		var err error
		if data, err = Compress(data); err != nil {
			return errors.Wrapf(err, "compress archive %s", name)
		}
	}
	if err := os.WriteFile(name, data, perm); err != nil {
		return errors.Wrapf(err, "write archive %s", name)
	}
	return nil
}

// ReadFile loads the archive file name into an Archive.
func ReadFile(name string) (*Archive, error) {
	data, err := Load(name)
	if err != nil {
		return nil, err
	}
	return ParseArchive(data), nil
}

// WriteFile encodes a and saves it to the file name.
func WriteFile(name string, a *Archive, perm os.FileMode) error {
	return Save(name, a.Bytes(), perm)
}
