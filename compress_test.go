package tarlight

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCompressed(t *testing.T) {
	for name, want := range map[string]bool{
		"a.tar":         false,
		"a.tar.gz":      true,
		"a.tgz":         true,
		"A.TGZ":         true,
		"a.gz":          false,
		"dir.tgz/a.tar": false,
	} {
		assert.Equal(t, want, IsCompressed(name), name)
	}
}

func TestCompressRoundTrip(t *testing.T) {
	data := Encode([]*Entry{NewEntry("hello.txt", 0644, []byte("Hello, World"))})

	compressed, err := Compress(data)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(data))

	out, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestDecompressGarbage(t *testing.T) {
	_, err := Decompress([]byte("not gzip"))
	assert.Error(t, err)
}

func TestLoadCompressedFixture(t *testing.T) {
	plain, err := Load("./testdata/test.tar")
	require.NoError(t, err)
	unzipped, err := Load("./testdata/test.tgz")
	require.NoError(t, err)
	assert.Equal(t, plain, unzipped)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.tar"))
	assert.Error(t, err)
}

func TestWriteFileReadFile(t *testing.T) {
	for _, name := range []string{"kv.tar", "kv.tar.gz", "kv.tgz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			a := NewArchive()
			a.SetText("k", "v")
			require.NoError(t, WriteFile(path, a, 0644))

			raw, err := Load(path)
			require.NoError(t, err)
			assert.Len(t, raw, 4*BlockSize)

			b, err := ReadFile(path)
			require.NoError(t, err)
			text, ok := b.Text("k")
			assert.True(t, ok)
			assert.Equal(t, "v", text)
		})
	}
}
