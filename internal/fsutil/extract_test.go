package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/please-build/tarlight"
)

func TestSanitizeName(t *testing.T) {
	for _, tc := range []struct {
		Name     string
		Expected string
		Err      error
	}{
		{"file.txt", "file.txt", nil},
		{"a/b/c.txt", "a/b/c.txt", nil},
		{"./a//b.txt", "a/b.txt", nil},
		{"../../../etc/passwd", "", tarlight.ErrEscapesRoot},
		{"../../secret.txt", "", tarlight.ErrEscapesRoot},
		{"subdir/../../outside.txt", "", tarlight.ErrEscapesRoot},
		{`..\..\windows\path.txt`, "", tarlight.ErrEscapesRoot},
		{"/absolute/path/file.txt", "", tarlight.ErrAbsoluteName},
		{"", "", tarlight.ErrEmptyName},
		{"./", "", tarlight.ErrEmptyName},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := SanitizeName(tc.Name)
			if tc.Err != nil {
				assert.ErrorIs(t, err, tc.Err)
				var unsafe *tarlight.ErrUnsafeName
				require.ErrorAs(t, err, &unsafe)
				assert.Equal(t, tc.Name, unsafe.Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, got)
		})
	}
}

func TestExtract(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	entries := []*tarlight.Entry{
		tarlight.NewEntry("top.txt", 0600, []byte("top")),
		tarlight.NewEntry("nested/dir/file.txt", 0, []byte("nested")),
	}

	result, err := Extract(root, entries)
	require.NoError(t, err)
	assert.Equal(t, []string{"top.txt", "nested/dir/file.txt"}, result.Extracted)
	assert.Empty(t, result.Skipped)

	data, err := os.ReadFile(filepath.Join(root, "top.txt"))
	require.NoError(t, err)
	assert.Equal(t, "top", string(data))

	info, err := os.Stat(filepath.Join(root, "top.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err = os.ReadFile(filepath.Join(root, "nested", "dir", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "nested", string(data))
}

func TestExtractRejectsUnsafeNames(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "out")
	entries := []*tarlight.Entry{
		tarlight.NewEntry("../escape.txt", 0644, []byte("evil")),
		tarlight.NewEntry("/abs.txt", 0644, []byte("evil")),
		tarlight.NewEntry("fine.txt", 0644, []byte("fine")),
	}

	result, err := Extract(root, entries)
	require.Error(t, err)
	assert.ErrorIs(t, err, tarlight.ErrEscapesRoot)
	assert.ErrorIs(t, err, tarlight.ErrAbsoluteName)
	assert.Equal(t, []string{"fine.txt"}, result.Extracted)
	assert.Equal(t, []string{"../escape.txt", "/abs.txt"}, result.Skipped)

	_, statErr := os.Stat(filepath.Join(base, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractDoesNotFollowSymlinkOutOfRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "out")
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.MkdirAll(outside, 0755))
	require.NoError(t, os.Symlink("../outside", filepath.Join(root, "link")))

	_, err := Extract(root, []*tarlight.Entry{tarlight.NewEntry("link/x.txt", 0644, []byte("x"))})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(outside, "x.txt"))
	assert.True(t, os.IsNotExist(statErr))
	data, err := os.ReadFile(filepath.Join(root, "outside", "x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestExtractIgnoresOSSymlinksOnOtherFs(t *testing.T) {
	root := t.TempDir()
	if err := os.Symlink(t.TempDir(), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks not supported: %s", err)
	}

	fs := afero.NewMemMapFs()
	_, err := Extract(root, []*tarlight.Entry{tarlight.NewEntry("link/x.txt", 0644, []byte("x"))}, WithFs(fs))
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, filepath.Join(root, "link", "x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestExtractOverwritePolicies(t *testing.T) {
	for _, tc := range []struct {
		Description string
		Opts        []Option
		Expected    string
		Extracted   bool
	}{
		{"always", nil, "new", true},
		{"never", []Option{WithOverwrite(OverwriteNever)}, "old", false},
		{"prompt yes", []Option{WithOverwrite(OverwritePrompt), WithPrompter(func(string) (bool, error) { return true, nil })}, "new", true},
		{"prompt no", []Option{WithOverwrite(OverwritePrompt), WithPrompter(func(string) (bool, error) { return false, nil })}, "old", false},
	} {
		t.Run(tc.Description, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), "out")
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, filepath.Join(root, "f.txt"), []byte("old"), 0644))

			opts := append([]Option{WithFs(fs)}, tc.Opts...)
			result, err := Extract(root, []*tarlight.Entry{tarlight.NewEntry("f.txt", 0644, []byte("new"))}, opts...)
			require.NoError(t, err)

			data, err := afero.ReadFile(fs, filepath.Join(root, "f.txt"))
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, string(data))
			if tc.Extracted {
				assert.Equal(t, []string{"f.txt"}, result.Extracted)
			} else {
				assert.Equal(t, []string{"f.txt"}, result.Skipped)
			}
		})
	}
}

func TestExtractPromptError(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(root, "f.txt"), []byte("old"), 0644))
	boom := errors.New("stdin closed")

	_, err := Extract(root, []*tarlight.Entry{tarlight.NewEntry("f.txt", 0644, []byte("new"))},
		WithFs(fs), WithOverwrite(OverwritePrompt), WithPrompter(func(string) (bool, error) { return false, boom }))
	assert.ErrorIs(t, err, boom)
}

func TestExtractPromptNeedsPrompter(t *testing.T) {
	_, err := Extract("/out", nil, WithFs(afero.NewMemMapFs()), WithOverwrite(OverwritePrompt))
	assert.Error(t, err)
}

func TestParseOverwritePolicy(t *testing.T) {
	for _, p := range []OverwritePolicy{OverwriteAlways, OverwriteNever, OverwritePrompt} {
		got, err := ParseOverwritePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParseOverwritePolicy("NEVER")
	require.NoError(t, err)
	assert.Equal(t, OverwriteNever, got)

	_, err = ParseOverwritePolicy("sometimes")
	assert.Error(t, err)
}
