package fsutil

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/please-build/tarlight"
)

// defaultFileMode is used for entries whose header carries no permission bits.
const defaultFileMode os.FileMode = 0644

// OverwritePolicy decides what Extract does when a target file already exists.
type OverwritePolicy int

const (
	// OverwriteAlways replaces existing files.
	OverwriteAlways OverwritePolicy = iota

	// OverwriteNever leaves existing files alone and skips the entry.
	OverwriteNever

	// OverwritePrompt asks the configured Prompter for every existing file.
	OverwritePrompt
)

var overwritePolicyNames = map[OverwritePolicy]string{
	OverwriteAlways: "always",
	OverwriteNever:  "never",
	OverwritePrompt: "prompt",
}

func (p OverwritePolicy) String() string {
	if name, ok := overwritePolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("OverwritePolicy(%d)", int(p))
}

// ParseOverwritePolicy parses "always", "never" or "prompt".
func ParseOverwritePolicy(s string) (OverwritePolicy, error) {
	for p, name := range overwritePolicyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("fsutil: unknown overwrite policy %q", s)
}

// Prompter is asked whether the existing file at path may be overwritten.
type Prompter func(path string) (bool, error)

// Result lists what Extract did, by entry name.
type Result struct {
	Extracted []string
	Skipped   []string
}

// SanitizeName returns the cleaned, slash-separated form of an entry name,
// or an *tarlight.ErrUnsafeName if the name is absolute, empty, or has a ".."
// element. Backslashes count as separators for the check.
func SanitizeName(name string) (string, error) {
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) || filepath.IsAbs(name) {
		return "", &tarlight.ErrUnsafeName{Name: name, Err: tarlight.ErrAbsoluteName}
	}
	for _, elem := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if elem == ".." {
			return "", &tarlight.ErrUnsafeName{Name: name, Err: tarlight.ErrEscapesRoot}
		}
	}
	cleaned := path.Clean(name)
	if cleaned == "." {
		return "", &tarlight.ErrUnsafeName{Name: name, Err: tarlight.ErrEmptyName}
	}
	return cleaned, nil
}

// Extract writes each entry's payload to a file under root, creating root
// and intermediate directories as needed.
//
// On the OS filesystem the target is joined with securejoin, so symlinks
// inside root cannot lead out of it. Other filesystems set with WithFs only
// get the lexical checks of SanitizeName.
//
// Entries with unsafe names and entries that fail to write are skipped;
// their errors are collected into the returned error while extraction
// carries on with the remaining entries.
func Extract(root string, entries []*tarlight.Entry, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)
	if cfg.overwrite == OverwritePrompt && cfg.prompt == nil {
		return nil, errors.New("fsutil: overwrite policy prompt needs a prompter")
	}
	if err := cfg.fs.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, "create output directory %s", root)
	}

	result := &Result{}
	var errs *multierror.Error
	for _, e := range entries {
		if err := cfg.extractEntry(root, e, result); err != nil {
			cfg.logger.WithField("name", e.Header.Name).WithError(err).Warn("not extracted")
			errs = multierror.Append(errs, err)
		}
	}
	return result, errs.ErrorOrNil()
}

func (c *config) extractEntry(root string, e *tarlight.Entry, result *Result) error {
	name, err := SanitizeName(e.Header.Name)
	if err != nil {
		result.Skipped = append(result.Skipped, e.Header.Name)
		return err
	}
	target, err := c.join(root, name)
	if err != nil {
		result.Skipped = append(result.Skipped, e.Header.Name)
		return errors.Wrapf(err, "resolve %s", name)
	}

	if _, err := c.fs.Stat(target); err == nil {
		ok, err := c.mayOverwrite(target)
		if err != nil {
			result.Skipped = append(result.Skipped, e.Header.Name)
			return err
		}
		if !ok {
			c.logger.WithField("path", target).Info("exists, skipped")
			result.Skipped = append(result.Skipped, e.Header.Name)
			return nil
		}
	}

	if err := c.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		result.Skipped = append(result.Skipped, e.Header.Name)
		return errors.Wrapf(err, "create directory for %s", name)
	}
	mode := os.FileMode(e.Header.Mode).Perm()
	if mode == 0 {
		mode = defaultFileMode
	}
	if err := afero.WriteFile(c.fs, target, e.Data, mode); err != nil {
		result.Skipped = append(result.Skipped, e.Header.Name)
		return errors.Wrapf(err, "write %s", name)
	}
	c.logger.WithField("path", target).Debug("extracted")
	result.Extracted = append(result.Extracted, e.Header.Name)
	return nil
}

// join resolves a sanitized name under root. Symlinks are only resolved on
// the OS filesystem; any other afero.Fs gets a lexical join.
func (c *config) join(root, name string) (string, error) {
	if _, ok := c.fs.(*afero.OsFs); ok {
		return securejoin.SecureJoin(root, filepath.FromSlash(name))
	}
	return filepath.Join(root, filepath.FromSlash(name)), nil
}

func (c *config) mayOverwrite(target string) (bool, error) {
	switch c.overwrite {
	case OverwriteNever:
		return false, nil
	case OverwritePrompt:
		ok, err := c.prompt(target)
		if err != nil {
			return false, errors.Wrapf(err, "prompt for %s", target)
		}
		return ok, nil
	default:
		return true, nil
	}
}
