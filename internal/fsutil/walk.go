// Package fsutil turns filesystem trees into archive entries and writes
// archive entries back out to a filesystem.
package fsutil

import (
	"fmt"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/please-build/tarlight"
)

// maxNameLen is the width of the header name field.
const maxNameLen = 100

// ErrPattern indicates a malformed exclude pattern.
type ErrPattern struct {
	Pattern string
}

func (e *ErrPattern) Error() string {
	return fmt.Sprintf("fsutil: invalid exclude pattern '%s'", e.Pattern)
}

// Walk returns one regular file entry per regular file under root.
//
// If root is a file, the single entry is named by its base name. If root is
// a directory, entry names are slash-separated paths relative to it, in
// lexical walk order. Directories, symbolic links and special files produce
// no entries.
func Walk(root string, opts ...Option) ([]*tarlight.Entry, error) {
	cfg := newConfig(opts)
	if err := cfg.validateExcludes(); err != nil {
		return nil, err
	}
	w := &walker{cfg: cfg, users: map[uint32]string{}, groups: map[uint32]string{}}

	info, err := lstat(cfg.fs, root)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", root)
	}
	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			cfg.logger.WithField("path", root).Debug("skipping non-regular file")
			return nil, nil
		}
		e, err := w.entry(root, path.Base(filepath.ToSlash(root)), info)
		if err != nil {
			return nil, err
		}
		return []*tarlight.Entry{e}, nil
	}

	var entries []*tarlight.Entry
	err = afero.Walk(cfg.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)
		if cfg.excluded(name) {
			cfg.logger.WithField("name", name).Debug("excluded")
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			cfg.logger.WithField("name", name).Debug("skipping non-regular file")
			return nil
		}
		e, err := w.entry(p, name, info)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}
	return entries, nil
}

type walker struct {
	cfg    config
	users  map[uint32]string
	groups map[uint32]string
}

// entry reads the file at p into an entry named name.
func (w *walker) entry(p, name string, info os.FileInfo) (*tarlight.Entry, error) {
	data, err := afero.ReadFile(w.cfg.fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", p)
	}
	if len(name) > maxNameLen {
		w.cfg.logger.WithField("name", name).Warnf("name longer than %d bytes will be truncated", maxNameLen)
	}

	e := tarlight.NewEntry(name, uint32(info.Mode().Perm()), data)
	if mtime := info.ModTime().Unix(); mtime > 0 {
		e.Header.Mtime = uint64(mtime)
	}
	if uid, gid, ok := fileOwner(info); ok {
		e.Header.Uid = uid
		e.Header.Gid = gid
		e.Header.Uname = w.userName(uid)
		e.Header.Gname = w.groupName(gid)
	}
	w.cfg.logger.WithField("name", name).WithField("size", len(data)).Debug("added")
	return e, nil
}

func (w *walker) userName(uid uint32) string {
	if name, ok := w.users[uid]; ok {
		return name
	}
	var name string
	if u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10)); err == nil {
		name = u.Username
	}
	w.users[uid] = name
	return name
}

func (w *walker) groupName(gid uint32) string {
	if name, ok := w.groups[gid]; ok {
		return name
	}
	var name string
	if g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10)); err == nil {
		name = g.Name
	}
	w.groups[gid] = name
	return name
}

// lstat avoids following a symbolic link when the filesystem can tell them apart.
func lstat(fs afero.Fs, name string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return fs.Stat(name)
}
