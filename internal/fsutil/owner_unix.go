//go:build unix

package fsutil

import (
	"os"
	"syscall"
)

// fileOwner extracts UID and GID from file info on Unix systems.
func fileOwner(info os.FileInfo) (uid, gid uint32, ok bool) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return stat.Uid, stat.Gid, true
	}
	return 0, 0, false
}
