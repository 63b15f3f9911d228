//go:build linux

package walker

import (
	"os"
	"syscall"
	"time"
)

// statTimes extracts mtime and, where the platform exposes it, ctime
// (inode-change time) from path. Mirrors the teacher's own use of
// info.Sys().(*syscall.Stat_t) in server/log.go to read platform-specific
// stat fields.
func statTimes(path string) (ctime *time.Time, mtime time.Time, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	mtime = info.ModTime()
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		t := time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
		ctime = &t
	}
	return ctime, mtime, nil
}
