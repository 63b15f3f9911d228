//go:build !linux

package walker

import (
	"os"
	"time"
)

// statTimes falls back to mtime only on platforms without a portable way to
// read a creation/change time from os.FileInfo.Sys().
func statTimes(path string) (ctime *time.Time, mtime time.Time, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return nil, info.ModTime(), nil
}
