// Package walker discovers regular files under a music directory and
// captures their (ctime, mtime). Enumeration uses the same
// gitlab.com/mipimipi/go-utils/file traversal the teacher's own updater and
// notifier used for exactly this purpose; per-entry stat calls are
// parallelized through a taskset so that a large library's syscalls don't
// serialize behind a single directory walk.
package walker

import (
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gitlab.com/mipimipi/go-utils/file"

	"hify/internal/taskset"
)

// Times records the filesystem timestamps the catalog cares about for a
// single path. CTime is absent on filesystems/platforms that don't expose a
// creation/change time distinct from mtime.
type Times struct {
	CTime *time.Time
	MTime time.Time
}

// Result is the outcome of walking a directory tree.
type Result struct {
	// Files maps absolute path to its captured times, for every regular
	// file found.
	Files map[string]Times
	// Warnings holds per-entry problems (invalid-text paths, stat
	// failures) that did not abort the walk.
	Warnings []error
}

// Walk recursively discovers every regular file under root (minimum depth
// 1, no symlinks followed) and returns their timestamps.
func Walk(root string) (Result, error) {
	rootInfo, err := file.Stat(root)
	if err != nil {
		return Result{}, errors.Wrapf(err, "cannot stat music directory %q", root)
	}

	var paths []string
	var invalidPaths []string
	filter := func(f file.Info, vp file.ValidPropagate) (bool, file.ValidPropagate) {
		if !f.IsDir() && f.Mode().IsRegular() {
			p := f.Path()
			if !utf8.ValidString(p) {
				invalidPaths = append(invalidPaths, p)
				return false, file.NoneFromSuper
			}
			paths = append(paths, p)
			return true, file.NoneFromSuper
		}
		return false, file.NoneFromSuper
	}
	_ = file.Find([]file.Info{rootInfo}, filter, 1)

	ts := taskset.New[statResult]()
	for _, p := range paths {
		p := p
		ts.Add(func() (statResult, error) { return statOne(p) })
	}

	res := Result{Files: make(map[string]Times, len(paths))}
	for _, p := range invalidPaths {
		res.Warnings = append(res.Warnings, errors.Errorf("skipping path with invalid UTF-8 encoding: %q", p))
	}
	for _, r := range ts.Run(taskset.Options{}) {
		if r.Err != nil {
			res.Warnings = append(res.Warnings, r.Err)
			continue
		}
		res.Files[r.Value.path] = r.Value.times
	}
	return res, nil
}

type statResult struct {
	path  string
	times Times
}

func statOne(path string) (statResult, error) {
	ctime, mtime, err := statTimes(path)
	if err != nil {
		return statResult{}, errors.Wrapf(err, "cannot stat %q", path)
	}
	return statResult{path: path, times: Times{CTime: ctime, MTime: mtime}}, nil
}
