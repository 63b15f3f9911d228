package catalog

import (
	"sort"
	"time"
)

// DiffResult partitions a filesystem walk against a prior tracks list.
type DiffResult struct {
	// Kept are prior tracks whose path still exists and whose mtime is
	// unchanged.
	Kept []Track
	// Deleted are prior tracks whose path no longer exists.
	Deleted []Track
	// ToAnalyze are paths that are new or whose mtime changed; the caller
	// runs the metadata analyzer on these and folds the results in,
	// discarding the corresponding prior Track (if any).
	ToAnalyze []string
}

// Diff reconciles a fresh walk (relative path → mtime) against the prior
// tracks list. Both sides are sorted by path and merged with a single
// two-pointer pass, the same algorithm the teacher's updater.go:diff used
// to reconcile a freshly walked directory against existing content.
func Diff(walked map[string]time.Time, prior []Track) DiffResult {
	priorSorted := make([]Track, len(prior))
	copy(priorSorted, prior)
	sort.Slice(priorSorted, func(i, j int) bool {
		return priorSorted[i].RelativePath < priorSorted[j].RelativePath
	})

	walkedPaths := make([]string, 0, len(walked))
	for p := range walked {
		walkedPaths = append(walkedPaths, p)
	}
	sort.Strings(walkedPaths)

	var res DiffResult
	if len(priorSorted) == 0 {
		res.ToAnalyze = append(res.ToAnalyze, walkedPaths...)
		return res
	}
	if len(walkedPaths) == 0 {
		res.Deleted = append(res.Deleted, priorSorted...)
		return res
	}

	i, j := 0, 0
	for i < len(priorSorted) || j < len(walkedPaths) {
		switch {
		case i >= len(priorSorted):
			res.ToAnalyze = append(res.ToAnalyze, walkedPaths[j])
			j++
		case j >= len(walkedPaths):
			res.Deleted = append(res.Deleted, priorSorted[i])
			i++
		case priorSorted[i].RelativePath < walkedPaths[j]:
			res.Deleted = append(res.Deleted, priorSorted[i])
			i++
		case priorSorted[i].RelativePath > walkedPaths[j]:
			res.ToAnalyze = append(res.ToAnalyze, walkedPaths[j])
			j++
		default: // equal paths
			newMTime := walked[walkedPaths[j]]
			if newMTime.Equal(priorSorted[i].MTime) {
				res.Kept = append(res.Kept, priorSorted[i])
			} else {
				// mtime changed: the path is still present on disk, so
				// it belongs in ToAnalyze, not Deleted (Deleted is P\F).
				res.ToAnalyze = append(res.ToAnalyze, walkedPaths[j])
			}
			i++
			j++
		}
	}
	return res
}
