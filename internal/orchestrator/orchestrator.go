// Package orchestrator implements the top-level change-detection loop that
// sequences the walker, metadata analyzer, differ, index builder, art
// pipeline and search engine into one call, and persists the result.
// Grounded on original_source/hify-server's top-level update routine and
// the teacher's own updater.go, which drives the same walk-diff-analyze-
// rebuild sequence for its content DB.
package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	l "github.com/sirupsen/logrus"

	"hify/internal/arts"
	"hify/internal/catalog"
	"hify/internal/hifyerr"
	"hify/internal/ids"
	"hify/internal/metadata"
	"hify/internal/resources"
	"hify/internal/search"
	"hify/internal/userdata"
	"hify/internal/walker"
)

var log *l.Entry = l.WithFields(l.Fields{"pkg": "orchestrator"})

// Mode selects one of the mutually exclusive CLI-driven update strategies
// (§4.C11).
type Mode int

const (
	// Update runs the normal incremental detect_changes: walk, diff
	// against the prior Index, analyze only new/changed files.
	Update Mode = iota
	// Rebuild discards the prior Index entirely and treats every
	// discovered file as new.
	Rebuild
	// RebuildCache re-runs the art pipeline and search engine against the
	// existing Index without re-walking or re-analyzing.
	RebuildCache
	// RefetchFileTimes re-walks and refreshes tracks_files_mtime without
	// re-running the metadata analyzer on unchanged files.
	RefetchFileTimes
)

// Result bundles everything a successful run produces: the new Index, a
// search engine built against it, and the per-file problems encountered
// along the way (none of which aborted the run).
type Result struct {
	Index    *catalog.Index
	Search   *search.Engine
	Warnings []error
}

// Deps are the orchestrator's external collaborators, all of which this
// package treats as already constructed/loaded by the caller (cmd/hify).
type Deps struct {
	Decoder    metadata.Decoder
	AlbumArts  *resources.Manager
	ArtistArts *resources.Manager
	UserData   *userdata.Store
}

// DetectChanges runs one full update cycle over musicDir, persisting the
// resulting Index under dataDir. prev is the previously persisted Index, or
// nil on first run. See Mode for the CLI-driven variants this also
// implements.
func DetectChanges(musicDir, dataDir string, prev *catalog.Index, mode Mode, deps Deps) (*Result, error) {
	switch mode {
	case RebuildCache:
		return rebuildCache(musicDir, dataDir, prev, deps)
	case RefetchFileTimes:
		return refetchFileTimes(musicDir, dataDir, prev, deps)
	default:
		return detectChanges(musicDir, dataDir, prev, mode == Rebuild, deps)
	}
}

func detectChanges(musicDir, dataDir string, prev *catalog.Index, discardPrev bool, deps Deps) (*Result, error) {
	walked, times, warnings, err := walk(musicDir)
	if err != nil {
		return nil, err
	}

	var priorTracks []catalog.Track
	if prev != nil && !discardPrev {
		priorTracks = prev.Tracks.Values()
	}

	diff := catalog.Diff(walked, priorTracks)

	analyzed := metadata.Analyze(toAbsolute(musicDir, diff.ToAnalyze), deps.Decoder)
	var tracks []catalog.Track
	tracks = append(tracks, diff.Kept...)
	for _, fr := range analyzed {
		if fr.Err != nil {
			warnings = append(warnings, errors.Wrapf(fr.Err, "analyzing %q", fr.Path))
			continue
		}
		relPath, err := filepath.Rel(musicDir, fr.Path)
		if err != nil {
			warnings = append(warnings, errors.Wrapf(err, "relativizing %q", fr.Path))
			continue
		}
		tracks = append(tracks, catalog.Track{
			ID:           ids.HashTrack(relPath),
			RelativePath: relPath,
			MTime:        times[relPath].MTime,
			CTime:        times[relPath].CTime,
			Metadata:     fr.Metadata,
		})
	}

	idx := catalog.Build(tracks)
	return finish(musicDir, dataDir, idx, prev, deps, warnings)
}

func refetchFileTimes(musicDir, dataDir string, prev *catalog.Index, deps Deps) (*Result, error) {
	if prev == nil {
		return nil, hifyerr.New(hifyerr.Build, "refetch-file-times requires an existing index")
	}
	_, times, warnings, err := walk(musicDir)
	if err != nil {
		return nil, err
	}

	tracks := make([]catalog.Track, 0, prev.Tracks.Len())
	for _, t := range prev.Tracks.Values() {
		ft, ok := times[t.RelativePath]
		if !ok {
			continue // file vanished; dropped rather than re-run through the differ.
		}
		t.MTime = ft.MTime
		t.CTime = ft.CTime
		tracks = append(tracks, t)
	}

	idx := catalog.Build(tracks)
	return finish(musicDir, dataDir, idx, prev, deps, warnings)
}

func rebuildCache(musicDir, dataDir string, prev *catalog.Index, deps Deps) (*Result, error) {
	if prev == nil {
		return nil, hifyerr.New(hifyerr.Build, "rebuild-cache requires an existing index")
	}
	return finish(musicDir, dataDir, prev, prev, deps, nil)
}

// finish implements steps 5-8 of detect_changes: populate album art, run
// the art pipeline, persist idx, rebuild the search engine, and clean up
// user data against it. prev (which may equal idx itself, for
// RebuildCache) is used only to garbage-collect arts for items that
// disappeared.
func finish(musicDir, dataDir string, idx *catalog.Index, prev *catalog.Index, deps Deps, warnings []error) (*Result, error) {
	idx.AlbumArts = arts.FindAlbumCovers(musicDir, idx)

	for _, err := range arts.GenerateAlbumArt(idx, prev, deps.AlbumArts) {
		warnings = append(warnings, err)
	}
	for _, err := range arts.GenerateArtistArt(idx, deps.ArtistArts) {
		warnings = append(warnings, err)
	}

	if err := PersistIndex(dataDir, idx); err != nil {
		return nil, err
	}

	engine, err := search.Build(idx)
	if err != nil {
		return nil, hifyerr.Wrap(hifyerr.Build, err, "building search engine")
	}

	if deps.UserData != nil {
		if err := deps.UserData.Cleanup(idx.Tracks); err != nil {
			warnings = append(warnings, err)
		}
	}

	log.WithField("tracks", idx.Tracks.Len()).Info("index rebuilt")
	return &Result{Index: idx, Search: engine, Warnings: warnings}, nil
}

// walk runs the file walker and re-keys its results by path relative to
// musicDir, returning both the bare mtime mapping Diff needs and the full
// Times (including ctime) keyed the same way, for Track construction.
func walk(musicDir string) (map[string]time.Time, map[string]walker.Times, []error, error) {
	res, err := walker.Walk(musicDir)
	if err != nil {
		return nil, nil, nil, hifyerr.Wrap(hifyerr.IO, err, "walking music directory")
	}
	walked := make(map[string]time.Time, len(res.Files))
	times := make(map[string]walker.Times, len(res.Files))
	var warnings []error
	for absPath, t := range res.Files {
		rel, err := filepath.Rel(musicDir, absPath)
		if err != nil {
			warnings = append(warnings, errors.Wrapf(err, "relativizing %q", absPath))
			continue
		}
		walked[rel] = t.MTime
		times[rel] = t
	}
	warnings = append(warnings, res.Warnings...)
	return walked, times, warnings, nil
}

func toAbsolute(musicDir string, relPaths []string) []string {
	out := make([]string, len(relPaths))
	for i, p := range relPaths {
		out[i] = filepath.Join(musicDir, p)
	}
	return out
}

// PersistIndex writes idx to dataDir/index.json atomically (temp file +
// rename), matching the teacher's/userdata.Store's atomic-write idiom.
func PersistIndex(dataDir string, idx *catalog.Index) error {
	b, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return hifyerr.Wrap(hifyerr.Build, err, "encoding index")
	}
	path := filepath.Join(dataDir, "index.json")
	tmp := filepath.Join(dataDir, ".index-"+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return hifyerr.Wrapf(hifyerr.IO, err, "writing temp index file %q", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return hifyerr.Wrapf(hifyerr.IO, err, "replacing index file %q", path)
	}
	return nil
}

// LoadIndex reads a previously persisted Index from dataDir/index.json, or
// returns (nil, nil) if it doesn't exist yet (first run).
func LoadIndex(dataDir string) (*catalog.Index, error) {
	path := filepath.Join(dataDir, "index.json")
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, hifyerr.Wrapf(hifyerr.IO, err, "reading index file %q", path)
	}
	var idx catalog.Index
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, hifyerr.Wrapf(hifyerr.Build, err, "parsing index file %q", path)
	}
	return &idx, nil
}
