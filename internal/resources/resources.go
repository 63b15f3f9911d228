// Package resources manages the on-disk, content-addressed cache of
// derived art files (album-art and artist-art thumbnails). Grounded on the
// teacher's RWMutex-guarded in-memory maps (content.go) and on
// original_source/hify-server/src/arts/manager.rs, whose directory-naming
// scheme and idempotent register/delete semantics this package ports
// directly for album art; artist art instead uses the flat single-file
// layout §4.C8/§6 document (`arts/artist/<ArtistID>.webp`), since a mosaic
// has no size variants to keep side by side.
package resources

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	l "github.com/sirupsen/logrus"
)

var log *l.Entry = l.WithFields(l.Fields{"pkg": "resources"})

// Kind names a class of managed resource. Each kind fixes its own on-disk
// layout (§4.C8/§6): AlbumArt uses per-item versioned directories holding
// three size derivatives, ArtistArt uses one flat "{id}.webp" file.
type Kind string

const (
	AlbumArt  Kind = "album-art"
	ArtistArt Kind = "artist-art"
)

// flat reports whether kind is stored as a single flat file rather than a
// versioned per-item directory.
func (k Kind) flat() bool { return k == ArtistArt }

// flatExt is the file extension used by flat-layout kinds.
const flatExt = "webp"

// Derivative is one generated file size for an item, used only by the
// versioned (directory) layout.
type Derivative string

const (
	Large  Derivative = "large.webp"
	Medium Derivative = "medium.webp"
	Small  Derivative = "small.webp"
)

// entry records one item's on-disk location (a directory for the versioned
// layout, a single file for the flat layout) and the hash of the source
// data it was generated from.
type entry struct {
	path       string
	sourceHash uint64
	createdAt  time.Time
}

// Manager keeps an in-memory index of one Kind's arts, backed either by
// directories named "{id}[{source_hash}]@{unix_seconds}" (AlbumArt) or by
// flat "{id}.webp" files plus a "{id}.hash" sidecar recording the source
// hash across restarts (ArtistArt).
type Manager struct {
	dir  string
	kind Kind
	mu   sync.RWMutex
	arts map[string]entry
}

var dirNameRe = regexp.MustCompile(`^([a-zA-Z0-9]+)\[([0-9]+)\]@([0-9]+)$`)

// Load builds a Manager of the given kind from dir, creating it if absent,
// and running the startup cleanup pass appropriate to kind's layout.
func Load(dir string, kind Kind) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating resources directory %q", dir)
	}

	var arts map[string]entry
	var err error
	if kind.flat() {
		arts, err = loadFlat(dir)
	} else {
		arts, err = loadVersioned(dir)
	}
	if err != nil {
		return nil, err
	}

	return &Manager{dir: dir, kind: kind, arts: arts}, nil
}

// loadVersioned scans dir for "{id}[{hash}]@{secs}" directories, keeping
// only the most recent one per id (a crash mid-register can leave more
// than one behind).
func loadVersioned(dir string) (map[string]entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading resources directory %q", dir)
	}

	arts := make(map[string]entry)
	for _, de := range entries {
		if !de.IsDir() {
			return nil, errors.Errorf("found non-directory item in resources directory: %s", de.Name())
		}

		m := dirNameRe.FindStringSubmatch(de.Name())
		if m == nil {
			return nil, errors.Errorf("invalid directory name in resources directory: %q", de.Name())
		}
		id, hashStr, secsStr := m[1], m[2], m[3]

		hash, err := strconv.ParseUint(hashStr, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid hash in directory name %q", de.Name())
		}
		secs, err := strconv.ParseInt(secsStr, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid timestamp in directory name %q", de.Name())
		}
		createdAt := time.Unix(secs, 0)
		fullDir := filepath.Join(dir, de.Name())

		if existing, ok := arts[id]; ok {
			stale, keep := fullDir, existing.path
			if createdAt.After(existing.createdAt) {
				stale, keep = existing.path, fullDir
			}
			log.Debugf("cleaning up dangling resources directory: %s (keeping %s)", stale, keep)
			if err := os.RemoveAll(stale); err != nil {
				return nil, errors.Wrapf(err, "removing dangling resources directory %q", stale)
			}
			if keep == fullDir {
				arts[id] = entry{path: fullDir, sourceHash: hash, createdAt: createdAt}
			}
			continue
		}

		arts[id] = entry{path: fullDir, sourceHash: hash, createdAt: createdAt}
	}
	return arts, nil
}

// loadFlat scans dir for "{id}.webp" files, recovering each one's source
// hash from its "{id}.hash" sidecar. A webp file left without a sidecar
// (an interrupted write) is removed rather than trusted.
func loadFlat(dir string) (map[string]entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading resources directory %q", dir)
	}

	suffix := "." + flatExt
	arts := make(map[string]entry)
	for _, de := range entries {
		if de.IsDir() {
			return nil, errors.Errorf("found directory item in flat resources directory: %s", de.Name())
		}
		name := de.Name()
		if strings.HasSuffix(name, ".hash") {
			continue // paired with its *.webp entry below
		}
		if !strings.HasSuffix(name, suffix) {
			return nil, errors.Errorf("unexpected file in flat resources directory: %q", name)
		}
		id := strings.TrimSuffix(name, suffix)
		path := filepath.Join(dir, name)

		hashBytes, err := os.ReadFile(filepath.Join(dir, id+".hash"))
		if err != nil {
			log.Debugf("cleaning up flat art without a hash sidecar: %s", path)
			if err := os.Remove(path); err != nil {
				return nil, errors.Wrapf(err, "removing dangling art file %q", path)
			}
			continue
		}
		hash, err := strconv.ParseUint(strings.TrimSpace(string(hashBytes)), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid hash sidecar for %q", id)
		}
		arts[id] = entry{path: path, sourceHash: hash}
	}
	return arts, nil
}

// Has reports whether id has any registered arts.
func (m *Manager) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.arts[id]
	return ok
}

// GetHash returns id's current source hash, if registered.
func (m *Manager) GetHash(id string) (uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.arts[id]
	return e.sourceHash, ok
}

// Path returns the filesystem path of one of id's derivatives, if
// registered. d is ignored for the flat layout, which has only one file.
func (m *Manager) Path(id string, d Derivative) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.arts[id]
	if !ok {
		return "", false
	}
	if m.kind.flat() {
		return e.path, true
	}
	return filepath.Join(e.path, string(d)), true
}

// RegisterArt records a freshly generated art for id under sourceHash. If
// id is already registered with the same hash this is a no-op (idempotent).
// write receives the location to write to: a fresh per-item directory for
// the versioned layout (must create every derivative file inside it), or
// the exact final file path for the flat layout.
func (m *Manager) RegisterArt(id string, sourceHash uint64, write func(target string) error) error {
	if existing, ok := m.GetHash(id); ok && existing == sourceHash {
		return nil
	}
	if m.kind.flat() {
		return m.registerFlat(id, sourceHash, write)
	}
	return m.registerVersioned(id, sourceHash, write)
}

func (m *Manager) registerVersioned(id string, sourceHash uint64, write func(target string) error) error {
	newDir := filepath.Join(m.dir, dirName(id, sourceHash, time.Now()))
	if err := os.MkdirAll(newDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating arts directory %q", newDir)
	}
	if err := write(newDir); err != nil {
		_ = os.RemoveAll(newDir)
		return errors.Wrap(err, "writing art derivatives")
	}

	m.mu.Lock()
	prior, hadPrior := m.arts[id]
	m.arts[id] = entry{path: newDir, sourceHash: sourceHash, createdAt: time.Now()}
	m.mu.Unlock()

	if hadPrior {
		if err := os.RemoveAll(prior.path); err != nil {
			log.Warnf("failed to remove superseded arts directory %q: %v", prior.path, err)
		}
	}
	return nil
}

// registerFlat writes the new file to a temp path and renames it into
// place atomically, then writes its hash sidecar, matching the
// temp-file-plus-rename idiom used for index/userdata persistence.
func (m *Manager) registerFlat(id string, sourceHash uint64, write func(target string) error) error {
	path := filepath.Join(m.dir, id+"."+flatExt)
	tmp := filepath.Join(m.dir, "."+id+"-"+uuid.New().String()+".tmp")

	if err := write(tmp); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "writing art derivative")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "replacing art file %q", path)
	}

	hashPath := filepath.Join(m.dir, id+".hash")
	if err := os.WriteFile(hashPath, []byte(strconv.FormatUint(sourceHash, 10)), 0o644); err != nil {
		return errors.Wrapf(err, "writing hash sidecar %q", hashPath)
	}

	m.mu.Lock()
	m.arts[id] = entry{path: path, sourceHash: sourceHash, createdAt: time.Now()}
	m.mu.Unlock()
	return nil
}

// DeleteArts removes id's arts and drops it from the index.
func (m *Manager) DeleteArts(id string) error {
	m.mu.Lock()
	e, ok := m.arts[id]
	if ok {
		delete(m.arts, id)
	}
	m.mu.Unlock()

	if !ok {
		return errors.Errorf("unknown id for arts deletion: %q", id)
	}
	if m.kind.flat() {
		if err := os.Remove(e.path); err != nil {
			return err
		}
		return os.Remove(filepath.Join(m.dir, id+".hash"))
	}
	return os.RemoveAll(e.path)
}

func dirName(id string, sourceHash uint64, at time.Time) string {
	return id + "[" + strconv.FormatUint(sourceHash, 10) + "]@" + strconv.FormatInt(at.Unix(), 10)
}
