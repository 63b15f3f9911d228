// Package serving holds the process-wide state the §5/§9 concurrency model
// describes — {index, user_data, resource_manager, search_cache} behind
// sync.RWMutex leases — and a minimal HTTP surface standing in for the
// GraphQL/OpenSubsonic transports §1 places out of scope: a health/status
// endpoint and a direct-file-streaming handler. Grounded on the teacher's
// own use of plain sync primitives throughout content.go/server.go (never a
// third-party actor/concurrency library) and on server.go's signal-driven
// main loop, adapted from a UPnP control loop to a net/http ListenAndServe
// run inside the same signal/select shape.
package serving

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	l "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"hify/internal/catalog"
	"hify/internal/ids"
	"hify/internal/orchestrator"
	"hify/internal/resources"
	"hify/internal/search"
	"hify/internal/userdata"
)

var log *l.Entry = l.WithFields(l.Fields{"pkg": "serving"})

// State is the single process-wide handle readers and the update loop
// coordinate through. Index and Search are swapped atomically together
// under idxMu; Swap installs the freshly built Engine along with its Index,
// and that Engine's cache starts empty, so callers never observe a new
// Index with a stale cache.
type State struct {
	MusicDir string
	DataDir  string

	idxMu sync.RWMutex
	index *catalog.Index
	srch  *search.Engine

	UserData   *userdata.Store
	AlbumArts  *resources.Manager
	ArtistArts *resources.Manager
}

// Index returns the current Index and its search engine under a reader
// lease. The pair is always consistent: Swap replaces both together.
func (s *State) Index() (*catalog.Index, *search.Engine) {
	s.idxMu.RLock()
	defer s.idxMu.RUnlock()
	return s.index, s.srch
}

// Swap installs a new Index/Search pair under the writer lease, matching
// §5's "successful detect_changes atomically swaps the Index pointer".
// Readers that acquired their lease before this call keep seeing the old
// pair; new readers see the new one immediately after it returns, with the
// search cache already clear (search.Build constructs a fresh cache).
func (s *State) Swap(idx *catalog.Index, engine *search.Engine) {
	s.idxMu.Lock()
	defer s.idxMu.Unlock()
	s.index = idx
	s.srch = engine
}

// Update runs one orchestrator.DetectChanges cycle and swaps the result in
// on success, leaving the previous Index current on failure (§7's
// transactional swap boundary).
func (s *State) Update(mode orchestrator.Mode, deps orchestrator.Deps) (*orchestrator.Result, error) {
	prev, _ := s.Index()
	deps.AlbumArts = s.AlbumArts
	deps.ArtistArts = s.ArtistArts
	deps.UserData = s.UserData

	res, err := orchestrator.DetectChanges(s.MusicDir, s.DataDir, prev, mode, deps)
	if err != nil {
		return nil, err
	}
	s.Swap(res.Index, res.Search)
	return res, nil
}

// Server wraps an http.Server exposing the status/health and streaming
// endpoints over State, plus the signal-driven run loop grounded on the
// teacher's server.Run.
type Server struct {
	state *State
	http  *http.Server
}

// NewServer builds the minimal HTTP surface: /healthz, /status and
// /stream/{trackID}.
func NewServer(addr string, state *State) *Server {
	mux := http.NewServeMux()
	srv := &Server{state: state}
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/status", srv.handleStatus)
	mux.HandleFunc("/stream/", srv.handleStream)
	srv.http = &http.Server{Addr: addr, Handler: mux}
	return srv
}

// WriteStatus writes a human-readable status report to w, the same shape
// as the teacher's Content.WriteStatus (track/album counts plus heap
// consumption via a golang.org/x/text message.Printer for thousands
// separators).
func WriteStatus(w io.Writer, idx *catalog.Index) {
	if idx == nil {
		fmt.Fprint(w, "Waiting for first catalog build ...\n")
		return
	}
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "    Catalog:\n")
	p.Fprintf(w, "    %6d tracks\n", idx.Tracks.Len())
	p.Fprintf(w, "    %6d albums\n", idx.AlbumsInfos.Len())
	p.Fprintf(w, "    %6d artists\n\n", idx.ArtistsInfos.Len())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.Fprintf(w, "    Memory consumption: %d bytes\n", m.HeapAlloc)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	idx, _ := s.state.Index()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	WriteStatus(w, idx)
}

type healthStatus struct {
	Tracks  int    `json:"tracks"`
	Albums  int    `json:"albums"`
	Artists int    `json:"artists"`
	Status  string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	idx, _ := s.state.Index()
	status := healthStatus{Status: "ok"}
	if idx != nil {
		status.Tracks = idx.Tracks.Len()
		status.Albums = idx.AlbumsInfos.Len()
		status.Artists = idx.ArtistsInfos.Len()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

// handleStream resolves the TrackID in the URL path against the current
// Index and serves the underlying file via http.ServeContent, the concrete
// stand-in for "direct streaming" §6 calls for without implementing a
// transcoding media server; Range requests are handled by http.ServeContent.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Path[len("/stream/"):]
	trackID, err := ids.ParseTrackID(idStr)
	if err != nil {
		http.Error(w, "invalid track id", http.StatusBadRequest)
		return
	}
	idx, _ := s.state.Index()
	if idx == nil {
		http.NotFound(w, r)
		return
	}
	track, ok := idx.Tracks.Get(trackID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.state.MusicDir, track.RelativePath)
	f, err := os.Open(path)
	if err != nil {
		http.Error(w, "track file unavailable", http.StatusNotFound)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		http.Error(w, "track file unavailable", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, track.RelativePath, info.ModTime(), f)
}

// Run starts the HTTP server and blocks until an interrupt/SIGTERM signal
// or ctx is cancelled, mirroring server.Run's signal-driven select loop
// (minus the UPnP-specific error/update channels, which have no equivalent
// here: the update loop is caller-driven via State.Update, not a background
// notifier).
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.http.Addr).Info("starting http server")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-interrupt:
		log.WithField("signal", sig).Info("shutting down")
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
