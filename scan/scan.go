// Package scan orchestrates catalog scans. It coordinates directory
// traversal, shape extraction and stencil ingestion, keeping interactive
// queries responsive by running extraction across a bounded worker pool.
package scan

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/vsx"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Ensure Scanner implements vsx.ScanService.
var _ vsx.ScanService = (*Scanner)(nil)

// Scanner runs catalog scans against a stencil store.
type Scanner struct {
	Stencils  vsx.StencilService
	Extractor vsx.Extractor

	// Extensions is the file extension allow-list. Defaults to
	// DefaultExtensions when empty.
	Extensions []string

	// Concurrency bounds the extraction worker pool. Defaults to 4.
	Concurrency int

	// Progress, if set, receives events as files are processed. It is
	// called from scan goroutines and must not block.
	Progress vsx.ScanProgressFunc

	mu     sync.Mutex
	status *vsx.ScanStatus
}

// Scan walks root, extracts shapes from new or changed stencils and updates
// the catalog. Only one scan may run at a time; a second request returns
// ECONFLICT. Cancellation is cooperative between files and work already
// committed stays committed.
func (s *Scanner) Scan(ctx context.Context, root string) (*vsx.ScanStatus, error) {
	canonicalRoot, err := canonicalPath(root)
	if err != nil {
		return nil, vsx.Errorf(vsx.EINVALID, "scan root %q is not accessible: %v", root, err)
	}

	status := &vsx.ScanStatus{
		JobID:     uuid.New().String(),
		Root:      canonicalRoot,
		Running:   true,
		StartedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	if s.status != nil && s.status.Running {
		s.mu.Unlock()
		return nil, vsx.Errorf(vsx.ECONFLICT, "a scan is already running")
	}
	s.status = status
	s.mu.Unlock()

	s.emit(vsx.ScanProgress{Phase: vsx.ScanStarted, Path: canonicalRoot})

	files, err := walkRoot(canonicalRoot, s.extensions(), func(path string, walkErr error) {
		s.update(func(st *vsx.ScanStatus) { st.Failed++ })
		s.emit(vsx.ScanProgress{Phase: vsx.ScanFailed, Path: path, Err: walkErr})
	})
	if err != nil {
		return s.finish(), err
	}

	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		seen[f.Path] = struct{}{}
	}
	s.update(func(st *vsx.ScanStatus) { st.FilesSeen = len(files) })

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.processFile(gctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.emit(vsx.ScanProgress{Phase: vsx.ScanFinished, Path: canonicalRoot, Err: err})
		return s.finish(), err
	}

	// Drop rows for files that no longer exist under the root. Skipped on
	// cancellation so a partial walk never prunes live stencils.
	pruned, err := s.Stencils.PruneStencils(ctx, canonicalRoot, seen)
	if err != nil {
		return s.finish(), err
	}
	s.update(func(st *vsx.ScanStatus) { st.Pruned = pruned })

	s.emit(vsx.ScanProgress{Phase: vsx.ScanFinished, Path: canonicalRoot})
	return s.finish(), nil
}

// Status returns a snapshot of the most recent scan.
func (s *Scanner) Status() (*vsx.ScanStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == nil {
		return nil, vsx.Errorf(vsx.ENOTFOUND, "no scan has run")
	}
	snapshot := *s.status
	return &snapshot, nil
}

// processFile ingests one candidate stencil file. Extraction failures are
// recorded on the stencil row so health analysis can report them; they
// never abort the scan.
func (s *Scanner) processFile(ctx context.Context, f vsx.FileInfo) {
	existing, err := s.Stencils.FindStencilByPath(ctx, f.Path)
	if err != nil && vsx.ErrorCode(err) != vsx.ENOTFOUND {
		s.update(func(st *vsx.ScanStatus) { st.Failed++ })
		s.emit(vsx.ScanProgress{Phase: vsx.ScanFailed, Path: f.Path, Err: err})
		return
	}
	if existing != nil && existing.Fingerprint().Equal(f.Fingerprint()) {
		s.update(func(st *vsx.ScanStatus) { st.Skipped++ })
		s.emit(vsx.ScanProgress{Phase: vsx.ScanSkipped, Path: f.Path})
		return
	}

	stencil := stencilForFile(f)

	shapes, err := s.Extractor.Extract(ctx, f.Path)
	switch code := vsx.ErrorCode(err); {
	case err == nil:
		// Extraction succeeded.
	case code == vsx.ECORRUPT || code == vsx.EUNSUPPORTED:
		stencil.ScanError = code
		shapes = nil
	default:
		s.update(func(st *vsx.ScanStatus) { st.Failed++ })
		s.emit(vsx.ScanProgress{Phase: vsx.ScanFailed, Path: f.Path, Err: err})
		return
	}

	if err := s.Stencils.UpsertStencil(ctx, stencil, shapes); err != nil {
		s.update(func(st *vsx.ScanStatus) { st.Failed++ })
		s.emit(vsx.ScanProgress{Phase: vsx.ScanFailed, Path: f.Path, Err: err})
		return
	}

	if stencil.ScanError != "" {
		s.update(func(st *vsx.ScanStatus) { st.Failed++ })
		s.emit(vsx.ScanProgress{Phase: vsx.ScanFailed, Path: f.Path, Err: err})
		return
	}

	s.update(func(st *vsx.ScanStatus) { st.Ingested++ })
	s.emit(vsx.ScanProgress{Phase: vsx.ScanIngested, Path: f.Path})
}

// stencilForFile builds the stencil row metadata for a discovered file.
func stencilForFile(f vsx.FileInfo) *vsx.Stencil {
	ext := strings.ToLower(filepath.Ext(f.Path))
	base := filepath.Base(f.Path)
	return &vsx.Stencil{
		Path:         f.Path,
		Name:         strings.TrimSuffix(base, filepath.Ext(base)),
		Extension:    ext,
		FileSize:     f.Size,
		LastModified: f.ModTime,
	}
}

func (s *Scanner) extensions() []string {
	if len(s.Extensions) > 0 {
		return s.Extensions
	}
	return DefaultExtensions
}

func (s *Scanner) update(fn func(*vsx.ScanStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.status)
}

// finish marks the scan complete and returns the final snapshot, so the
// status a caller receives never reads as still running.
func (s *Scanner) finish() *vsx.ScanStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Running {
		now := time.Now().UTC()
		s.status.Running = false
		s.status.FinishedAt = &now
	}
	snapshot := *s.status
	return &snapshot
}

func (s *Scanner) emit(p vsx.ScanProgress) {
	if s.Progress != nil {
		s.Progress(p)
	}
}
