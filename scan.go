package vsx

import (
	"context"
	"time"
)

// FileInfo describes one candidate stencil file found during traversal.
// Path is absolute and symlink-resolved so the same file reached through
// different prefixes yields a stable fingerprint.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Fingerprint returns the file's fingerprint.
func (f FileInfo) Fingerprint() Fingerprint {
	return Fingerprint{Path: f.Path, Size: f.Size, ModTime: f.ModTime}
}

// Extractor extracts shape records from a stencil file.
//
// Implementations return EUNSUPPORTED for recognized-but-unparseable
// formats (legacy binary stencils) and ECORRUPT for containers that fail to
// open. A master without parseable geometry is not an error; its shape is
// returned with Geometry nil.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]*Shape, error)
}

// ScanPhase identifies a progress event type.
type ScanPhase string

// Scan progress phases.
const (
	ScanStarted  ScanPhase = "started"
	ScanIngested ScanPhase = "ingested"
	ScanSkipped  ScanPhase = "skipped"
	ScanFailed   ScanPhase = "failed"
	ScanFinished ScanPhase = "finished"
)

// ScanProgress reports progress during a scan.
type ScanProgress struct {
	Phase ScanPhase
	Path  string
	Err   error
}

// ScanProgressFunc is called as files are processed. It runs on the scan
// goroutine and must not block.
type ScanProgressFunc func(ScanProgress)

// ScanStatus is a readable snapshot of an in-flight or completed scan.
type ScanStatus struct {
	JobID      string     `json:"jobId"`
	Root       string     `json:"root"`
	Running    bool       `json:"running"`
	FilesSeen  int        `json:"filesSeen"`
	Ingested   int        `json:"ingested"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Pruned     int        `json:"pruned"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// ScanService runs catalog scans. Only one scan may run at a time; a second
// request returns ECONFLICT rather than queueing.
type ScanService interface {
	// Scan walks root, extracts shapes from changed stencils and updates
	// the catalog. Cancellation is cooperative between files; stencils
	// already ingested stay committed.
	Scan(ctx context.Context, root string) (*ScanStatus, error)

	// Status returns the most recent scan's status snapshot, or ENOTFOUND
	// when no scan has run.
	Status() (*ScanStatus, error)
}
