package vsx

import (
	"context"
	"time"
)

// Stencil represents a cataloged stencil file. The absolute normalized path
// is the primary identity; re-scanning the same path with an unchanged
// fingerprint is a no-op.
type Stencil struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Extension    string    `json:"extension"`
	FileSize     int64     `json:"fileSize"`
	LastModified time.Time `json:"lastModified"`
	LastScan     time.Time `json:"lastScan"`
	ShapeCount   int       `json:"shapeCount"`

	// ScanError holds the error code of the last extraction attempt
	// (ECORRUPT or EUNSUPPORTED), or empty when extraction succeeded. The
	// health analyzer derives corruption findings from it.
	ScanError string `json:"scanError,omitempty"`
}

// Validate returns an error if the stencil contains invalid fields.
func (s *Stencil) Validate() error {
	if s.Path == "" {
		return Errorf(EINVALID, "stencil path required")
	}
	if s.Name == "" {
		return Errorf(EINVALID, "stencil name required")
	}
	return nil
}

// Fingerprint identifies the on-disk state of a stencil file. Two scans of
// the same path with equal fingerprints carry identical shape sets.
type Fingerprint struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// Fingerprint returns the stencil's current fingerprint.
func (s *Stencil) Fingerprint() Fingerprint {
	return Fingerprint{Path: s.Path, Size: s.FileSize, ModTime: s.LastModified}
}

// Equal reports whether two fingerprints describe the same file state.
// Modification times are compared at second granularity because that is the
// resolution preserved by the catalog.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Path == other.Path &&
		f.Size == other.Size &&
		f.ModTime.Truncate(time.Second).Equal(other.ModTime.Truncate(time.Second))
}

// StencilFilter represents a filter for FindStencils.
type StencilFilter struct {
	Path       *string `json:"path"`
	PathPrefix *string `json:"pathPrefix"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// StencilService represents a service for managing cataloged stencils.
type StencilService interface {
	// UpsertStencil records a stencil and its full shape set. If a row for
	// the path exists with an equal fingerprint the call is a no-op.
	// Otherwise the stencil row is replaced and its shapes are rewritten.
	UpsertStencil(ctx context.Context, stencil *Stencil, shapes []*Shape) error

	// FindStencilByPath retrieves a stencil by its normalized path.
	// Returns ENOTFOUND if the stencil does not exist.
	FindStencilByPath(ctx context.Context, path string) (*Stencil, error)

	// FindStencils retrieves stencils matching the filter, ordered by path.
	FindStencils(ctx context.Context, filter StencilFilter) ([]*Stencil, error)

	// RemoveStencil deletes a stencil and cascades to its shapes.
	// Returns ENOTFOUND if the stencil does not exist.
	RemoveStencil(ctx context.Context, path string) error

	// PruneStencils removes all stencils under root whose paths are not in
	// seen, returning the number removed. Used after a full re-scan to drop
	// files that no longer exist.
	PruneStencils(ctx context.Context, root string, seen map[string]struct{}) (int, error)
}
