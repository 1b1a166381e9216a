package vsx

import (
	"context"
	"time"
)

// DirectoryPreset is a saved scan root. At most one preset is active at a
// time; the store enforces the invariant.
type DirectoryPreset struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the preset contains invalid fields.
func (d *DirectoryPreset) Validate() error {
	if d.Path == "" {
		return Errorf(EINVALID, "directory path required")
	}
	return nil
}

// DirectoryService manages saved scan roots.
type DirectoryService interface {
	// CreateDirectory adds a preset. Returns ECONFLICT if the path is
	// already saved. An empty name defaults to the path's base name.
	CreateDirectory(ctx context.Context, d *DirectoryPreset) error

	// FindDirectories lists presets, most recently created first.
	FindDirectories(ctx context.Context) ([]*DirectoryPreset, error)

	// ActiveDirectory returns the active preset, or ENOTFOUND when none is
	// active.
	ActiveDirectory(ctx context.Context) (*DirectoryPreset, error)

	// ActivateDirectory marks one preset active and deactivates the rest in
	// the same transaction. Returns ENOTFOUND if the preset does not exist.
	ActivateDirectory(ctx context.Context, id int64) error

	// DeleteDirectory removes a preset and cascades to the stencils
	// cataloged under its path. Returns ENOTFOUND if it does not exist.
	DeleteDirectory(ctx context.Context, id int64) error
}
