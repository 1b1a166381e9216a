package vsx

import (
	"context"
	"time"
)

// Favorite references a stencil or, when ShapeID is set, a single shape.
// Favorites cascade-delete with their target: deleting a stencil (or a
// re-scan that drops a shape) removes any favorite pointing at it, so
// listings never contain orphans.
type Favorite struct {
	ID          int64     `json:"id"`
	StencilPath string    `json:"stencilPath"`
	ShapeID     *int64    `json:"shapeId,omitempty"`
	AddedAt     time.Time `json:"addedAt"`

	// Display fields resolved at read time.
	StencilName string `json:"stencilName,omitempty"`
	ShapeName   string `json:"shapeName,omitempty"`
}

// Validate returns an error if the favorite contains invalid fields.
func (f *Favorite) Validate() error {
	if f.StencilPath == "" {
		return Errorf(EINVALID, "favorite stencil path required")
	}
	return nil
}

// FavoriteService manages favorites.
type FavoriteService interface {
	// CreateFavorite adds a favorite. Returns ECONFLICT if the target is
	// already favorited and ENOTFOUND if the target does not exist.
	CreateFavorite(ctx context.Context, f *Favorite) error

	// FindFavorites lists favorites, most recently added first.
	FindFavorites(ctx context.Context) ([]*Favorite, error)

	// DeleteFavorite removes a favorite by ID.
	// Returns ENOTFOUND if it does not exist.
	DeleteFavorite(ctx context.Context, id int64) error
}
