package vsx

import (
	"context"
	"time"
)

// Collection is a named, user-created set of shape references. ShapeCount
// is derived from membership, never stored.
type Collection struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	ShapeCount int       `json:"shapeCount"`
}

// Validate returns an error if the collection contains invalid fields.
func (c *Collection) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "collection name required")
	}
	return nil
}

// CollectionUpdate represents a membership and metadata change. Adds are
// applied before removes.
type CollectionUpdate struct {
	Name           *string `json:"name,omitempty"`
	AddShapeIDs    []int64 `json:"addShapeIds,omitempty"`
	RemoveShapeIDs []int64 `json:"removeShapeIds,omitempty"`
}

// CollectionService manages collections and their membership.
type CollectionService interface {
	// CreateCollection creates a new empty collection.
	CreateCollection(ctx context.Context, c *Collection) error

	// FindCollectionByID retrieves a collection with its derived count.
	// Returns ENOTFOUND if it does not exist.
	FindCollectionByID(ctx context.Context, id string) (*Collection, error)

	// FindCollections lists collections ordered by name.
	FindCollections(ctx context.Context) ([]*Collection, error)

	// FindCollectionShapes lists the member shapes of a collection.
	FindCollectionShapes(ctx context.Context, id string) ([]*Shape, error)

	// UpdateCollection renames and/or changes membership atomically.
	// Returns ENOTFOUND if the collection does not exist.
	UpdateCollection(ctx context.Context, id string, upd CollectionUpdate) (*Collection, error)

	// DeleteCollection removes a collection and its membership rows.
	// Returns ENOTFOUND if it does not exist.
	DeleteCollection(ctx context.Context, id string) error
}
