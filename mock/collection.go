package mock

import (
	"context"

	"github.com/fwojciec/vsx"
)

var _ vsx.CollectionService = (*CollectionService)(nil)

// CollectionService is a mock implementation of vsx.CollectionService.
type CollectionService struct {
	CreateCollectionFn     func(ctx context.Context, c *vsx.Collection) error
	FindCollectionByIDFn   func(ctx context.Context, id string) (*vsx.Collection, error)
	FindCollectionsFn      func(ctx context.Context) ([]*vsx.Collection, error)
	FindCollectionShapesFn func(ctx context.Context, id string) ([]*vsx.Shape, error)
	UpdateCollectionFn     func(ctx context.Context, id string, upd vsx.CollectionUpdate) (*vsx.Collection, error)
	DeleteCollectionFn     func(ctx context.Context, id string) error
}

func (s *CollectionService) CreateCollection(ctx context.Context, c *vsx.Collection) error {
	return s.CreateCollectionFn(ctx, c)
}

func (s *CollectionService) FindCollectionByID(ctx context.Context, id string) (*vsx.Collection, error) {
	return s.FindCollectionByIDFn(ctx, id)
}

func (s *CollectionService) FindCollections(ctx context.Context) ([]*vsx.Collection, error) {
	return s.FindCollectionsFn(ctx)
}

func (s *CollectionService) FindCollectionShapes(ctx context.Context, id string) ([]*vsx.Shape, error) {
	return s.FindCollectionShapesFn(ctx, id)
}

func (s *CollectionService) UpdateCollection(ctx context.Context, id string, upd vsx.CollectionUpdate) (*vsx.Collection, error) {
	return s.UpdateCollectionFn(ctx, id, upd)
}

func (s *CollectionService) DeleteCollection(ctx context.Context, id string) error {
	return s.DeleteCollectionFn(ctx, id)
}
