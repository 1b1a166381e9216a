package mock

import (
	"context"

	"github.com/fwojciec/vsx"
)

var _ vsx.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of vsx.SearchService.
type SearchService struct {
	SearchShapesFn func(ctx context.Context, q vsx.SearchQuery) (*vsx.SearchPage, error)
}

func (s *SearchService) SearchShapes(ctx context.Context, q vsx.SearchQuery) (*vsx.SearchPage, error) {
	return s.SearchShapesFn(ctx, q)
}

var _ vsx.SavedSearchService = (*SavedSearchService)(nil)

// SavedSearchService is a mock implementation of vsx.SavedSearchService.
type SavedSearchService struct {
	CreateSavedSearchFn func(ctx context.Context, s *vsx.SavedSearch) error
	FindSavedSearchesFn func(ctx context.Context) ([]*vsx.SavedSearch, error)
	DeleteSavedSearchFn func(ctx context.Context, id int64) error
}

func (s *SavedSearchService) CreateSavedSearch(ctx context.Context, saved *vsx.SavedSearch) error {
	return s.CreateSavedSearchFn(ctx, saved)
}

func (s *SavedSearchService) FindSavedSearches(ctx context.Context) ([]*vsx.SavedSearch, error) {
	return s.FindSavedSearchesFn(ctx)
}

func (s *SavedSearchService) DeleteSavedSearch(ctx context.Context, id int64) error {
	return s.DeleteSavedSearchFn(ctx, id)
}
