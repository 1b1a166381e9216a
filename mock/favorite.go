package mock

import (
	"context"

	"github.com/fwojciec/vsx"
)

var _ vsx.FavoriteService = (*FavoriteService)(nil)

// FavoriteService is a mock implementation of vsx.FavoriteService.
type FavoriteService struct {
	CreateFavoriteFn func(ctx context.Context, f *vsx.Favorite) error
	FindFavoritesFn  func(ctx context.Context) ([]*vsx.Favorite, error)
	DeleteFavoriteFn func(ctx context.Context, id int64) error
}

func (s *FavoriteService) CreateFavorite(ctx context.Context, f *vsx.Favorite) error {
	return s.CreateFavoriteFn(ctx, f)
}

func (s *FavoriteService) FindFavorites(ctx context.Context) ([]*vsx.Favorite, error) {
	return s.FindFavoritesFn(ctx)
}

func (s *FavoriteService) DeleteFavorite(ctx context.Context, id int64) error {
	return s.DeleteFavoriteFn(ctx, id)
}
