package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/vsx"
	"github.com/fwojciec/vsx/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_CreateFavorite(t *testing.T) {
	t.Parallel()

	t.Run("favorites a stencil", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		ctx := context.Background()
		stencils := sqlite.NewStencilService(db)
		favorites := sqlite.NewFavoriteService(db)

		path := "/stencils/basic.vssx"
		require.NoError(t, stencils.UpsertStencil(ctx, testStencil(path), testShapes(path, "Rectangle")))

		fav := &vsx.Favorite{StencilPath: path}
		require.NoError(t, favorites.CreateFavorite(ctx, fav))
		assert.NotZero(t, fav.ID)

		got, err := favorites.FindFavorites(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Test Stencil", got[0].StencilName)
		assert.Empty(t, got[0].ShapeName)
	})

	t.Run("favorites a shape", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		ctx := context.Background()
		stencils := sqlite.NewStencilService(db)
		favorites := sqlite.NewFavoriteService(db)

		path := "/stencils/basic.vssx"
		shapes := testShapes(path, "Rectangle")
		require.NoError(t, stencils.UpsertStencil(ctx, testStencil(path), shapes))

		fav := &vsx.Favorite{StencilPath: path, ShapeID: &shapes[0].ID}
		require.NoError(t, favorites.CreateFavorite(ctx, fav))

		got, err := favorites.FindFavorites(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Rectangle", got[0].ShapeName)
	})

	t.Run("returns ECONFLICT for duplicates", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		ctx := context.Background()
		stencils := sqlite.NewStencilService(db)
		favorites := sqlite.NewFavoriteService(db)

		path := "/stencils/basic.vssx"
		require.NoError(t, stencils.UpsertStencil(ctx, testStencil(path), nil))
		require.NoError(t, favorites.CreateFavorite(ctx, &vsx.Favorite{StencilPath: path}))

		err := favorites.CreateFavorite(ctx, &vsx.Favorite{StencilPath: path})
		assert.Equal(t, vsx.ECONFLICT, vsx.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for a missing target", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		favorites := sqlite.NewFavoriteService(db)

		err := favorites.CreateFavorite(context.Background(), &vsx.Favorite{StencilPath: "/missing.vssx"})
		assert.Equal(t, vsx.ENOTFOUND, vsx.ErrorCode(err))
	})
}

func TestFavoriteService_Cascade(t *testing.T) {
	t.Parallel()

	t.Run("deleting the stencil removes its favorites", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		ctx := context.Background()
		stencils := sqlite.NewStencilService(db)
		favorites := sqlite.NewFavoriteService(db)

		path := "/stencils/basic.vssx"
		shapes := testShapes(path, "Rectangle")
		require.NoError(t, stencils.UpsertStencil(ctx, testStencil(path), shapes))
		require.NoError(t, favorites.CreateFavorite(ctx, &vsx.Favorite{StencilPath: path}))
		require.NoError(t, favorites.CreateFavorite(ctx, &vsx.Favorite{StencilPath: path, ShapeID: &shapes[0].ID}))

		require.NoError(t, stencils.RemoveStencil(ctx, path))

		got, err := favorites.FindFavorites(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("re-extraction drops shape favorites with their rows", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		ctx := context.Background()
		stencils := sqlite.NewStencilService(db)
		favorites := sqlite.NewFavoriteService(db)

		path := "/stencils/basic.vssx"
		shapes := testShapes(path, "Rectangle")
		require.NoError(t, stencils.UpsertStencil(ctx, testStencil(path), shapes))
		require.NoError(t, favorites.CreateFavorite(ctx, &vsx.Favorite{StencilPath: path, ShapeID: &shapes[0].ID}))

		updated := testStencil(path)
		updated.LastModified = updated.LastModified.Add(time.Hour)
		require.NoError(t, stencils.UpsertStencil(ctx, updated, testShapes(path, "Circle")))

		got, err := favorites.FindFavorites(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestFavoriteService_DeleteFavorite(t *testing.T) {
	t.Parallel()

	t.Run("removes a favorite", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		ctx := context.Background()
		stencils := sqlite.NewStencilService(db)
		favorites := sqlite.NewFavoriteService(db)

		path := "/stencils/basic.vssx"
		require.NoError(t, stencils.UpsertStencil(ctx, testStencil(path), nil))
		fav := &vsx.Favorite{StencilPath: path}
		require.NoError(t, favorites.CreateFavorite(ctx, fav))
		require.NoError(t, favorites.DeleteFavorite(ctx, fav.ID))

		got, err := favorites.FindFavorites(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		err := sqlite.NewFavoriteService(db).DeleteFavorite(context.Background(), 99)
		assert.Equal(t, vsx.ENOTFOUND, vsx.ErrorCode(err))
	})
}
