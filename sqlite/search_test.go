package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/vsx"
	"github.com/fwojciec/vsx/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCatalog loads a small catalog used by the search tests.
func seedCatalog(t *testing.T, db *sqlite.DB) {
	t.Helper()

	ctx := context.Background()
	stencils := sqlite.NewStencilService(db)

	network := "/stencils/network.vssx"
	w, h := 1.5, 1.0
	require.NoError(t, stencils.UpsertStencil(ctx, testStencil(network), []*vsx.Shape{
		{StencilPath: network, Name: "Router", Width: &w, Height: &h,
			Properties: vsx.Properties{"vendor": vsx.StringPropertyValue("acme")}},
		{StencilPath: network, Name: "Router", Width: &w, Height: &h},
		{StencilPath: network, Name: "Switch"},
	}))

	flow := "/stencils/flowchart.vssx"
	require.NoError(t, stencils.UpsertStencil(ctx, testStencil(flow),
		testShapes(flow, "Decision", "Process", "Data Router")))
}

func TestSearchService_SearchShapes(t *testing.T) {
	t.Parallel()

	t.Run("FTS matches ranked results", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)

		page, err := s.SearchShapes(context.Background(),
			vsx.SearchQuery{Term: "router", Page: 1, PageSize: 20, Mode: vsx.ModeFTS})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		require.Len(t, page.Results, 3)
		for _, r := range page.Results {
			assert.Contains(t, r.Snippet, "[")
		}
	})

	t.Run("empty term returns empty page", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)

		page, err := s.SearchShapes(context.Background(),
			vsx.SearchQuery{Term: "   ", Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Total)
		assert.Empty(t, page.Results)
	})

	t.Run("list all returns the full catalog", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)

		page, err := s.SearchShapes(context.Background(),
			vsx.SearchQuery{Page: 1, PageSize: 20, ListAll: true})
		require.NoError(t, err)
		assert.Equal(t, 6, page.Total)
	})

	t.Run("search is deterministic", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)
		ctx := context.Background()
		q := vsx.SearchQuery{Term: "router", Page: 1, PageSize: 20}

		first, err := s.SearchShapes(ctx, q)
		require.NoError(t, err)
		second, err := s.SearchShapes(ctx, q)
		require.NoError(t, err)

		require.Equal(t, first.Total, second.Total)
		require.Len(t, second.Results, len(first.Results))
		for i := range first.Results {
			assert.Equal(t, first.Results[i].Shape.ID, second.Results[i].Shape.ID)
		}
	})

	t.Run("pagination covers every id exactly once", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)
		ctx := context.Background()

		seen := make(map[int64]int)
		total := 0
		for page := 1; ; page++ {
			got, err := s.SearchShapes(ctx, vsx.SearchQuery{Page: page, PageSize: 2, ListAll: true})
			require.NoError(t, err)
			total = got.Total
			if len(got.Results) == 0 {
				break
			}
			for _, r := range got.Results {
				seen[r.Shape.ID]++
			}
		}

		assert.Len(t, seen, total)
		for id, count := range seen {
			assert.Equal(t, 1, count, "shape %d appeared %d times", id, count)
		}
	})

	t.Run("page past the end keeps the total", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)
		ctx := context.Background()

		page, err := s.SearchShapes(ctx, vsx.SearchQuery{Page: 10, PageSize: 2, ListAll: true})
		require.NoError(t, err)
		assert.Empty(t, page.Results)
		assert.Equal(t, 6, page.Total)

		page, err = s.SearchShapes(ctx, vsx.SearchQuery{Term: "router", Page: 5, PageSize: 2, Mode: vsx.ModeFTS})
		require.NoError(t, err)
		assert.Empty(t, page.Results)
		assert.Equal(t, 3, page.Total)
	})

	t.Run("FTS and LIKE agree on simple terms", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)
		ctx := context.Background()

		ids := func(mode vsx.SearchMode) map[int64]struct{} {
			page, err := s.SearchShapes(ctx, vsx.SearchQuery{Term: "Router", Page: 1, PageSize: 50, Mode: mode})
			require.NoError(t, err)
			set := make(map[int64]struct{}, len(page.Results))
			for _, r := range page.Results {
				set[r.Shape.ID] = struct{}{}
			}
			return set
		}

		assert.Equal(t, ids(vsx.ModeFTS), ids(vsx.ModeLike))
	})

	t.Run("dimension filters compose with the text match", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)

		minW := 1.0
		page, err := s.SearchShapes(context.Background(), vsx.SearchQuery{
			Term: "router", Page: 1, PageSize: 20,
			Filters: vsx.SearchFilters{MinWidth: &minW},
		})
		require.NoError(t, err)
		// "Data Router" has no width and is excluded by the filter.
		assert.Equal(t, 2, page.Total)
	})

	t.Run("property filter matches key and value", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)

		page, err := s.SearchShapes(context.Background(), vsx.SearchQuery{
			Term: "router", Page: 1, PageSize: 20,
			Filters: vsx.SearchFilters{PropertyKey: "vendor", PropertyValue: "acme"},
		})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
	})

	t.Run("case sensitive fallback distinguishes case", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)
		ctx := context.Background()

		page, err := s.SearchShapes(ctx, vsx.SearchQuery{
			Term: "router", Page: 1, PageSize: 20, Mode: vsx.ModeLike,
			Filters: vsx.SearchFilters{CaseSensitive: true},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Total)

		page, err = s.SearchShapes(ctx, vsx.SearchQuery{
			Term: "Router", Page: 1, PageSize: 20, Mode: vsx.ModeLike,
			Filters: vsx.SearchFilters{CaseSensitive: true},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
	})

	t.Run("directory prefix filter limits results", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)

		page, err := s.SearchShapes(context.Background(), vsx.SearchQuery{
			Term: "router", Page: 1, PageSize: 20,
			Filters: vsx.SearchFilters{DirectoryPrefix: "/stencils/network"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("rejects invalid queries", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		s := sqlite.NewSearchService(db)

		_, err := s.SearchShapes(context.Background(), vsx.SearchQuery{Term: "x", Page: 0, PageSize: 20})
		assert.Equal(t, vsx.EINVALID, vsx.ErrorCode(err))
	})

	t.Run("quoted phrases match as a unit", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)
		ctx := context.Background()

		for _, mode := range []vsx.SearchMode{vsx.ModeFTS, vsx.ModeLike} {
			page, err := s.SearchShapes(ctx, vsx.SearchQuery{Term: `"data router"`, Page: 1, PageSize: 20, Mode: mode})
			require.NoError(t, err)
			require.Equal(t, 1, page.Total, "mode %s", mode)
			assert.Equal(t, "Data Router", page.Results[0].Shape.Name)
		}
	})

	t.Run("OR matches either alternative", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)
		ctx := context.Background()

		for _, mode := range []vsx.SearchMode{vsx.ModeFTS, vsx.ModeLike} {
			page, err := s.SearchShapes(ctx, vsx.SearchQuery{Term: "switch OR decision", Page: 1, PageSize: 20, Mode: mode})
			require.NoError(t, err)
			assert.Equal(t, 2, page.Total, "mode %s", mode)
		}
	})

	t.Run("exclusions compose into the query", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)
		ctx := context.Background()

		for _, mode := range []vsx.SearchMode{vsx.ModeFTS, vsx.ModeLike} {
			page, err := s.SearchShapes(ctx, vsx.SearchQuery{Term: "router -data", Page: 1, PageSize: 20, Mode: mode})
			require.NoError(t, err)
			assert.Equal(t, 2, page.Total, "mode %s", mode)
			for _, r := range page.Results {
				assert.Equal(t, "Router", r.Shape.Name)
			}
		}
	})

	t.Run("pure exclusions are served by the fallback", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)

		page, err := s.SearchShapes(context.Background(),
			vsx.SearchQuery{Term: "-router", Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		for _, r := range page.Results {
			assert.NotContains(t, r.Shape.Name, "Router")
		}
	})

	t.Run("inline property terms filter like property filters", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)

		page, err := s.SearchShapes(context.Background(),
			vsx.SearchQuery{Term: "router vendor:acme", Page: 1, PageSize: 20})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, "Router", page.Results[0].Shape.Name)
	})

	t.Run("ties break on name then stencil path", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		seedCatalog(t, db)
		s := sqlite.NewSearchService(db)

		page, err := s.SearchShapes(context.Background(),
			vsx.SearchQuery{Term: "router", Page: 1, PageSize: 20, Mode: vsx.ModeLike})
		require.NoError(t, err)
		require.Len(t, page.Results, 3)
		assert.Equal(t, "Data Router", page.Results[0].Shape.Name)
		assert.Equal(t, "Router", page.Results[1].Shape.Name)
		assert.Equal(t, "Router", page.Results[2].Shape.Name)
		assert.LessOrEqual(t, page.Results[1].Shape.ID, page.Results[2].Shape.ID)
	})
}
