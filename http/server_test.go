package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/vsx"
	vsxhttp "github.com/fwojciec/vsx/http"
	"github.com/fwojciec/vsx/mock"
)

// newTestServer returns a server with all services mocked out. Tests
// install the function fields they exercise.
func newTestServer() (*vsxhttp.Server, *mocks) {
	m := &mocks{}
	s := vsxhttp.NewServer()
	s.StencilService = &m.stencils
	s.ShapeService = &m.shapes
	s.SearchService = &m.search
	s.FavoriteService = &m.favorites
	s.CollectionService = &m.collections
	s.DirectoryService = &m.directories
	s.SavedSearchService = &m.savedSearches
	s.HealthService = &m.health
	s.ScanService = &m.scans
	s.PreviewRenderer = &m.previews
	s.Gateway = &m.gateway
	return s, m
}

type mocks struct {
	stencils      mock.StencilService
	shapes        mock.ShapeService
	search        mock.SearchService
	favorites     mock.FavoriteService
	collections   mock.CollectionService
	directories   mock.DirectoryService
	savedSearches mock.SavedSearchService
	health        mock.HealthService
	scans         mock.ScanService
	previews      mock.PreviewRenderer
	gateway       mock.Gateway
}

func doRequest(t *testing.T, s *vsxhttp.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestServer_Search(t *testing.T) {
	t.Parallel()

	t.Run("passes query through", func(t *testing.T) {
		t.Parallel()
		s, m := newTestServer()

		var got vsx.SearchQuery
		m.search.SearchShapesFn = func(ctx context.Context, q vsx.SearchQuery) (*vsx.SearchPage, error) {
			got = q
			return &vsx.SearchPage{Results: []*vsx.SearchResult{}, Page: q.Page, Size: q.PageSize}, nil
		}

		w := doRequest(t, s, http.MethodGet, "/search?q=router&page=2&size=10&mode=fts&min_width=1.5&prop_key=vendor&prop_value=acme&dir=/data", "")
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, "router", got.Term)
		assert.Equal(t, 2, got.Page)
		assert.Equal(t, 10, got.PageSize)
		assert.Equal(t, vsx.ModeFTS, got.Mode)
		require.NotNil(t, got.Filters.MinWidth)
		assert.Equal(t, 1.5, *got.Filters.MinWidth)
		assert.Equal(t, "vendor", got.Filters.PropertyKey)
		assert.Equal(t, "acme", got.Filters.PropertyValue)
		assert.Equal(t, "/data", got.Filters.DirectoryPrefix)
	})

	t.Run("invalid page is rejected", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestServer()

		w := doRequest(t, s, http.MethodGet, "/search?q=router&page=abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid dimension filter is rejected", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestServer()

		w := doRequest(t, s, http.MethodGet, "/search?q=router&min_width=wide", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_StencilDetail(t *testing.T) {
	t.Parallel()

	t.Run("restores leading slash in path", func(t *testing.T) {
		t.Parallel()
		s, m := newTestServer()

		var gotPath string
		m.stencils.FindStencilByPathFn = func(ctx context.Context, path string) (*vsx.Stencil, error) {
			gotPath = path
			return &vsx.Stencil{Path: path, Name: "net"}, nil
		}
		m.shapes.FindShapesByStencilFn = func(ctx context.Context, stencilPath string) ([]*vsx.Shape, error) {
			return []*vsx.Shape{{ID: 1, Name: "Router"}}, nil
		}

		w := doRequest(t, s, http.MethodGet, "/stencils/data/stencils/net.vssx", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/data/stencils/net.vssx", gotPath)
	})

	t.Run("unknown stencil returns 404", func(t *testing.T) {
		t.Parallel()
		s, m := newTestServer()

		m.stencils.FindStencilByPathFn = func(ctx context.Context, path string) (*vsx.Stencil, error) {
			return nil, vsx.Errorf(vsx.ENOTFOUND, "stencil not found")
		}

		w := doRequest(t, s, http.MethodGet, "/stencils/data/missing.vssx", "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		body := decodeBody[map[string]string](t, w)
		assert.Equal(t, vsx.ENOTFOUND, body["code"])
	})
}

func TestServer_ShapePreview(t *testing.T) {
	t.Parallel()

	s, m := newTestServer()
	m.shapes.FindShapeByIDFn = func(ctx context.Context, id int64) (*vsx.Shape, error) {
		return &vsx.Shape{ID: id, Name: "Router"}, nil
	}
	m.previews.RenderFn = func(ctx context.Context, shape *vsx.Shape) (*vsx.Preview, error) {
		return &vsx.Preview{SVG: []byte("<svg/>"), Placeholder: true}, nil
	}

	w := doRequest(t, s, http.MethodGet, "/shapes/7/preview", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Equal(t, "true", w.Header().Get("X-Preview-Placeholder"))
	assert.Equal(t, "<svg/>", w.Body.String())
}

func TestServer_Favorites(t *testing.T) {
	t.Parallel()

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		s, m := newTestServer()

		m.favorites.CreateFavoriteFn = func(ctx context.Context, f *vsx.Favorite) error {
			f.ID = 1
			return nil
		}

		w := doRequest(t, s, http.MethodPost, "/favorites", `{"stencil_path":"/data/net.vssx","shape_id":3}`)
		require.Equal(t, http.StatusCreated, w.Code)

		fav := decodeBody[vsx.Favorite](t, w)
		assert.Equal(t, int64(1), fav.ID)
		assert.Equal(t, "/data/net.vssx", fav.StencilPath)
		require.NotNil(t, fav.ShapeID)
		assert.Equal(t, int64(3), *fav.ShapeID)
	})

	t.Run("duplicate returns 409", func(t *testing.T) {
		t.Parallel()
		s, m := newTestServer()

		m.favorites.CreateFavoriteFn = func(ctx context.Context, f *vsx.Favorite) error {
			return vsx.Errorf(vsx.ECONFLICT, "already a favorite")
		}

		w := doRequest(t, s, http.MethodPost, "/favorites", `{"stencil_path":"/data/net.vssx"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("delete with bad id returns 400", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestServer()

		w := doRequest(t, s, http.MethodDelete, "/favorites/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_CollectionUpdate(t *testing.T) {
	t.Parallel()

	s, m := newTestServer()

	var gotUpdate vsx.CollectionUpdate
	m.collections.UpdateCollectionFn = func(ctx context.Context, id string, upd vsx.CollectionUpdate) (*vsx.Collection, error) {
		gotUpdate = upd
		return &vsx.Collection{ID: id, Name: "renamed", ShapeCount: 2}, nil
	}

	w := doRequest(t, s, http.MethodPut, "/collections/abc-123", `{"name":"renamed","add_shape_ids":[1,2],"remove_shape_ids":[9]}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, gotUpdate.Name)
	assert.Equal(t, "renamed", *gotUpdate.Name)
	assert.Equal(t, []int64{1, 2}, gotUpdate.AddShapeIDs)
	assert.Equal(t, []int64{9}, gotUpdate.RemoveShapeIDs)
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	t.Run("all up", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestServer()
		s.Ping = func(ctx context.Context) error { return nil }
		s.Degraded = func() bool { return false }

		w := doRequest(t, s, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody[map[string]any](t, w)
		assert.Equal(t, "ok", body["api_status"])
		assert.Equal(t, "ok", body["db_status"])
	})

	t.Run("db down is reported in the body", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestServer()
		s.Ping = func(ctx context.Context) error {
			return vsx.Errorf(vsx.EUNAVAILABLE, "database is locked")
		}

		w := doRequest(t, s, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody[map[string]any](t, w)
		assert.Equal(t, "ok", body["api_status"])
		assert.Equal(t, "error", body["db_status"])
		assert.Contains(t, body["db_message"], "database is locked")
	})

	t.Run("degraded index is flagged", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestServer()
		s.Degraded = func() bool { return true }

		w := doRequest(t, s, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody[map[string]any](t, w)
		assert.Equal(t, true, body["degraded"])
	})
}
