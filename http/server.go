// Package http provides the JSON API server and the HTTP client for the
// integration bridge.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/vsx"
)

// ShutdownTimeout is the time given for graceful shutdown before the
// server is forcibly closed.
const ShutdownTimeout = 5 * time.Second

// Server is the HTTP JSON API over the catalog services.
type Server struct {
	ln     net.Listener
	server *http.Server

	// Addr is the bind address, e.g. "127.0.0.1:8080".
	Addr string

	Logger *slog.Logger

	StencilService     vsx.StencilService
	ShapeService       vsx.ShapeService
	SearchService      vsx.SearchService
	FavoriteService    vsx.FavoriteService
	CollectionService  vsx.CollectionService
	DirectoryService   vsx.DirectoryService
	SavedSearchService vsx.SavedSearchService
	HealthService      vsx.HealthService
	ScanService        vsx.ScanService
	PreviewRenderer    vsx.PreviewRenderer
	Gateway            vsx.Gateway

	// Degraded reports whether the search index is unusable. Wired to the
	// store so /health can expose the degraded-mode flag.
	Degraded func() bool

	// Ping probes the store's connection for /health. A nil Ping reports
	// the database as up.
	Ping func(ctx context.Context) error

	// RebuildIndex rebuilds the search index, for the rebuild_index
	// integration command.
	RebuildIndex func(ctx context.Context) error
}

// NewServer creates a Server with its routes registered.
func NewServer() *Server {
	s := &Server{Logger: slog.Default()}
	return s
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /search", s.handleSearch)

	mux.HandleFunc("GET /stencils", s.handleStencilList)
	mux.HandleFunc("GET /stencils/{path...}", s.handleStencilDetail)

	mux.HandleFunc("GET /shapes/{id}", s.handleShapeDetail)
	mux.HandleFunc("GET /shapes/{id}/preview", s.handleShapePreview)

	mux.HandleFunc("GET /favorites", s.handleFavoriteList)
	mux.HandleFunc("POST /favorites", s.handleFavoriteCreate)
	mux.HandleFunc("DELETE /favorites/{id}", s.handleFavoriteDelete)

	mux.HandleFunc("GET /collections", s.handleCollectionList)
	mux.HandleFunc("POST /collections", s.handleCollectionCreate)
	mux.HandleFunc("GET /collections/{id}", s.handleCollectionDetail)
	mux.HandleFunc("GET /collections/{id}/shapes", s.handleCollectionShapes)
	mux.HandleFunc("PUT /collections/{id}", s.handleCollectionUpdate)
	mux.HandleFunc("DELETE /collections/{id}", s.handleCollectionDelete)

	mux.HandleFunc("GET /directories", s.handleDirectoryList)
	mux.HandleFunc("POST /directories", s.handleDirectoryCreate)
	mux.HandleFunc("PUT /directories/{id}/activate", s.handleDirectoryActivate)
	mux.HandleFunc("DELETE /directories/{id}", s.handleDirectoryDelete)

	mux.HandleFunc("GET /saved-searches", s.handleSavedSearchList)
	mux.HandleFunc("POST /saved-searches", s.handleSavedSearchCreate)
	mux.HandleFunc("DELETE /saved-searches/{id}", s.handleSavedSearchDelete)

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /integration/command", s.handleIntegrationCommand)
	mux.HandleFunc("POST /import", s.handleImport)

	return mux
}

// Open starts listening on Addr.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.server = &http.Server{Handler: s.Handler()}

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("http server", "err", err)
		}
	}()

	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the server's base URL once it is listening.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	vsx.ECONFLICT:    http.StatusConflict,
	vsx.ECORRUPT:     http.StatusUnprocessableEntity,
	vsx.EINVALID:     http.StatusBadRequest,
	vsx.ENOTFOUND:    http.StatusNotFound,
	vsx.EUNAVAILABLE: http.StatusServiceUnavailable,
	vsx.EUNSUPPORTED: http.StatusUnprocessableEntity,
	vsx.EINTERNAL:    http.StatusInternalServerError,
}

// Error writes an application error as a JSON response. Internal error
// details are logged, never sent to the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := vsx.ErrorCode(err), vsx.ErrorMessage(err)

	if code == vsx.EINTERNAL {
		s.Logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	status, ok := codes[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	s.writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", "err", err)
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return vsx.Errorf(vsx.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}
