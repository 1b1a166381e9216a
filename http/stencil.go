package http

import (
	"net/http"
	"strconv"

	"github.com/fwojciec/vsx"
)

// handleStencilList serves GET /stencils.
func (s *Server) handleStencilList(w http.ResponseWriter, r *http.Request) {
	var filter vsx.StencilFilter
	if v := r.URL.Query().Get("prefix"); v != "" {
		filter.PathPrefix = &v
	}

	stencils, err := s.StencilService.FindStencils(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if stencils == nil {
		stencils = []*vsx.Stencil{}
	}
	s.writeJSON(w, http.StatusOK, stencils)
}

// stencilDetailResponse is a stencil plus its shapes.
type stencilDetailResponse struct {
	*vsx.Stencil
	Shapes []*vsx.Shape `json:"shapes"`
}

// handleStencilDetail serves GET /stencils/{path...}. The wildcard carries
// the stencil path, which contains slashes; a leading slash is restored
// since route matching strips it.
func (s *Server) handleStencilDetail(w http.ResponseWriter, r *http.Request) {
	path := "/" + r.PathValue("path")

	stencil, err := s.StencilService.FindStencilByPath(r.Context(), path)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	shapes, err := s.ShapeService.FindShapesByStencil(r.Context(), path)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if shapes == nil {
		shapes = []*vsx.Shape{}
	}

	s.writeJSON(w, http.StatusOK, stencilDetailResponse{Stencil: stencil, Shapes: shapes})
}

// handleShapeDetail serves GET /shapes/{id}.
func (s *Server) handleShapeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	shape, err := s.ShapeService.FindShapeByID(r.Context(), id)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, shape)
}

// handleShapePreview serves GET /shapes/{id}/preview as an SVG document.
func (s *Server) handleShapePreview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	shape, err := s.ShapeService.FindShapeByID(r.Context(), id)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	preview, err := s.PreviewRenderer.Render(r.Context(), shape)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if preview.Placeholder {
		w.Header().Set("X-Preview-Placeholder", "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(preview.SVG)
}

// pathID parses the {id} path value as an int64.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, vsx.Errorf(vsx.EINVALID, "invalid id %q", r.PathValue("id"))
	}
	return id, nil
}
