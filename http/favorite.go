package http

import (
	"net/http"

	"github.com/fwojciec/vsx"
)

// handleFavoriteList serves GET /favorites.
func (s *Server) handleFavoriteList(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.FavoriteService.FindFavorites(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if favorites == nil {
		favorites = []*vsx.Favorite{}
	}
	s.writeJSON(w, http.StatusOK, favorites)
}

// handleFavoriteCreate serves POST /favorites.
func (s *Server) handleFavoriteCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StencilPath string `json:"stencil_path"`
		ShapeID     *int64 `json:"shape_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.Error(w, r, err)
		return
	}

	favorite := &vsx.Favorite{StencilPath: body.StencilPath, ShapeID: body.ShapeID}
	if err := s.FavoriteService.CreateFavorite(r.Context(), favorite); err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, favorite)
}

// handleFavoriteDelete serves DELETE /favorites/{id}.
func (s *Server) handleFavoriteDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if err := s.FavoriteService.DeleteFavorite(r.Context(), id); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
