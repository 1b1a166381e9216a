package http

import (
	"net/http"

	"github.com/fwojciec/vsx"
)

// handleSavedSearchList serves GET /saved-searches.
func (s *Server) handleSavedSearchList(w http.ResponseWriter, r *http.Request) {
	searches, err := s.SavedSearchService.FindSavedSearches(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if searches == nil {
		searches = []*vsx.SavedSearch{}
	}
	s.writeJSON(w, http.StatusOK, searches)
}

// handleSavedSearchCreate serves POST /saved-searches.
func (s *Server) handleSavedSearchCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string            `json:"name"`
		Term    string            `json:"term"`
		Filters vsx.SearchFilters `json:"filters"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.Error(w, r, err)
		return
	}

	saved := &vsx.SavedSearch{Name: body.Name, Term: body.Term, Filters: body.Filters}
	if err := s.SavedSearchService.CreateSavedSearch(r.Context(), saved); err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

// handleSavedSearchDelete serves DELETE /saved-searches/{id}.
func (s *Server) handleSavedSearchDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if err := s.SavedSearchService.DeleteSavedSearch(r.Context(), id); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
