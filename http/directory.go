package http

import (
	"net/http"

	"github.com/fwojciec/vsx"
)

// handleDirectoryList serves GET /directories.
func (s *Server) handleDirectoryList(w http.ResponseWriter, r *http.Request) {
	directories, err := s.DirectoryService.FindDirectories(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if directories == nil {
		directories = []*vsx.DirectoryPreset{}
	}
	s.writeJSON(w, http.StatusOK, directories)
}

// handleDirectoryCreate serves POST /directories.
func (s *Server) handleDirectoryCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.Error(w, r, err)
		return
	}

	preset := &vsx.DirectoryPreset{Path: body.Path, Name: body.Name}
	if err := s.DirectoryService.CreateDirectory(r.Context(), preset); err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, preset)
}

// handleDirectoryActivate serves PUT /directories/{id}/activate.
func (s *Server) handleDirectoryActivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if err := s.DirectoryService.ActivateDirectory(r.Context(), id); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDirectoryDelete serves DELETE /directories/{id}.
func (s *Server) handleDirectoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if err := s.DirectoryService.DeleteDirectory(r.Context(), id); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
