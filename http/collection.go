package http

import (
	"net/http"

	"github.com/fwojciec/vsx"
)

// handleCollectionList serves GET /collections.
func (s *Server) handleCollectionList(w http.ResponseWriter, r *http.Request) {
	collections, err := s.CollectionService.FindCollections(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if collections == nil {
		collections = []*vsx.Collection{}
	}
	s.writeJSON(w, http.StatusOK, collections)
}

// handleCollectionCreate serves POST /collections.
func (s *Server) handleCollectionCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.Error(w, r, err)
		return
	}

	collection := &vsx.Collection{Name: body.Name}
	if err := s.CollectionService.CreateCollection(r.Context(), collection); err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, collection)
}

// handleCollectionDetail serves GET /collections/{id}.
func (s *Server) handleCollectionDetail(w http.ResponseWriter, r *http.Request) {
	collection, err := s.CollectionService.FindCollectionByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, collection)
}

// handleCollectionShapes serves GET /collections/{id}/shapes.
func (s *Server) handleCollectionShapes(w http.ResponseWriter, r *http.Request) {
	shapes, err := s.CollectionService.FindCollectionShapes(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if shapes == nil {
		shapes = []*vsx.Shape{}
	}
	s.writeJSON(w, http.StatusOK, shapes)
}

// handleCollectionUpdate serves PUT /collections/{id}.
func (s *Server) handleCollectionUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name           *string `json:"name"`
		AddShapeIDs    []int64 `json:"add_shape_ids"`
		RemoveShapeIDs []int64 `json:"remove_shape_ids"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.Error(w, r, err)
		return
	}

	collection, err := s.CollectionService.UpdateCollection(r.Context(), r.PathValue("id"), vsx.CollectionUpdate{
		Name:           body.Name,
		AddShapeIDs:    body.AddShapeIDs,
		RemoveShapeIDs: body.RemoveShapeIDs,
	})
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, collection)
}

// handleCollectionDelete serves DELETE /collections/{id}.
func (s *Server) handleCollectionDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.CollectionService.DeleteCollection(r.Context(), r.PathValue("id")); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
