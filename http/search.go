package http

import (
	"net/http"
	"strconv"

	"github.com/fwojciec/vsx"
)

// handleSearch serves GET /search. Query parameters: q, page, size, mode,
// all, plus structural filters (min_width, max_width, min_height,
// max_height, prop_key, prop_value, case_sensitive, dir).
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := vsx.SearchQuery{
		Term:     r.URL.Query().Get("q"),
		Page:     1,
		PageSize: 20,
		Mode:     vsx.SearchMode(r.URL.Query().Get("mode")),
		ListAll:  r.URL.Query().Get("all") == "true",
	}

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.Error(w, r, vsx.Errorf(vsx.EINVALID, "invalid page %q", v))
			return
		}
		q.Page = n
	}
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.Error(w, r, vsx.Errorf(vsx.EINVALID, "invalid size %q", v))
			return
		}
		q.PageSize = n
	}

	filters, err := filtersFromQuery(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	q.Filters = *filters

	page, err := s.SearchService.SearchShapes(r.Context(), q)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

func filtersFromQuery(r *http.Request) (*vsx.SearchFilters, error) {
	var filters vsx.SearchFilters

	dims := map[string]**float64{
		"min_width":  &filters.MinWidth,
		"max_width":  &filters.MaxWidth,
		"min_height": &filters.MinHeight,
		"max_height": &filters.MaxHeight,
	}
	for name, dst := range dims {
		v := r.URL.Query().Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, vsx.Errorf(vsx.EINVALID, "invalid %s %q", name, v)
		}
		*dst = &f
	}

	filters.PropertyKey = r.URL.Query().Get("prop_key")
	filters.PropertyValue = r.URL.Query().Get("prop_value")
	filters.CaseSensitive = r.URL.Query().Get("case_sensitive") == "true"
	filters.DirectoryPrefix = r.URL.Query().Get("dir")

	return &filters, nil
}
