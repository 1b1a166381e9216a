package http

import "net/http"

// healthResponse reports API and database liveness.
type healthResponse struct {
	APIStatus string `json:"api_status"`
	DBStatus  string `json:"db_status"`
	DBMessage string `json:"db_message,omitempty"`
	Degraded  bool   `json:"degraded"`
}

// handleHealth serves GET /health. A failing database probe is reported in
// the body rather than as an error status; the API itself is still up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{APIStatus: "ok", DBStatus: "ok"}

	if s.Ping != nil {
		if err := s.Ping(r.Context()); err != nil {
			resp.DBStatus = "error"
			resp.DBMessage = err.Error()
		}
	}
	if s.Degraded != nil && s.Degraded() {
		resp.Degraded = true
	}

	s.writeJSON(w, http.StatusOK, resp)
}
