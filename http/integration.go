package http

import (
	"context"
	"net/http"

	"github.com/fwojciec/vsx"
)

// commandRequest is a generic action dispatch body.
type commandRequest struct {
	Command string            `json:"command"`
	Params  map[string]string `json:"params,omitempty"`
}

// commandResponse is the generic action dispatch result.
type commandResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// handleIntegrationCommand serves POST /integration/command.
func (s *Server) handleIntegrationCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decodeJSON(r, &req); err != nil {
		s.Error(w, r, err)
		return
	}

	switch req.Command {
	case "scan":
		s.commandScan(w, r, req.Params)
	case "scan_status":
		status, err := s.ScanService.Status()
		if err != nil {
			s.Error(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, commandResponse{Status: "ok", Result: status})
	case "analyze":
		report, err := s.HealthService.Analyze(r.Context())
		if err != nil {
			s.Error(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, commandResponse{Status: "ok", Result: report})
	case "rebuild_index":
		if s.RebuildIndex == nil {
			s.Error(w, r, vsx.Errorf(vsx.EUNSUPPORTED, "index rebuild not available"))
			return
		}
		if err := s.RebuildIndex(r.Context()); err != nil {
			s.Error(w, r, vsx.Errorf(vsx.EINTERNAL, "index rebuild failed: %v", err))
			return
		}
		s.writeJSON(w, http.StatusOK, commandResponse{Status: "ok", Message: "index rebuilt"})
	case "bridge_status":
		status := s.Gateway.Status(r.Context())
		s.writeJSON(w, http.StatusOK, commandResponse{Status: "ok", Result: map[string]vsx.GatewayStatus{"bridge": status}})
	default:
		s.Error(w, r, vsx.Errorf(vsx.EINVALID, "unknown command %q", req.Command))
	}
}

// commandScan starts a scan in the background. The scan outlives the
// request, so it runs with its own context; progress is available through
// the scan_status command.
func (s *Server) commandScan(w http.ResponseWriter, r *http.Request, params map[string]string) {
	root := params["root"]
	if root == "" {
		s.Error(w, r, vsx.Errorf(vsx.EINVALID, "scan root required"))
		return
	}

	if status, err := s.ScanService.Status(); err == nil && status.Running {
		s.Error(w, r, vsx.Errorf(vsx.ECONFLICT, "a scan is already running"))
		return
	}

	go func() {
		if _, err := s.ScanService.Scan(context.Background(), root); err != nil {
			s.Logger.Error("background scan", "root", root, "err", err)
		}
	}()

	s.writeJSON(w, http.StatusAccepted, commandResponse{Status: "accepted", Message: "scan started"})
}

// handleImport serves POST /import by forwarding the payload to the
// integration bridge.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var payload vsx.ImportPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.Error(w, r, err)
		return
	}
	if err := payload.Validate(); err != nil {
		s.Error(w, r, err)
		return
	}

	result, err := s.Gateway.Submit(r.Context(), payload)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}
