package vsx

import "context"

// GatewayStatus describes the integration bridge's availability.
type GatewayStatus string

// Gateway statuses.
const (
	GatewayConnected    GatewayStatus = "connected"
	GatewayDisconnected GatewayStatus = "disconnected"
	GatewayError        GatewayStatus = "error"
)

// Import payload types.
const (
	ImportText  = "text"
	ImportImage = "image"
)

// ImportPayload is content forwarded to the diagram application.
type ImportPayload struct {
	Type     string            `json:"type"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate returns an error if the payload contains invalid fields.
func (p *ImportPayload) Validate() error {
	if p.Type != ImportText && p.Type != ImportImage {
		return Errorf(EINVALID, "import type must be %q or %q", ImportText, ImportImage)
	}
	if p.Content == "" {
		return Errorf(EINVALID, "import content required")
	}
	return nil
}

// ImportResult reports the outcome of a forwarded import.
type ImportResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Gateway is the narrow capability interface to the external diagram
// automation bridge. The bridge is stateful and single-threaded, so
// implementations serialize calls; a bridge that is not running surfaces as
// EUNAVAILABLE, which is an expected condition rather than a bug.
type Gateway interface {
	// Submit forwards content to the bridge.
	Submit(ctx context.Context, payload ImportPayload) (*ImportResult, error)

	// Status probes the bridge's availability.
	Status(ctx context.Context) GatewayStatus
}
