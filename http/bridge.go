package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/vsx"
)

// DefaultBridgeTimeout is the default timeout for bridge requests.
const DefaultBridgeTimeout = 10 * time.Second

// Ensure Bridge implements vsx.Gateway at compile time.
var _ vsx.Gateway = (*Bridge)(nil)

// Bridge forwards imports to the external diagram automation bridge over
// HTTP. The bridge drives a single stateful application instance, so all
// calls are serialized through a mutex.
type Bridge struct {
	mu      sync.Mutex
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithBridgeTimeout sets the timeout for bridge requests.
// Defaults to DefaultBridgeTimeout (10s) if not specified.
func WithBridgeTimeout(d time.Duration) BridgeOption {
	return func(b *Bridge) {
		b.timeout = d
	}
}

// NewBridge creates a Bridge client for the given base URL.
func NewBridge(baseURL string, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		baseURL: baseURL,
		timeout: DefaultBridgeTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.client = &http.Client{
		Timeout: b.timeout,
	}

	return b
}

// Submit forwards the payload to the bridge's import endpoint. An
// unreachable bridge returns EUNAVAILABLE; that is an expected condition
// when the diagram application is not running.
func (b *Bridge) Submit(ctx context.Context, payload vsx.ImportPayload) (*vsx.ImportResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, vsx.Errorf(vsx.EINTERNAL, "marshal import payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/import", bytes.NewReader(body))
	if err != nil {
		return nil, vsx.Errorf(vsx.EINTERNAL, "build bridge request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, vsx.Errorf(vsx.EUNAVAILABLE, "bridge unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, vsx.Errorf(vsx.EUNAVAILABLE, "bridge returned HTTP %d: %s", resp.StatusCode, msg)
	}

	var result vsx.ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, vsx.Errorf(vsx.EINTERNAL, "decode bridge response: %v", err)
	}
	return &result, nil
}

// Status probes the bridge's health endpoint.
func (b *Bridge) Status(ctx context.Context) vsx.GatewayStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return vsx.GatewayError
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return vsx.GatewayDisconnected
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return vsx.GatewayError
	}
	return vsx.GatewayConnected
}
