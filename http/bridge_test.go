package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/vsx"
	vsxhttp "github.com/fwojciec/vsx/http"
)

func TestBridge_Submit(t *testing.T) {
	t.Parallel()

	t.Run("forwards the payload", func(t *testing.T) {
		t.Parallel()

		var got vsx.ImportPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/import", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(vsx.ImportResult{Status: "ok", Message: "imported"})
		}))
		defer srv.Close()

		bridge := vsxhttp.NewBridge(srv.URL)
		result, err := bridge.Submit(context.Background(), vsx.ImportPayload{Type: vsx.ImportText, Content: "hello"})
		require.NoError(t, err)

		assert.Equal(t, "ok", result.Status)
		assert.Equal(t, "imported", result.Message)
		assert.Equal(t, vsx.ImportText, got.Type)
		assert.Equal(t, "hello", got.Content)
	})

	t.Run("unreachable bridge is EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		bridge := vsxhttp.NewBridge(srv.URL)
		_, err := bridge.Submit(context.Background(), vsx.ImportPayload{Type: vsx.ImportText, Content: "hello"})
		require.Error(t, err)
		assert.Equal(t, vsx.EUNAVAILABLE, vsx.ErrorCode(err))
	})

	t.Run("non-200 response is EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "busy", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		bridge := vsxhttp.NewBridge(srv.URL)
		_, err := bridge.Submit(context.Background(), vsx.ImportPayload{Type: vsx.ImportText, Content: "hello"})
		require.Error(t, err)
		assert.Equal(t, vsx.EUNAVAILABLE, vsx.ErrorCode(err))
	})
}

func TestBridge_Status(t *testing.T) {
	t.Parallel()

	t.Run("connected", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		bridge := vsxhttp.NewBridge(srv.URL)
		assert.Equal(t, vsx.GatewayConnected, bridge.Status(context.Background()))
	})

	t.Run("disconnected when unreachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		bridge := vsxhttp.NewBridge(srv.URL)
		assert.Equal(t, vsx.GatewayDisconnected, bridge.Status(context.Background()))
	})

	t.Run("error on unhealthy response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		bridge := vsxhttp.NewBridge(srv.URL)
		assert.Equal(t, vsx.GatewayError, bridge.Status(context.Background()))
	})
}
