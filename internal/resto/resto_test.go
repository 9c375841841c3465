package resto

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"olap_report/internal/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "session-key-123"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.AuthTimeout = 2 * time.Second
	cfg.DictionaryTimeout = 2 * time.Second
	cfg.WriteoffTimeout = 2 * time.Second
	cfg.ReportTimeout = 2 * time.Second
	return NewClient(cfg, zap.NewNop())
}

func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range routes {
		mux.HandleFunc(path, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func jsonHandler(t *testing.T, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != testKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func testSession(srv *httptest.Server) Session {
	return Session{BaseURL: srv.URL, Key: testKey}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(dateLayout, value)
	require.NoError(t, err)
	return parsed
}
