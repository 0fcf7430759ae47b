package foodsense_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	foodsense "github.com/foodsense/foodsense-go"
)

// harness wires a real Client+AuthStore against an httptest fake of the
// remote service, with an in-memory session store.
type harness struct {
	storage *foodsense.MemoryStorage
	client  *foodsense.Client
	store   *foodsense.AuthStore
	server  *httptest.Server

	mu        sync.Mutex
	redirects []string
}

func newHarness(t *testing.T, handler http.Handler) *harness {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := foodsense.SimpleConfig{BaseURL: server.URL}
	storage := foodsense.NewMemoryStorage()
	client := foodsense.NewClient(cfg, storage)

	h := &harness{
		storage: storage,
		client:  client,
		server:  server,
	}
	h.store = foodsense.NewAuthStore(client, storage, cfg).
		WithRedirectHandler(func(target string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.redirects = append(h.redirects, target)
		})
	return h
}

func (h *harness) redirectCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redirects)
}

func (h *harness) lastRedirect() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redirects) == 0 {
		return ""
	}
	return h.redirects[len(h.redirects)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	value := r.Header.Get("Authorization")
	if len(value) <= len(prefix) || value[:len(prefix)] != prefix {
		return ""
	}
	return value[len(prefix):]
}

func tokenResponse(token string, user *foodsense.UserProfile) foodsense.TokenResponse {
	return foodsense.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}
}
