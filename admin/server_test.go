package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meridianlab/marketgate/gate"
)

func newTestServer(t *testing.T) (*Server, *gate.Gateway, *int) {
	t.Helper()

	g, err := gate.New(gate.Config{Namespace: "test"})
	if err != nil {
		t.Fatalf("gate.New: %v", err)
	}
	calls := 0
	err = g.Register(gate.DependencyConfig{
		Name:     "nft-api",
		Retry:    gate.RetryConfig{BaseDelay: time.Millisecond},
		CacheTTL: time.Minute,
	}, func(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
		calls++
		return []byte("{}"), nil
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	s, err := New(Config{}, g, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, g, &calls
}

func get(t *testing.T, s *Server, path string) (int, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("GET %s: decode body: %v", path, err)
	}
	return rec.Code, body
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)

	code, body := get(t, s, "/healthz")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
	deps, ok := body["dependencies"].([]interface{})
	if !ok || len(deps) != 1 || deps[0] != "nft-api" {
		t.Fatalf("dependencies = %v", body["dependencies"])
	}
}

func TestBreakers(t *testing.T) {
	s, _, _ := newTestServer(t)

	code, body := get(t, s, "/breakers")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	breakers := body["breakers"].(map[string]interface{})
	if breakers["nft-api"] != "closed" {
		t.Fatalf("breakers = %v", breakers)
	}
}

func TestCacheStats(t *testing.T) {
	s, g, _ := newTestServer(t)

	g.Request(context.Background(), "nft-api", "/v1/a", nil, nil)
	g.Request(context.Background(), "nft-api", "/v1/a", nil, nil)

	code, body := get(t, s, "/cache/stats")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["size"].(float64) != 1 || body["hits"].(float64) != 1 {
		t.Fatalf("stats = %v", body)
	}
}

func TestLimiters(t *testing.T) {
	s, g, _ := newTestServer(t)

	g.Request(context.Background(), "nft-api", "/v1/a", nil, &gate.CacheOptions{Enabled: false})

	code, body := get(t, s, "/limiters")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	limiters := body["limiters"].(map[string]interface{})
	buckets := limiters["nft-api"].([]interface{})
	if len(buckets) != 1 {
		t.Fatalf("buckets = %v", buckets)
	}
}

func TestInvalidateEntry(t *testing.T) {
	s, g, calls := newTestServer(t)

	g.Request(context.Background(), "nft-api", "/v1/a", nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cache/invalidate",
		strings.NewReader(`{"dependency":"nft-api","endpoint":"/v1/a"}`))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"invalidated":true`) {
		t.Fatalf("body = %s", rec.Body.String())
	}

	g.Request(context.Background(), "nft-api", "/v1/a", nil, nil)
	if *calls != 2 {
		t.Fatalf("upstream calls = %d, want 2", *calls)
	}
}

func TestInvalidateAll(t *testing.T) {
	s, g, _ := newTestServer(t)

	g.Request(context.Background(), "nft-api", "/v1/a", nil, nil)
	g.Request(context.Background(), "nft-api", "/v1/b", nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cache/invalidate", nil)
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"removed":2`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestInvalidateRejectsPartialSelector(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cache/invalidate",
		strings.NewReader(`{"dependency":"nft-api"}`))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStartAndStop(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.httpServer.Addr = "127.0.0.1:0"

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
