package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tallerlink/pricebot/internal/catalog"
	"github.com/tallerlink/pricebot/internal/config"
	"github.com/tallerlink/pricebot/internal/embedding"
	"github.com/tallerlink/pricebot/internal/keyword"
	"github.com/tallerlink/pricebot/internal/matcher"
	"github.com/tallerlink/pricebot/internal/models"
	"go.uber.org/zap"
)

const testCatalog = `Producto,Precio
Pantalla iPhone 14 Original,2500
Pantalla iPhone 14 Incell,1400
Bateria iPhone 13,950
Pantalla Galaxy S23,1800
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Embedding.BatchDelayMs = -1
	cfg.Embedding.Dimensions = 64

	items, err := catalog.Load(testCatalog)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	embedder := embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	engine := matcher.NewEngine(embedder, &cfg.Matching, &cfg.Embedding)
	if err := engine.Build(context.Background(), items); err != nil {
		t.Fatalf("build: %v", err)
	}

	kw, err := keyword.NewCatalogIndex("")
	if err != nil {
		t.Fatalf("catalog index: %v", err)
	}
	t.Cleanup(func() { _ = kw.Close() })
	if err := kw.Rebuild(context.Background(), items); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	return NewServer(engine, kw, cfg, zap.NewNop())
}

func TestHandleSearch(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	body, _ := json.Marshal(searchRequest{Query: "pantalla iphone 14", Limit: 3})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	var resp searchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count == 0 {
		t.Fatal("expected results")
	}
	for _, r := range resp.Results {
		if r.Item.DeviceModel != "iphone 14" {
			t.Errorf("unexpected model %q in exact-match results", r.Item.DeviceModel)
		}
	}
}

func TestHandleSearchRejectsEmptyQuery(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"query":""}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleSearchNotReadyReturns503(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Embedding.Dimensions = 64
	engine := matcher.NewEngine(embedding.NewMockEmbedder(64), &cfg.Matching, &cfg.Embedding)
	srv := NewServer(engine, nil, cfg, zap.NewNop())
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"query":"pantalla"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestHandleQualities(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/qualities?model=iphone+14&service=pantalla", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Groups []*models.QualityGroup `json:"groups"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(resp.Groups))
	}
	if got := len(resp.Groups[0].Options); got != 2 {
		t.Fatalf("options = %d, want 2", got)
	}
}

func TestHandleQualitiesRequiresParams(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/qualities?model=iphone+14", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleCatalogSearch(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?q=galaxy&limit=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Count   int `json:"count"`
		Results []struct {
			Item *models.CatalogItem `json:"item"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count == 0 {
		t.Fatal("expected catalog hits")
	}
	if resp.Results[0].Item.Brand != "samsung" {
		t.Errorf("top brand = %q, want samsung", resp.Results[0].Item.Brand)
	}
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		State string `json:"state"`
		Items int    `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State != matcher.StateReady {
		t.Errorf("state = %q, want %q", resp.State, matcher.StateReady)
	}
	if resp.Items != 4 {
		t.Errorf("items = %d, want 4", resp.Items)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
