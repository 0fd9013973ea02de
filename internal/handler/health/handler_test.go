package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/medchat/internal/model/medical"
)

func setupRouter(generator string) *chi.Mux {
	h := New(medical.NewMemoryStore(medical.Seed()), generator)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	r.Get("/", h.HandleRoot)
	return r
}

func get(t *testing.T, r http.Handler, path string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", path, resp.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("GET %s: decode: %v", path, err)
	}
	return body
}

func TestHealth(t *testing.T) {
	body := get(t, setupRouter("gemini"), "/health")

	if body["status"] != "healthy" {
		t.Fatalf("unexpected status %v", body["status"])
	}
	if body["dataset_loaded"] != float64(len(medical.Seed())) {
		t.Fatalf("unexpected dataset_loaded %v", body["dataset_loaded"])
	}
	if body["ai_configured"] != true {
		t.Fatalf("expected ai_configured true, got %v", body["ai_configured"])
	}
}

func TestHealthWithoutGenerator(t *testing.T) {
	body := get(t, setupRouter("none"), "/health")

	if body["ai_configured"] != false {
		t.Fatalf("expected ai_configured false, got %v", body["ai_configured"])
	}
}

func TestDiseases(t *testing.T) {
	body := get(t, setupRouter("none"), "/diseases")

	diseases, ok := body["diseases"].([]any)
	if !ok {
		t.Fatalf("unexpected diseases payload %T", body["diseases"])
	}
	if len(diseases) != len(medical.Seed()) || body["total"] != float64(len(diseases)) {
		t.Fatalf("unexpected disease count %d / %v", len(diseases), body["total"])
	}
	first := diseases[0].(map[string]any)
	if first["id"] != "common-cold" || first["title"] != "Common Cold" {
		t.Fatalf("unexpected first disease %v", first)
	}
}

func TestRoot(t *testing.T) {
	body := get(t, setupRouter("none"), "/")

	if body["status"] != "running" {
		t.Fatalf("unexpected root status %v", body["status"])
	}
}

func TestDiseaseByID(t *testing.T) {
	r := setupRouter("none")
	body := get(t, r, "/diseases/migraine")

	if body["title"] != "Migraine" {
		t.Fatalf("unexpected title %v", body["title"])
	}
	if content, _ := body["content"].(string); content == "" {
		t.Fatal("expected document content")
	}

	req := httptest.NewRequest(http.MethodGet, "/diseases/unknown", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown disease, got %d", resp.Code)
	}
}
