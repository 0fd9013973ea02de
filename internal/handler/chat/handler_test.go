package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/medchat/internal/model/chat"
	"github.com/zhouzirui/medchat/internal/model/medical"
	chatservice "github.com/zhouzirui/medchat/internal/service/chat"
)

func setupRouter() *chi.Mux {
	chatSvc := chatservice.NewService(medical.NewMemoryStore(medical.Seed()), nil, nil)
	handler := New(chatSvc, nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatReturnsAnswerAndSources(t *testing.T) {
	resp := post(setupRouter(), `{"query":"I have a headache","conversation_history":[]}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got chat.Response
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Response == "" {
		t.Fatal("expected a non-empty response")
	}
	if len(got.Sources) == 0 || got.Sources[0].Title != "Migraine" {
		t.Fatalf("unexpected sources: %+v", got.Sources)
	}
}

func TestChatAcceptsLegacyMessageField(t *testing.T) {
	resp := post(setupRouter(), `{"message":"asthma"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestChatMissingQuery(t *testing.T) {
	resp := post(setupRouter(), `{"conversation_history":[]}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestChatBlankQuery(t *testing.T) {
	for _, body := range []string{`{"query":"   "}`, `{"query":"","message":"\t"}`} {
		resp := post(setupRouter(), body)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, resp.Code)
		}
		var got map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if got["error"] != "No query provided" {
			t.Fatalf("unexpected error message %q", got["error"])
		}
	}
}

func TestChatInvalidBody(t *testing.T) {
	resp := post(setupRouter(), `{`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
