package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAPISpec(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	w := httptest.NewRecorder()
	handleOpenAPI()(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}

	var spec struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.NewDecoder(w.Body).Decode(&spec); err != nil {
		t.Fatalf("decoding spec: %v", err)
	}
	if spec.OpenAPI == "" {
		t.Error("missing openapi version")
	}

	for _, path := range []string{
		"/healthz",
		"/api/auth/register",
		"/api/auth/login",
		"/api/dashboard",
		"/api/leaderboard",
		"/api/game/levels/{level}/start",
		"/api/game/attempts/{attemptID}/complete",
		"/api/admin/questions",
		"/api/admin/config",
	} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}
}
