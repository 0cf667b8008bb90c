package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/eduplay/quizquest/internal/database"
)

func newTestRouter(t *testing.T) (*chi.Mux, *DocStore) {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewDocStore(ctx, db)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	if err := store.Seed(ctx); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	addRoutes(r, logger, Deps{DB: db, Store: store})
	return r, store
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r http.Handler, name string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		RegisterRequest{Name: name, Secret: "pw-" + name, Avatar: "🐢", ClassName: "5A"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: got %d: %s", name, w.Code, w.Body.String())
	}
	var resp AuthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.Token
}

func loginAdmin(t *testing.T, r http.Handler) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		LoginRequest{Name: seedAdminName, Secret: seedAdminSecret})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login: got %d: %s", w.Code, w.Body.String())
	}
	var resp AuthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.Token
}

func TestRegisterAndMe(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerUser(t, r, "mai")

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: got %d", w.Code)
	}
	var me UserResponse
	json.NewDecoder(w.Body).Decode(&me)
	if me.Name != "mai" || me.IsAdmin {
		t.Errorf("unexpected user: %+v", me)
	}
	if me.ClassName != "5A" {
		t.Errorf("ClassName = %q, want %q", me.ClassName, "5A")
	}
	if me.TotalScore != 0 {
		t.Errorf("fresh user TotalScore = %d, want 0", me.TotalScore)
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	r, _ := newTestRouter(t)
	registerUser(t, r, "mai")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		RegisterRequest{Name: "mai", Secret: "other"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: got %d, want 409", w.Code)
	}
}

func TestLoginSecretIsComparedVerbatim(t *testing.T) {
	r, _ := newTestRouter(t)
	registerUser(t, r, "mai")

	for _, secret := range []string{"PW-MAI", "pw-mai ", " pw-mai", ""} {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
			LoginRequest{Name: "mai", Secret: secret})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login with secret %q: got %d, want 401", secret, w.Code)
		}
	}

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		LoginRequest{Name: "mai", Secret: "pw-mai"})
	if w.Code != http.StatusOK {
		t.Fatalf("exact login: got %d", w.Code)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		LoginRequest{Name: "nobody", Secret: "x"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", w.Code)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerUser(t, r, "mai")

	if w := doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: got %d, want 401", w.Code)
	}
}

func TestMeRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", w.Code)
	}
}
