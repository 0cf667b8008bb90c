package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eduplay/quizquest/internal/game"
	"github.com/eduplay/quizquest/internal/quiz"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r, _ := newTestRouter(t)
	player := registerUser(t, r, "mai")

	if w := doJSON(t, r, http.MethodGet, "/api/admin/questions", player, nil); w.Code != http.StatusForbidden {
		t.Fatalf("player on admin route: got %d, want 403", w.Code)
	}

	admin := loginAdmin(t, r)
	if w := doJSON(t, r, http.MethodGet, "/api/admin/questions", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("admin on admin route: got %d", w.Code)
	}
}

func TestAdminQuestionCRUD(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := loginAdmin(t, r)

	// Invalid: one choice only.
	bad := quiz.Question{Kind: quiz.MultipleChoice, Prompt: "?", Choices: []string{"a"}}
	if w := doJSON(t, r, http.MethodPost, "/api/admin/questions", admin, bad); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid create: got %d, want 400", w.Code)
	}

	good := quiz.Question{
		Kind:    quiz.MultipleChoice,
		Prompt:  "Thủ đô của Việt Nam?",
		Choices: []string{"Hà Nội", "Huế"},
	}
	w := doJSON(t, r, http.MethodPost, "/api/admin/questions", admin, good)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got %d: %s", w.Code, w.Body.String())
	}
	var created quiz.Question
	json.NewDecoder(w.Body).Decode(&created)
	if created.ID == "" {
		t.Fatal("created question has no id")
	}

	created.Prompt = "Thủ đô hiện nay của Việt Nam?"
	if w := doJSON(t, r, http.MethodPut, "/api/admin/questions/"+created.ID, admin, created); w.Code != http.StatusOK {
		t.Fatalf("update: got %d: %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodDelete, "/api/admin/questions/"+created.ID, admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: got %d", w.Code)
	}
	// Deleting an already-deleted question is idempotent.
	if w := doJSON(t, r, http.MethodDelete, "/api/admin/questions/"+created.ID, admin, nil); w.Code != http.StatusOK {
		t.Fatalf("repeat delete: got %d, want 200", w.Code)
	}
}

func TestAdminClearQuestions(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := loginAdmin(t, r)

	if w := doJSON(t, r, http.MethodDelete, "/api/admin/questions", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("clear: got %d", w.Code)
	}
	w := doJSON(t, r, http.MethodGet, "/api/admin/questions", admin, nil)
	var qs []quiz.Question
	json.NewDecoder(w.Body).Decode(&qs)
	if len(qs) != 0 {
		t.Fatalf("bank has %d questions after clear", len(qs))
	}
}

func TestAdminConfigValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := loginAdmin(t, r)

	bad := game.Config{TotalLevels: 0, QuestionsPerLevel: 10, PassScore: 5}
	if w := doJSON(t, r, http.MethodPut, "/api/admin/config", admin, bad); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid config: got %d, want 400", w.Code)
	}

	good := game.Config{TotalLevels: 4, QuestionsPerLevel: 5, PassScore: 2}
	if w := doJSON(t, r, http.MethodPut, "/api/admin/config", admin, good); w.Code != http.StatusOK {
		t.Fatalf("valid config: got %d", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/admin/config", admin, nil)
	var got game.Config
	json.NewDecoder(w.Body).Decode(&got)
	if got != good {
		t.Fatalf("config = %+v, want %+v", got, good)
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	r, store := newTestRouter(t)
	admin := loginAdmin(t, r)

	adminUser, err := store.UserByName(context.Background(), seedAdminName)
	if err != nil {
		t.Fatal(err)
	}
	if w := doJSON(t, r, http.MethodDelete, "/api/admin/users/"+adminUser.ID, admin, nil); w.Code != http.StatusConflict {
		t.Fatalf("self delete: got %d, want 409", w.Code)
	}
}

func TestAdminDeleteUser(t *testing.T) {
	r, _ := newTestRouter(t)
	playerToken := registerUser(t, r, "mai")
	admin := loginAdmin(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/admin/users", admin, nil)
	body := w.Body.String()
	var users []AdminUserItem
	json.Unmarshal([]byte(body), &users)

	var target string
	for _, u := range users {
		if u.Name == "mai" {
			target = u.ID
		}
	}
	if target == "" {
		t.Fatal("registered user not listed")
	}
	if strings.Contains(body, "secret") {
		t.Error("user listing leaks secrets")
	}

	if w := doJSON(t, r, http.MethodDelete, "/api/admin/users/"+target, admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete user: got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/auth/me", playerToken, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user still authenticated: got %d", w.Code)
	}
}

func TestImportEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := loginAdmin(t, r)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "bank.txt")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("Câu 1: Ai dời đô về Thăng Long?\nA. Lý Thái Tổ (Đúng)\nB. Trần Thái Tông\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/questions/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("import: got %d: %s", w.Code, w.Body.String())
	}
	var resp ImportResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Imported != 1 {
		t.Fatalf("Imported = %d, want 1 (skipped: %v)", resp.Imported, resp.Skipped)
	}
}

func TestImportMalformedJSONImportsNothing(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := loginAdmin(t, r)

	before := doJSON(t, r, http.MethodGet, "/api/admin/questions", admin, nil)
	var beforeQs []quiz.Question
	json.NewDecoder(before.Body).Decode(&beforeQs)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "bank.json")
	part.Write([]byte(`[{"prompt": "broken"`))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/questions/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed import: got %d, want 400", w.Code)
	}

	after := doJSON(t, r, http.MethodGet, "/api/admin/questions", admin, nil)
	var afterQs []quiz.Question
	json.NewDecoder(after.Body).Decode(&afterQs)
	if len(afterQs) != len(beforeQs) {
		t.Fatalf("bank changed on failed import: %d -> %d", len(beforeQs), len(afterQs))
	}
}

func TestExportEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := loginAdmin(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/admin/questions/export", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "<!DOCTYPE html>") {
		t.Error("export is not an HTML document")
	}
}
