package server

import (
	"errors"
	"net/http"
	"strings"
)

type RegisterRequest struct {
	Name      string `json:"name"`
	Secret    string `json:"secret"`
	Avatar    string `json:"avatar"`
	ClassName string `json:"className"`
}

type LoginRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public view of a user. The secret never appears here.
type UserResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Avatar     string   `json:"avatar"`
	ClassName  string   `json:"className"`
	IsAdmin    bool     `json:"isAdmin"`
	TotalScore int      `json:"totalScore"`
	Badges     []string `json:"badges"`
}

func handleRegister(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.Secret == "" {
			writeError(w, http.StatusBadRequest, "secret is required")
			return
		}
		if req.Avatar == "" {
			req.Avatar = Avatars[0]
		}

		user, err := store.CreateUser(r.Context(), req.Name, req.Secret, req.Avatar, req.ClassName)
		if errors.Is(err, ErrNameTaken) {
			writeError(w, http.StatusConflict, "name already taken")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		token, err := store.CreateSession(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: userResponse(user)})
	}
}

func handleLogin(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := store.UserByName(r.Context(), strings.TrimSpace(req.Name))
		if errors.Is(err, ErrNotFound) || (err == nil && user.Secret != req.Secret) {
			writeError(w, http.StatusUnauthorized, "invalid name or secret")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		token, err := store.CreateSession(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: userResponse(user)})
	}
}

func handleLogout(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			store.DeleteSession(r.Context(), token)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func handleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, userResponse(currentUser(r)))
	}
}

func userResponse(u User) UserResponse {
	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Avatar:     u.Avatar,
		ClassName:  u.ClassName,
		IsAdmin:    u.IsAdmin,
		TotalScore: totalOf(u),
		Badges:     badges,
	}
}
