package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/quickbite/ordering/internal/auth"
	"github.com/quickbite/ordering/internal/users"
)

type AuthHandler struct {
	Users  *users.Repo
	Tokens auth.Tokens
	Log    *slog.Logger
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type userResp struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	LoyaltyPoints int    `json:"loyalty_points,omitempty"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Users.Exists(ctx, req.Email, req.Username)
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	if exists {
		writeError(w, http.StatusBadRequest, "user already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	id, err := h.Users.Create(ctx, req.Username, req.Email, hash, req.Phone)
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}

	identity := auth.Identity{UserID: id, Username: req.Username, Role: auth.RoleCustomer}
	token, err := h.Tokens.Issue(identity, time.Now())
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "user registered successfully",
		"token":   token,
		"user":    userResp{UserID: id, Username: req.Username, Email: req.Email, Role: auth.RoleCustomer},
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.ByEmail(ctx, req.Email)
	if errors.Is(err, users.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.Tokens.Issue(auth.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}, time.Now())
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   token,
		"user": userResp{
			UserID: u.ID, Username: u.Username, Email: u.Email,
			Role: u.Role, LoyaltyPoints: u.LoyaltyPoints,
		},
	})
}
