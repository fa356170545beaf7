package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sparkdraft/internal/domain"
	"sparkdraft/internal/middleware"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type userDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Tier        string `json:"subscription_tier"`
	SparksUsed  int    `json:"sparks_used"`
	SparksLimit int    `json:"sparks_limit"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Tier:        string(u.Tier),
		SparksUsed:  u.SparksUsed,
		SparksLimit: u.SparksLimit,
	}
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "username and email are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid email address")
		return
	}
	if len(req.Password) < 8 {
		a.error(w, http.StatusBadRequest, "bad_request", "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.domainError(w, err)
		return
	}

	user, err := a.Users.Create(r.Context(), req.Username, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			a.error(w, http.StatusConflict, "conflict", "user already exists")
			return
		}
		a.domainError(w, err)
		return
	}

	token, err := middleware.SignSession(a.Config.JWTSecret, user.ID, user.Username)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, sessionResponse{Token: token, User: toUserDTO(user)})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	user, err := a.Users.GetByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		// Same response for unknown email and bad password.
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}
	token, err := middleware.SignSession(a.Config.JWTSecret, user.ID, user.Username)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, sessionResponse{Token: token, User: toUserDTO(user)})
}
