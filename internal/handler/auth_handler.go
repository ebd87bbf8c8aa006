package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/middleware"
	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/service"
)

// AuthHandler handles signup, login, logout and the signed-in account
type AuthHandler struct {
	users    *service.UserService
	sessions *middleware.Sessions
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *service.UserService, sessions *middleware.Sessions, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, logger: logger}
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	if err := h.sessions.Login(w, r, user.ID); err != nil {
		h.logger.Error("Failed to save session", zap.Int("user_id", user.ID), zap.Error(err))
		WriteInternalError(w)
		return false
	}
	return true
}

// Signup handles POST /auth/signup and logs the new user in
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Signup(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	if !h.startSession(w, r, user) {
		return
	}
	_ = WriteCreated(w, user)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	if !h.startSession(w, r, user) {
		return
	}
	_ = WriteOK(w, user)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
		WriteInternalError(w)
		return
	}
	WriteNoContent(w)
}

// GetAccount handles GET /account
func (h *AuthHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.UserIDFromContext(r.Context())

	user, err := h.users.GetAccount(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, user)
}

// UpdateAccount handles PUT /account
func (h *AuthHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.UserIDFromContext(r.Context())
	var req service.AccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.UpdateAccount(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, user)
}
