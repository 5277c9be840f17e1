package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ascendo/trainboard/internal/services"
	pkghttp "github.com/ascendo/trainboard/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(username, password string) (*services.AuthResponse, error)
	Login(username, password, ip string) (*services.AuthResponse, error)
	Logout(token string)
	RotateToken(token string) (*services.AuthResponse, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles account creation and opens a session for the new user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "BAD_REQUEST", "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	if verr := ValidateRequest(req); verr != nil {
		pkghttp.WriteBadRequest(w, credentialFieldCode(verr.Field), verr.Error())
		return
	}

	resp, err := h.service.Register(req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, resp)
}

// Login authenticates a username/password pair, gated by the per-address
// throttle.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "BAD_REQUEST", "invalid request body")
		return
	}

	if verr := ValidateRequest(req); verr != nil {
		pkghttp.WriteBadRequest(w, credentialFieldCode(verr.Field), verr.Error())
		return
	}

	ip := pkghttp.ExtractClientIP(r, h.ipConfig)

	resp, err := h.service.Login(req.Username, req.Password, ip)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// Logout revokes the caller's session. Always 204: once the call returns the
// token is dead either way.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := pkghttp.ExtractBearerToken(r.Header.Get("Authorization"))
	h.service.Logout(token)
	w.WriteHeader(http.StatusNoContent)
}

// RotateToken exchanges the caller's token for a fresh one.
func (h *AuthHandler) RotateToken(w http.ResponseWriter, r *http.Request) {
	token := pkghttp.ExtractBearerToken(r.Header.Get("Authorization"))

	resp, err := h.service.RotateToken(token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

func credentialFieldCode(field string) string {
	switch field {
	case "Username":
		return "INVALID_USERNAME"
	case "Password":
		return "INVALID_PASSWORD"
	default:
		return "BAD_REQUEST"
	}
}
