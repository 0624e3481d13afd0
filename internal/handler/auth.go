package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/blinkclip/blinkclip-go/internal/middleware"
	"github.com/blinkclip/blinkclip-go/internal/model"
	"github.com/blinkclip/blinkclip-go/internal/service"
)

// AuthHandler handles the JSON authentication endpoints used by the browser
// extension. The web dashboard's form-based equivalents live in WebHandler.
type AuthHandler struct {
	auth   *service.AuthService
	apiTTL time.Duration
}

// NewAuthHandler creates a new AuthHandler. apiTTL applies to both signup and
// login on this surface.
func NewAuthHandler(auth *service.AuthService, apiTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, apiTTL: apiTTL}
}

// HandleSignup handles POST /api/signup requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	token, err := h.auth.Signup(r.Context(), req, h.apiTTL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUserExists):
			writeJSON(w, http.StatusBadRequest, errorResponse("User already exists"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("Signup failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Token: token})
}

// HandleLogin handles POST /api/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	token, err := h.auth.Login(r.Context(), req, h.apiTTL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusBadRequest, errorResponse("User not found"))
		case errors.Is(err, service.ErrInvalidPassword):
			writeJSON(w, http.StatusBadRequest, errorResponse("Invalid password"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("Login failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Token: token})
}

// HandleMe handles GET /me requests from either surface.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
