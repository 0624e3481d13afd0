package handler

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/blinkclip/blinkclip-go/internal/handler/templates"
	"github.com/blinkclip/blinkclip-go/internal/middleware"
	"github.com/blinkclip/blinkclip-go/internal/model"
	"github.com/blinkclip/blinkclip-go/internal/service"
)

// WebHandler serves the server-rendered dashboard: form posts in, redirects
// and HTML out, identity carried in a cookie. It shares services with the
// JSON surface so the two can never diverge in ownership semantics.
type WebHandler struct {
	auth  *service.AuthService
	clips *service.ClipService

	cookieName string
	secure     bool

	// Signup and login mint with different lifetimes on this surface.
	signupTTL time.Duration
	loginTTL  time.Duration

	templates map[string]*template.Template
}

// WebConfig carries the web surface's cookie and token-lifetime settings.
type WebConfig struct {
	CookieName string
	Secure     bool
	SignupTTL  time.Duration
	LoginTTL   time.Duration
}

// NewWebHandler creates a new WebHandler and parses the embedded page
// templates.
func NewWebHandler(auth *service.AuthService, clips *service.ClipService, cfg WebConfig) (*WebHandler, error) {
	cache := make(map[string]*template.Template)
	for _, name := range []string{"index", "dashboard", "clips", "view", "edit"} {
		ts, err := template.ParseFS(templates.FS, name+".gohtml")
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		cache[name] = ts
	}

	return &WebHandler{
		auth:       auth,
		clips:      clips,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		signupTTL:  cfg.SignupTTL,
		loginTTL:   cfg.LoginTTL,
		templates:  cache,
	}, nil
}

// HandleIndex handles GET / requests.
func (h *WebHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index", nil)
}

// HandleSignup handles POST /signup form submissions. A fresh account gets a
// 7-day cookie; logging in later extends to 30 days.
func (h *WebHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req := model.SignupRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	token, err := h.auth.Signup(r.Context(), req, h.signupTTL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrUserExists):
			http.Error(w, "User already exists", http.StatusBadRequest)
		default:
			http.Error(w, "Registration failed", http.StatusInternalServerError)
		}
		return
	}

	h.setAuthCookie(w, token, h.signupTTL)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// HandleLogin handles POST /login form submissions.
func (h *WebHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req := model.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	token, err := h.auth.Login(r.Context(), req, h.loginTTL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusBadRequest)
		case errors.Is(err, service.ErrInvalidPassword):
			http.Error(w, "Invalid password", http.StatusBadRequest)
		default:
			http.Error(w, "Login failed", http.StatusInternalServerError)
		}
		return
	}

	h.setAuthCookie(w, token, h.loginTTL)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// HandleLogout handles GET /logout. It only deletes the client's cookie; the
// token itself stays valid until expiry.
func (h *WebHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secure,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

type dashboardView struct {
	User        model.UserResponse
	Clips       []model.Clip
	SearchQuery string
}

// HandleDashboard handles GET /dashboard requests, with optional ?search=.
func (h *WebHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Access denied. No token.", http.StatusUnauthorized)
		return
	}

	search := r.URL.Query().Get("search")

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		h.serverError(w, r, err, "Server error while loading dashboard")
		return
	}

	clips, err := h.clips.List(r.Context(), userID, search)
	if err != nil {
		h.serverError(w, r, err, "Server error while loading dashboard")
		return
	}

	h.render(w, "dashboard", dashboardView{User: user, Clips: clips, SearchQuery: search})
}

// HandleSave handles POST /save form submissions from the dashboard.
func (h *WebHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Access denied. No token.", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	_, err := h.clips.Create(r.Context(), userID, model.CreateClipRequest{
		Text: r.PostFormValue("text"),
	})
	if err != nil {
		if errors.Is(err, service.ErrTextRequired) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.serverError(w, r, err, "Error saving clip")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// HandleClips handles GET /clips requests.
func (h *WebHandler) HandleClips(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Access denied. No token.", http.StatusUnauthorized)
		return
	}

	clips, err := h.clips.List(r.Context(), userID, "")
	if err != nil {
		h.serverError(w, r, err, "Failed to fetch clips")
		return
	}

	h.render(w, "clips", struct{ Clips []model.Clip }{clips})
}

// HandleView handles GET /clip/view/{id} requests.
func (h *WebHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	h.renderClipPage(w, r, "view", "Error loading clip")
}

// HandleEditPage handles GET /clip/edit/{id} requests.
func (h *WebHandler) HandleEditPage(w http.ResponseWriter, r *http.Request) {
	h.renderClipPage(w, r, "edit", "Error loading edit page")
}

// HandleEdit handles POST /clip/edit/{id} form submissions.
func (h *WebHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Access denied. No token.", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	clipID := chi.URLParam(r, "id")

	err := h.clips.UpdateText(r.Context(), userID, clipID, r.PostFormValue("text"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTextRequired):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrClipNotFound):
			http.Error(w, "Clip not found", http.StatusNotFound)
		default:
			h.serverError(w, r, err, "Error updating clip")
		}
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// HandleDelete handles POST /clip/delete/{id} form submissions.
func (h *WebHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Access denied. No token.", http.StatusUnauthorized)
		return
	}

	clipID := chi.URLParam(r, "id")

	if err := h.clips.Delete(r.Context(), userID, clipID); err != nil {
		if errors.Is(err, service.ErrClipNotFound) {
			http.Error(w, "Clip not found", http.StatusNotFound)
			return
		}
		h.serverError(w, r, err, "Error deleting clip")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// renderClipPage fetches a single owned clip and renders the named template
// with it. Absent and unowned clips are indistinguishable: both are 404.
func (h *WebHandler) renderClipPage(w http.ResponseWriter, r *http.Request, name, errMsg string) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Access denied. No token.", http.StatusUnauthorized)
		return
	}

	clipID := chi.URLParam(r, "id")

	clip, err := h.clips.Get(r.Context(), userID, clipID)
	if err != nil {
		if errors.Is(err, service.ErrClipNotFound) {
			http.Error(w, "Clip not found", http.StatusNotFound)
			return
		}
		h.serverError(w, r, err, errMsg)
		return
	}

	h.render(w, name, struct{ Clip *model.Clip }{clip})
}

func (h *WebHandler) setAuthCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secure,
	})
}

// render executes a template into a buffer first so a failure can still
// produce a clean 500 instead of a half-written page.
func (h *WebHandler) render(w http.ResponseWriter, name string, data any) {
	ts, ok := h.templates[name]
	if !ok {
		slog.Error("template missing", "name", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template execute failed", "name", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// serverError logs the real error and sends a generic message, never the
// internal detail.
func (h *WebHandler) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	slog.Error("web handler error", "path", r.URL.Path, "error", err)
	http.Error(w, msg, http.StatusInternalServerError)
}
