package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blinkclip/blinkclip-go/internal/middleware"
	"github.com/blinkclip/blinkclip-go/internal/model"
	"github.com/blinkclip/blinkclip-go/internal/service"
)

// ClipHandler handles the JSON clip endpoints used by the browser extension.
type ClipHandler struct {
	clips *service.ClipService
}

// NewClipHandler creates a new ClipHandler.
func NewClipHandler(clips *service.ClipService) *ClipHandler {
	return &ClipHandler{clips: clips}
}

// HandleCreate handles POST /api/clip requests.
func (h *ClipHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreateClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	if _, err := h.clips.Create(r.Context(), userID, req); err != nil {
		if errors.Is(err, service.ErrTextRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("Error saving clip"))
		return
	}

	writeJSON(w, http.StatusOK, model.ClipActionResponse{Success: true, Message: "Clip saved"})
}

// HandleList handles GET /api/clips requests.
func (h *ClipHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	clips, err := h.clips.List(r.Context(), userID, "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("Failed to fetch clips"))
		return
	}

	writeJSON(w, http.StatusOK, clips)
}

// HandleUpdate handles PUT /api/clip/{id} requests. Only the text is mutable.
func (h *ClipHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	clipID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.UpdateClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	if err := h.clips.UpdateText(r.Context(), userID, clipID, req.Text); err != nil {
		switch {
		case errors.Is(err, service.ErrTextRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrClipNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse("Clip not found"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("Error updating clip"))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.ClipActionResponse{Success: true, Message: "Clip updated"})
}

// HandleDelete handles DELETE /api/clip/{id} requests.
func (h *ClipHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	clipID := chi.URLParam(r, "id")

	if err := h.clips.Delete(r.Context(), userID, clipID); err != nil {
		if errors.Is(err, service.ErrClipNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("Clip not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("Error deleting clip"))
		return
	}

	writeJSON(w, http.StatusOK, model.ClipActionResponse{Success: true, Message: "Clip deleted"})
}
