package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inkstream/inkstream-be/internal/auth"
	"github.com/inkstream/inkstream-be/internal/services"
)

// FollowHandler handles follow edge creation and removal.
type FollowHandler struct {
	service services.FollowServiceProvider
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(service services.FollowServiceProvider) *FollowHandler {
	return &FollowHandler{service: service}
}

// Follow starts following the named author. Following someone twice, or
// yourself, succeeds without creating anything.
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	if err := h.service.Follow(viewer, chi.URLParam(r, "username")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unfollow stops following the named author. Unfollowing someone you
// never followed succeeds as a no-op.
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	if err := h.service.Unfollow(viewer, chi.URLParam(r, "username")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
