package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/inkstream/inkstream-be/internal/services"
	"github.com/rs/zerolog/log"
)

// GroupHandler handles group listing and creation.
type GroupHandler struct {
	service services.GroupServiceProvider
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(service services.GroupServiceProvider) *GroupHandler {
	return &GroupHandler{service: service}
}

// List returns all groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListGroups()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list groups")
		http.Error(w, "Failed to list groups", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// Create handles new group creation.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	group, err := h.service.CreateGroup(payload.Title, payload.Slug, payload.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}
