package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/inkstream/inkstream-be/internal/auth"
	"github.com/inkstream/inkstream-be/internal/services"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fieldError is the body of a 422 response: the failure sticks to one
// form field, the rest of the request was fine.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondServiceError maps the shared service error kinds to responses.
// ErrNotOwner is deliberately not handled here: the post handlers turn it
// into a redirect to the post's read-only view.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrAuthRequired):
		auth.RedirectToLogin(w, r)
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, fieldError{Field: vErr.Field, Message: vErr.Message})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// parsePage reads the 1-based "page" query parameter, defaulting to 1.
// A malformed value falls back to the first page rather than erroring.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
