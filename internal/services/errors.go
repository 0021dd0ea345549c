package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the services. Every one is a deterministic
// function of the request and current state; none is retried.
var (
	// ErrNotFound means a slug, username or post id did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrAuthRequired means the action needs an authenticated viewer.
	// Handlers turn it into a login redirect with a "next" continuation.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotOwner means the viewer is not the author of the target post.
	// Handlers redirect to the read-only post view instead of failing hard.
	ErrNotOwner = errors.New("viewer does not own the target")

	// ErrSelfFollow means a viewer tried to follow themselves. Callers
	// absorb it as a no-op; it is never user-visible.
	ErrSelfFollow = errors.New("cannot follow yourself")
)

// ValidationError is a field-level input error, e.g. an empty post text or
// an upload that is not a decodable image. It fails only the field it
// names, not the whole form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
