package services

import "github.com/inkstream/inkstream-be/internal/models"

// Action is a mutating operation subject to authorization.
type Action int

const (
	ActionCreatePost Action = iota
	ActionEditPost
	ActionDeletePost
	ActionCreateComment
	ActionFollow
	ActionUnfollow
)

// Guard decides whether a viewer may perform a mutating action. Every
// service checks it before touching the store.
type Guard struct{}

// Authorize returns nil when the action is allowed. ownerID is the post's
// author for edit/delete and the target author for follow/unfollow; it is
// ignored for plain creations.
//
// Denials map to the error kinds in errors.go: anonymous viewers get
// ErrAuthRequired, non-owners get ErrNotOwner, self-follows get
// ErrSelfFollow.
func (Guard) Authorize(viewer models.Viewer, action Action, ownerID string) error {
	if !viewer.Authenticated() {
		return ErrAuthRequired
	}

	switch action {
	case ActionEditPost, ActionDeletePost:
		if viewer.ID != ownerID {
			return ErrNotOwner
		}
	case ActionFollow, ActionUnfollow:
		if viewer.ID == ownerID {
			return ErrSelfFollow
		}
	}
	return nil
}
