package services

import (
	"database/sql"
	"errors"

	"github.com/inkstream/inkstream-be/internal/models"
)

// FollowServiceProvider defines the interface for managing follow edges.
type FollowServiceProvider interface {
	Follow(viewer models.Viewer, username string) error
	Unfollow(viewer models.Viewer, username string) error
	IsFollowing(userID, authorID string) (bool, error)
}

// FollowService maintains the directed follow edges between users. Each
// call touches at most one edge and both operations are idempotent.
type FollowService struct {
	db    *sql.DB
	guard Guard
	users UserServiceProvider
}

// NewFollowService creates a new FollowService.
func NewFollowService(db *sql.DB, guard Guard, users UserServiceProvider) *FollowService {
	return &FollowService{db: db, guard: guard, users: users}
}

// Follow creates the (viewer, author) edge if absent. A duplicate follow
// and a self-follow both leave the store untouched and report success;
// only a missing author or an anonymous viewer is an error.
func (s *FollowService) Follow(viewer models.Viewer, username string) error {
	author, err := s.users.GetUserByUsername(username)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(viewer, ActionFollow, author.ID); err != nil {
		if errors.Is(err, ErrSelfFollow) {
			return nil
		}
		return err
	}

	_, err = s.db.Exec(
		"INSERT OR IGNORE INTO follows(user_id, author_id) VALUES(?, ?)",
		viewer.ID, author.ID,
	)
	return err
}

// Unfollow removes the (viewer, author) edge if present. Unfollowing an
// author the viewer never followed is a no-op.
func (s *FollowService) Unfollow(viewer models.Viewer, username string) error {
	author, err := s.users.GetUserByUsername(username)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(viewer, ActionUnfollow, author.ID); err != nil {
		if errors.Is(err, ErrSelfFollow) {
			return nil
		}
		return err
	}

	_, err = s.db.Exec(
		"DELETE FROM follows WHERE user_id = ? AND author_id = ?",
		viewer.ID, author.ID,
	)
	return err
}

// IsFollowing reports whether the (userID, authorID) edge exists.
func (s *FollowService) IsFollowing(userID, authorID string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(1) FROM follows WHERE user_id = ? AND author_id = ?",
		userID, authorID,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
