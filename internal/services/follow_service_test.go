package services

import (
	"errors"
	"testing"

	"github.com/inkstream/inkstream-be/internal/models"
)

func TestFollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db, Guard{}, NewUserService(db))
	user := seedUser(t, db, "ana")
	seedUser(t, db, "boris")

	if err := svc.Follow(user, "boris"); err != nil {
		t.Fatalf("first follow: %v", err)
	}
	if err := svc.Follow(user, "boris"); err != nil {
		t.Fatalf("second follow: %v", err)
	}

	if n := countRows(t, db, "SELECT COUNT(1) FROM follows"); n != 1 {
		t.Errorf("edge count after double follow: got %d, want 1", n)
	}
}

func TestSelfFollowIsNeverPersisted(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db, Guard{}, NewUserService(db))
	user := seedUser(t, db, "ana")

	// A self-follow is absorbed, not reported.
	if err := svc.Follow(user, "ana"); err != nil {
		t.Fatalf("self follow must be a silent no-op: %v", err)
	}
	if n := countRows(t, db, "SELECT COUNT(1) FROM follows WHERE user_id = ? AND author_id = ?", user.ID, user.ID); n != 0 {
		t.Errorf("self-follow edge count: got %d, want 0", n)
	}
}

func TestUnfollow(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db, Guard{}, NewUserService(db))
	user := seedUser(t, db, "ana")
	author := seedUser(t, db, "boris")
	seedFollow(t, db, user, author)

	if err := svc.Unfollow(user, "boris"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if n := countRows(t, db, "SELECT COUNT(1) FROM follows"); n != 0 {
		t.Errorf("edge count after unfollow: got %d, want 0", n)
	}

	// Unfollowing again, with no edge left, is a no-op.
	if err := svc.Unfollow(user, "boris"); err != nil {
		t.Errorf("unfollow without an edge must be a no-op: %v", err)
	}
}

func TestFollowUnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db, Guard{}, NewUserService(db))
	user := seedUser(t, db, "ana")

	if err := svc.Follow(user, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("follow unknown author: got %v, want ErrNotFound", err)
	}
}

func TestFollowRequiresAuthentication(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db, Guard{}, NewUserService(db))
	seedUser(t, db, "boris")

	if err := svc.Follow(models.Anonymous, "boris"); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("anonymous follow: got %v, want ErrAuthRequired", err)
	}
	if err := svc.Unfollow(models.Anonymous, "boris"); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("anonymous unfollow: got %v, want ErrAuthRequired", err)
	}
}

func TestIsFollowing(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db, Guard{}, NewUserService(db))
	user := seedUser(t, db, "ana")
	author := seedUser(t, db, "boris")

	following, err := svc.IsFollowing(user.ID, author.ID)
	if err != nil {
		t.Fatalf("IsFollowing: %v", err)
	}
	if following {
		t.Error("no edge yet, IsFollowing should be false")
	}

	seedFollow(t, db, user, author)
	following, err = svc.IsFollowing(user.ID, author.ID)
	if err != nil {
		t.Fatalf("IsFollowing: %v", err)
	}
	if !following {
		t.Error("edge exists, IsFollowing should be true")
	}
}
