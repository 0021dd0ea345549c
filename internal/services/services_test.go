package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkstream/inkstream-be/internal/database"
	"github.com/inkstream/inkstream-be/internal/models"
)

// newTestDB opens an in-memory store. MaxOpenConns(1) keeps every query on
// the single connection that owns the in-memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedUser inserts a user directly and returns the viewer it maps to.
func seedUser(t *testing.T, db *sql.DB, username string) models.Viewer {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Exec(
		"INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)",
		id, username, username+"@example.com", "x",
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return models.Viewer{ID: id, Username: username}
}

// seedGroup inserts a group and returns its id.
func seedGroup(t *testing.T, db *sql.DB, title, slug string) int64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO post_groups(title, slug, description) VALUES(?, ?, ?)",
		title, slug, "about "+title,
	)
	if err != nil {
		t.Fatalf("seed group %s: %v", slug, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// seedPost inserts a post with an explicit timestamp so ordering and
// tie-break behavior are under the test's control.
func seedPost(t *testing.T, db *sql.DB, author models.Viewer, text string, groupID *int64, createdAt time.Time) int64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO posts(text, author_id, group_id, created_at) VALUES(?, ?, ?, ?)",
		text, author.ID, groupID, createdAt.UTC(),
	)
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func seedFollow(t *testing.T, db *sql.DB, user, author models.Viewer) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO follows(user_id, author_id) VALUES(?, ?)", user.ID, author.ID); err != nil {
		t.Fatalf("seed follow: %v", err)
	}
}

func countRows(t *testing.T, db *sql.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
