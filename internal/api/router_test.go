package api

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inkstream/inkstream-be/internal/auth"
	"github.com/inkstream/inkstream-be/internal/cache"
	"github.com/inkstream/inkstream-be/internal/database"
	"github.com/inkstream/inkstream-be/internal/media"
	"github.com/inkstream/inkstream-be/internal/models"
	"github.com/inkstream/inkstream-be/internal/render"
	"github.com/inkstream/inkstream-be/internal/services"
)

type testEnv struct {
	router    *chi.Mux
	db        *sql.DB
	feedCache *cache.MemoryFeedCache
	users     *services.UserService
}

func newTestEnv(t *testing.T) *testEnv {
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

	store, err := media.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("media store: %v", err)
	}
	feedCache := cache.NewMemoryFeedCache(time.Minute)

	guard := services.Guard{}
	users := services.NewUserService(db)
	groups := services.NewGroupService(db)
	posts := services.NewPostService(db, guard, store, feedCache)
	follows := services.NewFollowService(db, guard, users)
	feeds := services.NewFeedService(db, users, groups, follows)

	router := NewRouter(feeds, posts, follows, groups, users, render.JSONRenderer{}, feedCache)
	return &testEnv{router: router, db: db, feedCache: feedCache, users: users}
}

// register creates an account and returns the viewer plus a bearer token.
func (e *testEnv) register(t *testing.T, username string) (models.Viewer, string) {
	t.Helper()
	user, err := e.users.CreateUser(username, username+"@example.com", "pw")
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	token, err := auth.GenerateJWT(user)
	if err != nil {
		t.Fatalf("token for %s: %v", username, err)
	}
	return models.Viewer{ID: user.ID, Username: user.Username}, token
}

func (e *testEnv) seedPost(t *testing.T, author models.Viewer, text string) int64 {
	t.Helper()
	res, err := e.db.Exec(
		"INSERT INTO posts(text, author_id, created_at) VALUES(?, ?, ?)",
		text, author.ID, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func (e *testEnv) do(t *testing.T, method, target, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	r := httptest.NewRequest(method, target, body)
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func TestAnonymousMutationRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/posts", "", url.Values{"text": {"hi"}})
	if w.Code != http.StatusFound {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusFound)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Path != auth.LoginPath {
		t.Errorf("redirect target: got %q, want %q", loc.Path, auth.LoginPath)
	}
	if loc.Query().Get("next") != "/posts" {
		t.Errorf("continuation: got %q, want /posts", loc.Query().Get("next"))
	}
}

func TestNonOwnerEditRedirectsToPostView(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "ana")
	_, otherToken := env.register(t, "boris")
	id := env.seedPost(t, owner, "ana's post")

	target := "/posts/" + strconv.FormatInt(id, 10)
	w := env.do(t, "PUT", target, otherToken, url.Values{"text": {"hijack"}})
	if w.Code != http.StatusFound {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusFound)
	}
	if got := w.Header().Get("Location"); got != target {
		t.Errorf("redirect target: got %q, want %q", got, target)
	}

	w = env.do(t, "DELETE", target, otherToken, nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != target {
		t.Errorf("delete redirect: status %d location %q", w.Code, w.Header().Get("Location"))
	}

	// The post is untouched.
	var text string
	if err := env.db.QueryRow("SELECT text FROM posts WHERE id = ?", id).Scan(&text); err != nil {
		t.Fatalf("read post: %v", err)
	}
	if text != "ana's post" {
		t.Errorf("post text after denied edit: %q", text)
	}
}

func TestOwnerEditSucceeds(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.register(t, "ana")
	id := env.seedPost(t, owner, "draft")

	w := env.do(t, "PUT", "/posts/"+strconv.FormatInt(id, 10), token, url.Values{"text": {"final"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var text string
	if err := env.db.QueryRow("SELECT text FROM posts WHERE id = ?", id).Scan(&text); err != nil {
		t.Fatalf("read post: %v", err)
	}
	if text != "final" {
		t.Errorf("post text after edit: %q", text)
	}
}

func TestGlobalFeedCacheStalenessWindow(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.register(t, "ana")
	env.seedPost(t, author, "first post")

	first := env.do(t, "GET", "/", "", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first render: %d", first.Code)
	}

	// A write that sidesteps the service layer changes the data without
	// invalidating. The cached rendering must be byte-identical.
	env.seedPost(t, author, "second post")

	stale := env.do(t, "GET", "/", "", nil)
	if !bytes.Equal(stale.Body.Bytes(), first.Body.Bytes()) {
		t.Fatal("pre-invalidation rendering changed")
	}
	if strings.Contains(stale.Body.String(), "second post") {
		t.Fatal("stale rendering already shows the new post")
	}

	env.feedCache.Invalidate()

	fresh := env.do(t, "GET", "/", "", nil)
	if bytes.Equal(fresh.Body.Bytes(), first.Body.Bytes()) {
		t.Fatal("post-invalidation rendering did not change")
	}
	if !strings.Contains(fresh.Body.String(), "second post") {
		t.Fatal("post-invalidation rendering misses the new post")
	}
}

func TestAuthenticatedViewersBypassFeedCache(t *testing.T) {
	env := newTestEnv(t)
	author, token := env.register(t, "ana")
	env.seedPost(t, author, "first post")

	if w := env.do(t, "GET", "/", "", nil); w.Code != http.StatusOK {
		t.Fatalf("anonymous render: %d", w.Code)
	}
	env.seedPost(t, author, "second post")

	w := env.do(t, "GET", "/", token, nil)
	if !strings.Contains(w.Body.String(), "second post") {
		t.Error("authenticated viewer served the cached anonymous rendering")
	}
}

func TestFollowEndpoints(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.register(t, "ana")
	env.register(t, "boris")

	if w := env.do(t, "POST", "/profiles/boris/follow", "", nil); w.Code != http.StatusFound {
		t.Errorf("anonymous follow: got %d, want redirect", w.Code)
	}

	if w := env.do(t, "POST", "/profiles/boris/follow", token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("follow: got %d", w.Code)
	}
	var n int
	if err := env.db.QueryRow("SELECT COUNT(1) FROM follows WHERE user_id = ?", user.ID).Scan(&n); err != nil {
		t.Fatalf("count follows: %v", err)
	}
	if n != 1 {
		t.Errorf("edge count: got %d, want 1", n)
	}

	if w := env.do(t, "DELETE", "/profiles/boris/follow", token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("unfollow: got %d", w.Code)
	}
	if w := env.do(t, "POST", "/profiles/ghost/follow", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("follow unknown author: got %d, want 404", w.Code)
	}
}

func TestGroupAndProfileNotFound(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, "GET", "/groups/no-such-slug", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown group: got %d, want 404", w.Code)
	}
	if w := env.do(t, "GET", "/profiles/ghost", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown profile: got %d, want 404", w.Code)
	}
}

func TestFollowingFeedEndpointRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/following", "", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("anonymous following feed: got %d, want redirect", w.Code)
	}
	loc, _ := url.Parse(w.Header().Get("Location"))
	if loc.Query().Get("next") != "/following" {
		t.Errorf("continuation: got %q", loc.Query().Get("next"))
	}
}

func TestCreatePostEndpointValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "ana")

	w := env.do(t, "POST", "/posts", token, url.Values{"text": {"   "}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank text: got %d, want 422", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"field":"text"`) {
		t.Errorf("field error body: %s", w.Body.String())
	}

	w = env.do(t, "POST", "/posts", token, url.Values{"text": {"hello"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", w.Code, w.Body.String())
	}
}
