package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vincitamore/tui-blog-backend/database"
	"github.com/vincitamore/tui-blog-backend/models"
	"github.com/vincitamore/tui-blog-backend/storage"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

var errStoreDown = errors.New("store is down")

// flakyStore wraps a working store and fails selected keys so tests can
// exercise the degraded paths a storage outage produces.
type flakyStore struct {
	inner    storage.Store
	failGets map[string]bool
	failPuts map[string]bool
}

func newFlakyStore(inner storage.Store) *flakyStore {
	return &flakyStore{
		inner:    inner,
		failGets: make(map[string]bool),
		failPuts: make(map[string]bool),
	}
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.failGets[key] {
		return nil, false, errStoreDown
	}
	return s.inner.Get(ctx, key)
}

func (s *flakyStore) Put(ctx context.Context, key string, value []byte) error {
	if s.failPuts[key] {
		return errStoreDown
	}
	return s.inner.Put(ctx, key, value)
}

// Storage keys of the documents tests break on purpose.
const (
	bansStorageKey = "bans"
	metaStorageKey = "comments-meta"
)

type testEnv struct {
	t      *testing.T
	db     database.Database
	store  *flakyStore
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFlakyStore(storage.NewMemoryStore())
	db := database.New(store)

	router := chi.NewRouter()
	handlers := initializeHandlers(db, time.Now())
	auth := newAuthMiddleware(db.SessionRepo(), models.SessionTTL)
	setupRoutes(router, handlers, auth)

	return &testEnv{t: t, db: db, store: store, router: router}
}

func (e *testEnv) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshaling request body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "203.0.113.1:52000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) rawRequest(method, path string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "203.0.113.1:52000"
	return req, httptest.NewRecorder()
}

func (e *testEnv) decode(w *httptest.ResponseRecorder, into any) {
	e.t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		e.t.Fatalf("decoding response %q failed: %v", w.Body.String(), err)
	}
}

// seedAdmin stores credentials directly. Low hashing cost keeps the suite
// fast; verification accepts whatever cost the stored hash carries.
func (e *testEnv) seedAdmin(password string) {
	e.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		e.t.Fatalf("hashing seed password failed: %v", err)
	}
	if err := e.db.CredentialRepo().SetPasswordHash(context.Background(), string(hash), time.Now().UTC()); err != nil {
		e.t.Fatalf("seeding credentials failed: %v", err)
	}
}

func (e *testEnv) login(password string) string {
	e.t.Helper()

	w := e.request(http.MethodPost, "/admin/login", map[string]string{"password": password}, "")
	if w.Code != http.StatusOK {
		e.t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	var resp loginResponse
	e.decode(w, &resp)
	return resp.Token
}

func (e *testEnv) createComment(slug, content, authorToken string) models.PublicComment {
	e.t.Helper()

	body := map[string]any{"content": content, "authorToken": authorToken}
	w := e.request(http.MethodPost, "/comments/"+slug, body, "")
	if w.Code != http.StatusCreated {
		e.t.Fatalf("creating comment failed with status %d: %s", w.Code, w.Body.String())
	}
	var created models.PublicComment
	e.decode(w, &created)
	return created
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp healthResponse
	env.decode(w, &resp)
	if resp.Status != "ok" {
		t.Errorf("Expected status ok, got %q", resp.Status)
	}
	if resp.Uptime == "" {
		t.Error("Expected an uptime value")
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(http.MethodGet, "/no-such-route", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
