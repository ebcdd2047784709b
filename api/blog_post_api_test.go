package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/vincitamore/tui-blog-backend/models"
)

func TestBlogPostLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin("secret123")
	token := env.login("secret123")

	w := env.request(http.MethodGet, "/blog-posts", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("Expected empty array before any posts, got %q", body)
	}

	post := map[string]any{
		"slug":    "hello-world",
		"title":   "Hello World",
		"content": "The very first post.",
		"tags":    []string{"meta"},
	}
	w = env.request(http.MethodPost, "/blog-post", post, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.BlogPost
	env.decode(w, &created)
	if created.DateAdded.IsZero() {
		t.Error("Expected dateAdded defaulted")
	}
	if created.Length != 1 {
		t.Errorf("Expected reading length 1, got %d", created.Length)
	}
	if created.DateEdited != nil {
		t.Error("Expected no dateEdited on a fresh post")
	}

	w = env.request(http.MethodGet, "/blog-post/hello-world", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var fetched models.BlogPost
	env.decode(w, &fetched)
	if fetched.Title != "Hello World" {
		t.Errorf("Expected stored post back, got %+v", fetched)
	}

	w = env.request(http.MethodPost, "/blog-post", post, token)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 reusing a slug, got %d", w.Code)
	}

	update := map[string]any{
		"slug":    "renamed-slug",
		"title":   "Hello Again",
		"content": "Edited body.",
	}
	w = env.request(http.MethodPut, "/blog-post/hello-world", update, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.BlogPost
	env.decode(w, &updated)
	if updated.Slug != "hello-world" {
		t.Errorf("Expected slug immutable, got %q", updated.Slug)
	}
	if !updated.DateAdded.Equal(created.DateAdded) {
		t.Errorf("Expected dateAdded preserved, got %v", updated.DateAdded)
	}
	if updated.DateEdited == nil {
		t.Error("Expected dateEdited set on update")
	}

	w = env.request(http.MethodDelete, "/blog-post/hello-world", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	w = env.request(http.MethodGet, "/blog-post/hello-world", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}
}

func TestBlogPostWritesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	post := map[string]any{"slug": "hello", "title": "Hello", "content": "body"}
	if w := env.request(http.MethodPost, "/blog-post", post, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 on create, got %d", w.Code)
	}
	if w := env.request(http.MethodPut, "/blog-post/hello", post, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 on update, got %d", w.Code)
	}
	if w := env.request(http.MethodDelete, "/blog-post/hello", nil, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 on delete, got %d", w.Code)
	}
}

func TestBlogPostValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin("secret123")
	token := env.login("secret123")

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing slug", body: map[string]any{"title": "t", "content": "c"}},
		{name: "invalid slug", body: map[string]any{"slug": "bad slug", "title": "t", "content": "c"}},
		{name: "missing title", body: map[string]any{"slug": "ok-slug", "content": "c"}},
		{name: "missing content", body: map[string]any{"slug": "ok-slug", "title": "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(http.MethodPost, "/blog-post", tt.body, token)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestBlogPostReadingLength(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin("secret123")
	token := env.login("secret123")

	post := map[string]any{
		"slug":    "long-read",
		"title":   "Long Read",
		"content": strings.Repeat("word ", 450),
	}
	w := env.request(http.MethodPost, "/blog-post", post, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	var created models.BlogPost
	env.decode(w, &created)
	if created.Length != 2 {
		t.Errorf("Expected 450 words to read in 2 minutes, got %d", created.Length)
	}
}

func TestBlogPostsListedNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin("secret123")
	token := env.login("secret123")
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, p := range []map[string]any{
		{"slug": "older", "title": "Older", "content": "c", "dateAdded": base},
		{"slug": "newest", "title": "Newest", "content": "c", "dateAdded": base.Add(48 * time.Hour)},
		{"slug": "middle", "title": "Middle", "content": "c", "dateAdded": base.Add(24 * time.Hour)},
	} {
		if w := env.request(http.MethodPost, "/blog-post", p, token); w.Code != http.StatusCreated {
			t.Fatalf("creating %v failed: %d", p["slug"], w.Code)
		}
	}

	w := env.request(http.MethodGet, "/blog-posts", nil, "")
	var posts []models.BlogPost
	env.decode(w, &posts)
	if len(posts) != 3 {
		t.Fatalf("Expected 3 posts, got %d", len(posts))
	}
	for i, want := range []string{"newest", "middle", "older"} {
		if posts[i].Slug != want {
			t.Errorf("Expected posts[%d]=%s, got %s", i, want, posts[i].Slug)
		}
	}
}

func TestBlogPostUpdateUnknownSlug(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin("secret123")
	token := env.login("secret123")

	body := map[string]any{"title": "t", "content": "c"}
	w := env.request(http.MethodPut, "/blog-post/ghost", body, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDeleteBlogPostKeepsComments(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin("secret123")
	token := env.login("secret123")

	post := map[string]any{"slug": "doomed", "title": "Doomed", "content": "body"}
	if w := env.request(http.MethodPost, "/blog-post", post, token); w.Code != http.StatusCreated {
		t.Fatalf("creating post failed: %d", w.Code)
	}
	env.createComment("doomed", "will outlive the post", "tok")

	if w := env.request(http.MethodDelete, "/blog-post/doomed", nil, token); w.Code != http.StatusOK {
		t.Fatalf("deleting post failed: %d", w.Code)
	}

	// The comment collection is its own document and survives the post.
	w := env.request(http.MethodGet, "/comments/doomed", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var comments []models.PublicComment
	env.decode(w, &comments)
	if len(comments) != 1 {
		t.Errorf("Expected the comment to survive post deletion, got %d", len(comments))
	}
}
