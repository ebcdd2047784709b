package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vincitamore/tui-blog-backend/database"
	"github.com/vincitamore/tui-blog-backend/errs"
	"github.com/vincitamore/tui-blog-backend/models"
)

const wordsPerMinute = 200

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
	now          func() time.Time
}

func newBlogPostHandler(blogPostRepo *database.BlogPostRepo) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: blogPostRepo,
		now:          time.Now,
	}
}

// readingLength estimates reading time in whole minutes.
func readingLength(content string) int {
	words := len(strings.Fields(content))
	minutes := words / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// getAllBlogPosts retrieves all blog posts
// @Summary Get all blog posts
// @Description Retrieves all blog posts, newest first
// @Tags Blog Posts
// @Produce json
// @Success 200 {array} models.BlogPost "List of blog posts"
// @Router /blog-posts [get]
func (h blogPostHandler) getAllBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPosts, err := h.blogPostRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, blogPosts)
	}
}

// getBlogPost retrieves a specific blog post by slug
// @Summary Get blog post
// @Description Retrieves a single blog post by slug
// @Tags Blog Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.BlogPost "Blog post"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post absent"
// @Router /blog-post/{slug} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := validateSlug(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogPost, err := h.blogPostRepo.FindBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, blogPost)
	}
}

// createBlogPost creates a new blog post
// @Summary Create blog post
// @Description Creates a new blog post; admin only
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param blogPost body models.BlogPost true "Blog post data"
// @Success 201 {object} models.BlogPost "Created blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already in use"
// @Router /blog-post [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var blogPost models.BlogPost
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&blogPost); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog post request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := validateSlug(blogPost.Slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if blogPost.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if blogPost.Content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}

		if blogPost.DateAdded.IsZero() {
			blogPost.DateAdded = h.now().UTC()
		}
		blogPost.DateEdited = nil
		blogPost.Length = readingLength(blogPost.Content)

		if err := h.blogPostRepo.Add(r.Context(), blogPost); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, blogPost)
	}
}

// updateBlogPost updates an existing blog post
// @Summary Update blog post
// @Description Updates an existing blog post; admin only
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param blogPost body models.BlogPost true "Updated blog post data"
// @Success 200 {object} models.BlogPost "Updated blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post absent"
// @Router /blog-post/{slug} [put]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := validateSlug(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.blogPostRepo.FindBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var blogPost models.BlogPost
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&blogPost); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog post request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if blogPost.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if blogPost.Content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}

		// The slug is the document key; it never changes on update.
		blogPost.Slug = slug
		blogPost.DateAdded = existing.DateAdded
		editedAt := h.now().UTC()
		blogPost.DateEdited = &editedAt
		blogPost.Length = readingLength(blogPost.Content)

		if err := h.blogPostRepo.Update(r.Context(), blogPost); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, blogPost)
	}
}

// deleteBlogPost deletes a blog post
// @Summary Delete blog post
// @Description Deletes a blog post; admin only. Its comment collection is left in place.
// @Tags Blog Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} SuccessResponse "Blog post deleted"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post absent"
// @Router /blog-post/{slug} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := validateSlug(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.blogPostRepo.Delete(r.Context(), slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SuccessResponse{Success: true})
	}
}
