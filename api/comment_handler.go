package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vincitamore/tui-blog-backend/database"
	"github.com/vincitamore/tui-blog-backend/errs"
	"github.com/vincitamore/tui-blog-backend/models"
	"github.com/vincitamore/tui-blog-backend/services"
)

const maxSlugLength = 200

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// validateSlug bounds the path segment used as a document key component.
func validateSlug(slug string) error {
	if slug == "" {
		return errs.NewMissingRequiredFieldError("slug")
	}
	if len(slug) > maxSlugLength {
		return errs.NewInvalidFieldError("slug", "too long")
	}
	if !slugPattern.MatchString(slug) {
		return errs.NewInvalidFieldError("slug", "contains invalid characters")
	}
	return nil
}

type commentHandler struct {
	responder Responder
	logger    zerolog.Logger
	comments  *database.CommentRepo
	meta      *database.MetaRepo
	bans      *database.BanRepo
	now       func() time.Time
}

func newCommentHandler(comments *database.CommentRepo, meta *database.MetaRepo, bans *database.BanRepo) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		comments:  comments,
		meta:      meta,
		bans:      bans,
		now:       time.Now,
	}
}

// listComments returns a post's comments in reading order
// @Summary List comments
// @Description Retrieves all comments for a post, oldest first, with moderation fields stripped. Pass nested=true for a reply tree instead of the flat list.
// @Tags Comments
// @Produce json
// @Param slug path string true "Post slug"
// @Param nested query bool false "Return a nested reply tree"
// @Success 200 {array} models.PublicComment "Comments in reading order"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid slug"
// @Router /comments/{slug} [get]
func (h commentHandler) listComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := validateSlug(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comments, err := h.comments.FindAll(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		public := models.PublicComments(comments)
		if nested := r.URL.Query().Get("nested"); nested == "true" || nested == "1" {
			h.responder.WriteJSON(w, models.BuildCommentTree(public))
			return
		}
		h.responder.WriteJSON(w, public)
	}
}

// createComment stores a new comment on a post
// @Summary Create comment
// @Description Validates and stores an anonymous comment; the client supplies its own ownership token
// @Tags Comments
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param comment body createCommentRequest true "Comment data"
// @Success 201 {object} models.PublicComment "Created comment"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failure"
// @Failure 403 {object} ErrorResponse "Forbidden - IP is banned"
// @Router /comments/{slug} [post]
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := validateSlug(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req createCommentRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode comment request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		content := strings.TrimSpace(req.Content)
		if content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}
		if utf8.RuneCountInString(content) > models.MaxCommentLength {
			h.responder.WriteError(w, errs.NewInvalidFieldError("content", "exceeds maximum length"))
			return
		}
		if req.AuthorToken == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("authorToken"))
			return
		}
		if utf8.RuneCountInString(req.Author) > models.MaxAuthorLength {
			h.responder.WriteError(w, errs.NewInvalidFieldError("author", "exceeds maximum length"))
			return
		}

		ip := clientIP(r)
		if !services.ClientAllowed(r.Context(), h.bans, ip) {
			h.responder.WriteError(w, errs.NewBannedError())
			return
		}

		parentID := req.ParentID
		if parentID != nil && *parentID == "" {
			parentID = nil
		}
		if parentID != nil {
			exists, err := h.comments.HasComment(r.Context(), slug, *parentID)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			if !exists {
				h.responder.WriteError(w, errs.NewInvalidFieldError("parentId", "references a comment that does not exist"))
				return
			}
		}

		comment := models.Comment{
			ID:          uuid.NewString(),
			PostSlug:    slug,
			ParentID:    parentID,
			Author:      models.NormalizeAuthor(req.Author),
			AuthorToken: req.AuthorToken,
			Content:     content,
			IP:          ip,
			CreatedAt:   h.now().UTC(),
		}

		if err := h.comments.Add(r.Context(), slug, comment); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.applyMetaAdd(r.Context(), slug, comment)

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, comment.Public())
	}
}

// updateComment edits a comment's content
// @Summary Update comment
// @Description Replaces a comment's content; requires the ownership token or an admin session
// @Tags Comments
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param commentID path string true "Comment ID"
// @Param comment body updateCommentRequest true "New content plus optional ownership token"
// @Success 200 {object} models.PublicComment "Updated comment"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failure"
// @Failure 403 {object} ErrorResponse "Forbidden - Neither ownership nor admin"
// @Failure 404 {object} ErrorResponse "Not Found - Comment absent"
// @Router /comments/{slug}/{commentID} [put]
func (h commentHandler) updateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := validateSlug(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		commentID := chi.URLParam(r, "commentID")
		if commentID == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("commentID"))
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req updateCommentRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode comment request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		content := strings.TrimSpace(req.Content)
		if content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}
		if utf8.RuneCountInString(content) > models.MaxCommentLength {
			h.responder.WriteError(w, errs.NewInvalidFieldError("content", "exceeds maximum length"))
			return
		}

		// Ownership token first, then admin session; first match wins.
		isAdmin := ctxIsAdmin(r.Context())
		guard := func(stored models.Comment) error {
			if req.AuthorToken != "" && stored.AuthorToken == req.AuthorToken {
				return nil
			}
			if isAdmin {
				return nil
			}
			return errs.NewOwnershipDeniedError()
		}

		editedAt := h.now().UTC()
		updated, err := h.comments.Update(r.Context(), slug, commentID, guard, func(c *models.Comment) {
			c.Content = content
			c.UpdatedAt = &editedAt
			c.Edited = true
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.applyMetaEdit(r.Context(), updated.ID, content)

		h.responder.WriteJSON(w, updated.Public())
	}
}

// deleteComment removes a comment, promoting its children to top level
// @Summary Delete comment
// @Description Removes a comment and nulls its children's parent references; admin only
// @Tags Comments
// @Produce json
// @Param slug path string true "Post slug"
// @Param commentID path string true "Comment ID"
// @Success 200 {object} SuccessResponse "Comment removed"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Failure 404 {object} ErrorResponse "Not Found - Comment absent"
// @Router /comments/{slug}/{commentID} [delete]
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := validateSlug(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		commentID := chi.URLParam(r, "commentID")
		if commentID == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("commentID"))
			return
		}

		removed, err := h.comments.Delete(r.Context(), slug, commentID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.applyMetaRemove(r.Context(), slug, removed.ID)

		h.responder.WriteJSON(w, SuccessResponse{Success: true})
	}
}

// The comment write is the user-visible contract; metadata updates after it
// are best effort and never fail the request.

func (h commentHandler) applyMetaAdd(ctx context.Context, slug string, comment models.Comment) {
	entry := models.RecentComment{
		ID:        comment.ID,
		PostSlug:  slug,
		Author:    comment.Author,
		Preview:   services.ExtractPreview(comment.Content, models.PreviewLength),
		CreatedAt: comment.CreatedAt,
	}
	if err := h.meta.ApplyAdd(ctx, slug, entry); err != nil {
		h.logger.Warn().Err(err).Str("commentId", comment.ID).Msg("failed to apply comment to metadata")
	}
}

func (h commentHandler) applyMetaEdit(ctx context.Context, id, content string) {
	preview := services.ExtractPreview(content, models.PreviewLength)
	if err := h.meta.ApplyEdit(ctx, id, preview); err != nil {
		h.logger.Warn().Err(err).Str("commentId", id).Msg("failed to refresh metadata preview")
	}
}

func (h commentHandler) applyMetaRemove(ctx context.Context, slug, id string) {
	if err := h.meta.ApplyRemove(ctx, slug, id); err != nil {
		h.logger.Warn().Err(err).Str("commentId", id).Msg("failed to remove comment from metadata")
	}
}
