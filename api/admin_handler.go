package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vincitamore/tui-blog-backend/database"
	"github.com/vincitamore/tui-blog-backend/errs"
	"github.com/vincitamore/tui-blog-backend/models"
	"github.com/vincitamore/tui-blog-backend/services"
)

const (
	// maxOverviewComments bounds the raw comment listing on the dashboard.
	maxOverviewComments = 100
	minPasswordLength   = 6
)

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	now       func() time.Time
}

func newAdminHandler(db database.Database) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		now:       time.Now,
	}
}

// login exchanges the admin password for a session token
// @Summary Admin login
// @Description Verifies the admin password and mints an opaque session token
// @Tags Admin
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Admin password"
// @Success 200 {object} loginResponse "Session token"
// @Failure 401 {object} ErrorResponse "Unauthorized - Wrong password"
// @Router /admin/login [post]
func (h adminHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req loginRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}
		if req.Password == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("password"))
			return
		}

		creds, err := h.db.CredentialRepo().Load(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if creds == nil || !services.CheckPasswordHash(req.Password, creds.PasswordHash) {
			h.responder.WriteError(w, errs.NewWrongCredentialsError())
			return
		}

		token, err := services.NewSessionToken()
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("minting session token", err))
			return
		}

		session := models.AdminSession{Token: token, CreatedAt: h.now().UTC()}
		if err := h.db.SessionRepo().Add(r.Context(), session); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// The login timestamps feed the dashboard's new-comment counter;
		// failing to rotate them must not fail the login.
		if err := h.db.CredentialRepo().RecordLogin(r.Context(), session.CreatedAt); err != nil {
			h.logger.Warn().Err(err).Msg("failed to record login time")
		}

		h.responder.WriteJSON(w, loginResponse{Token: token})
	}
}

// logout destroys the presented session
// @Summary Admin logout
// @Description Removes the current admin session from the session store
// @Tags Admin
// @Produce json
// @Success 200 {object} SuccessResponse "Session removed"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Router /admin/logout [post]
func (h adminHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := ctxAdminToken(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		if err := h.db.SessionRepo().Remove(r.Context(), token); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SuccessResponse{Success: true})
	}
}

// getCommentOverview serves the moderation dashboard payload
// @Summary Comment overview
// @Description Returns aggregate metadata, the newest raw comments with moderation fields, and the count of comments since the previous login
// @Tags Admin
// @Produce json
// @Success 200 {object} CommentOverview "Dashboard payload"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Router /admin/comments [get]
func (h adminHandler) getCommentOverview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta, err := h.db.MetaRepo().Load(r.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("comment metadata unreadable, serving defaults")
			meta = models.CommentsMeta{}
			meta.Normalize()
		}

		comments, err := services.CollectComments(r.Context(), h.db, meta)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		newCount := len(comments)
		creds, err := h.db.CredentialRepo().Load(r.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("credentials unreadable, counting all comments as new")
		} else if creds != nil && creds.PreviousLoginAt != nil {
			cutoff := *creds.PreviousLoginAt
			newCount = 0
			for _, comment := range comments {
				if comment.CreatedAt.After(cutoff) {
					newCount++
				}
			}
		}

		if len(comments) > maxOverviewComments {
			comments = comments[:maxOverviewComments]
		}

		h.responder.WriteJSON(w, CommentOverview{
			Meta:              meta,
			RecentComments:    comments,
			NewSinceLastLogin: newCount,
		})
	}
}

// listBans returns the ban list
// @Summary List bans
// @Description Retrieves every ban entry
// @Tags Admin
// @Produce json
// @Success 200 {array} models.BanEntry "Ban list"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Router /admin/bans [get]
func (h adminHandler) listBans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bans, err := h.db.BanRepo().List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, bans)
	}
}

// createBan adds an IP to the ban list
// @Summary Ban IP
// @Description Adds an IP to the ban list; banning an already-banned IP is a conflict
// @Tags Admin
// @Accept json
// @Produce json
// @Param ban body banRequest true "IP and optional reason"
// @Success 201 {object} models.BanEntry "Created ban entry"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing IP"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Failure 409 {object} ErrorResponse "Conflict - IP already banned"
// @Router /admin/bans [post]
func (h adminHandler) createBan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req banRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}
		if req.IP == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("ip"))
			return
		}

		reason := req.Reason
		if reason == "" {
			reason = models.DefaultBanReason
		}

		entry := models.BanEntry{
			IP:       req.IP,
			Reason:   reason,
			BannedAt: h.now().UTC(),
			BannedBy: models.BanIssuer,
		}

		if err := h.db.BanRepo().Add(r.Context(), entry); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, entry)
	}
}

// deleteBan lifts a ban
// @Summary Unban IP
// @Description Removes an IP from the ban list
// @Tags Admin
// @Produce json
// @Param ip path string true "Banned IP"
// @Success 200 {object} SuccessResponse "Ban removed"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Failure 404 {object} ErrorResponse "Not Found - IP not banned"
// @Router /admin/bans/{ip} [delete]
func (h adminHandler) deleteBan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := chi.URLParam(r, "ip")
		if ip == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("ip"))
			return
		}

		if err := h.db.BanRepo().Remove(r.Context(), ip); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SuccessResponse{Success: true})
	}
}

// changePassword rotates the admin password
// @Summary Change admin password
// @Description Replaces the admin password after re-checking the current one; other sessions stay valid
// @Tags Admin
// @Accept json
// @Produce json
// @Param passwords body changePasswordRequest true "Current and new password"
// @Success 200 {object} SuccessResponse "Password changed"
// @Failure 400 {object} ErrorResponse "Bad Request - New password too short"
// @Failure 401 {object} ErrorResponse "Unauthorized - Wrong current password"
// @Router /admin/password [put]
func (h adminHandler) changePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req changePasswordRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}
		if req.CurrentPassword == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("currentPassword"))
			return
		}
		if utf8.RuneCountInString(req.NewPassword) < minPasswordLength {
			h.responder.WriteError(w, errs.NewInvalidFieldError("newPassword", "must be at least 6 characters"))
			return
		}

		creds, err := h.db.CredentialRepo().Load(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if creds == nil || !services.CheckPasswordHash(req.CurrentPassword, creds.PasswordHash) {
			h.responder.WriteError(w, errs.NewWrongCredentialsError())
			return
		}

		hash, err := services.HashPassword(req.NewPassword)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("hashing password", err))
			return
		}

		// Outstanding sessions stay valid after a password change.
		if err := h.db.CredentialRepo().SetPasswordHash(r.Context(), hash, h.now().UTC()); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SuccessResponse{Success: true})
	}
}
