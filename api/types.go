package api

import (
	"github.com/vincitamore/tui-blog-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	commentHandler  commentHandler
	adminHandler    adminHandler
	blogPostHandler blogPostHandler
	projectHandler  projectHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"content"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// SuccessResponse acknowledges a mutation with no other payload
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

type createCommentRequest struct {
	Content     string  `json:"content"`
	Author      string  `json:"author,omitempty"`
	AuthorToken string  `json:"authorToken"`
	ParentID    *string `json:"parentId,omitempty"`
}

type updateCommentRequest struct {
	Content     string `json:"content"`
	AuthorToken string `json:"authorToken,omitempty"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type banRequest struct {
	IP     string `json:"ip"`
	Reason string `json:"reason,omitempty"`
}

// CommentOverview is the admin dashboard payload: the aggregate metadata,
// the newest raw comments with moderation fields intact, and how many
// comments arrived since the admin's previous login.
type CommentOverview struct {
	Meta              models.CommentsMeta `json:"meta"`
	RecentComments    []models.Comment    `json:"recentComments"`
	NewSinceLastLogin int                 `json:"newSinceLastLogin"`
}

type healthResponse struct {
	Status string `json:"status" example:"ok"`
	Uptime string `json:"uptime" example:"1h23m45s"`
}
