package api

import (
	"time"

	"github.com/vincitamore/tui-blog-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		commentHandler:  newCommentHandler(database.CommentRepo(), database.MetaRepo(), database.BanRepo()),
		adminHandler:    newAdminHandler(database),
		blogPostHandler: newBlogPostHandler(database.BlogPostRepo()),
		projectHandler:  newProjectHandler(database.ProjectRepo()),
		healthHandler:   newHealthHandler(startupTime),
	}
}
