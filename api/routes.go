package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires every route group: public reads, comment writes with
// their mixed authorization, and the admin surface.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.getHealth())

		// Public content reads
		r.Get("/blog-posts", handlers.blogPostHandler.getAllBlogPosts())
		r.Get("/blog-post/{slug}", handlers.blogPostHandler.getBlogPost())
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{slug}", handlers.projectHandler.getProject())

		// Comments: reads and creates are public, edits accept an ownership
		// token or an admin session, deletes are admin only
		r.Get("/comments/{slug}", handlers.commentHandler.listComments())
		r.Post("/comments/{slug}", handlers.commentHandler.createComment())
		r.Group(func(r chi.Router) {
			r.Use(auth.optionalAdmin)
			r.Put("/comments/{slug}/{commentID}", handlers.commentHandler.updateComment())
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.requireAdmin)
			r.Delete("/comments/{slug}/{commentID}", handlers.commentHandler.deleteComment())
		})

		// Admin surface
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", handlers.adminHandler.login())

			r.Group(func(r chi.Router) {
				r.Use(auth.requireAdmin)
				r.Post("/logout", handlers.adminHandler.logout())
				r.Put("/password", handlers.adminHandler.changePassword())
				r.Get("/comments", handlers.adminHandler.getCommentOverview())
				r.Get("/bans", handlers.adminHandler.listBans())
				r.Post("/bans", handlers.adminHandler.createBan())
				r.Delete("/bans/{ip}", handlers.adminHandler.deleteBan())
			})
		})

		// Admin content writes
		r.Group(func(r chi.Router) {
			r.Use(auth.requireAdmin)
			r.Post("/blog-post", handlers.blogPostHandler.createBlogPost())
			r.Put("/blog-post/{slug}", handlers.blogPostHandler.updateBlogPost())
			r.Delete("/blog-post/{slug}", handlers.blogPostHandler.deleteBlogPost())
			r.Post("/project", handlers.projectHandler.createProject())
			r.Put("/project/{slug}", handlers.projectHandler.updateProject())
			r.Delete("/project/{slug}", handlers.projectHandler.deleteProject())
		})
	})
}
