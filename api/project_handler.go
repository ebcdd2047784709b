package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vincitamore/tui-blog-backend/database"
	"github.com/vincitamore/tui-blog-backend/errs"
	"github.com/vincitamore/tui-blog-backend/models"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	now         func() time.Time
}

func newProjectHandler(projectRepo *database.ProjectRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		now:         time.Now,
	}
}

// getAllProjects retrieves all projects
// @Summary Get all projects
// @Description Retrieves all projects, featured first
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project "List of projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a specific project by slug
// @Summary Get project
// @Description Retrieves a single project by slug
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.Project "Project"
// @Failure 404 {object} ErrorResponse "Not Found - Project absent"
// @Router /project/{slug} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := validateSlug(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a new project; admin only
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.Project true "Project data"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already in use"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var project models.Project
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&project); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := validateSlug(project.Slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if project.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		if project.DateAdded.IsZero() {
			project.DateAdded = h.now().UTC()
		}
		project.DateEdited = nil

		if err := h.projectRepo.Add(r.Context(), project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// updateProject updates an existing project
// @Summary Update project
// @Description Updates an existing project; admin only
// @Tags Projects
// @Accept json
// @Produce json
// @Param slug path string true "Project slug"
// @Param project body models.Project true "Updated project data"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Failure 404 {object} ErrorResponse "Not Found - Project absent"
// @Router /project/{slug} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := validateSlug(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.projectRepo.FindBySlug(r.Context(), slug)
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

		var project models.Project
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&project); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if project.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		project.Slug = slug
		project.DateAdded = existing.DateAdded
		editedAt := h.now().UTC()
		project.DateEdited = &editedAt

		if err := h.projectRepo.Update(r.Context(), project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project
// @Summary Delete project
// @Description Deletes a project; admin only
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} SuccessResponse "Project deleted"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Failure 404 {object} ErrorResponse "Not Found - Project absent"
// @Router /project/{slug} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := validateSlug(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SuccessResponse{Success: true})
	}
}
