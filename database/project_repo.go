package database

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/vincitamore/tui-blog-backend/errs"
	"github.com/vincitamore/tui-blog-backend/models"
	"github.com/vincitamore/tui-blog-backend/storage"
)

// ProjectRepo owns the project collection, one document keyed by slug.
type ProjectRepo struct {
	store storage.Store
}

func NewProjectRepo(store storage.Store) *ProjectRepo {
	return &ProjectRepo{store}
}

func (r *ProjectRepo) load(ctx context.Context) ([]models.Project, error) {
	raw, found, err := r.store.Get(ctx, projectsKey)
	if err != nil {
		return nil, errs.NewStorageReadError(projectsKey, err)
	}
	if !found {
		return []models.Project{}, nil
	}

	var projects []models.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		log.Warn().Err(err).Str("key", projectsKey).Msg("corrupt project collection, treating as empty")
		return []models.Project{}, nil
	}
	return projects, nil
}

func (r *ProjectRepo) save(ctx context.Context, projects []models.Project) error {
	raw, err := json.Marshal(projects)
	if err != nil {
		return errs.NewInternalErrorWithCause("encoding project collection", err)
	}
	if err := r.store.Put(ctx, projectsKey, raw); err != nil {
		return errs.NewStorageWriteError(projectsKey, err)
	}
	return nil
}

// FindAll returns every project, featured ones first, then newest first.
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	projects, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Featured != projects[j].Featured {
			return projects[i].Featured
		}
		return projects[i].DateAdded.After(projects[j].DateAdded)
	})
	return projects, nil
}

func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	projects, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].Slug == slug {
			return &projects[i], nil
		}
	}
	return nil, errs.NewNotFound("project")
}

func (r *ProjectRepo) Add(ctx context.Context, project models.Project) error {
	projects, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range projects {
		if projects[i].Slug == project.Slug {
			return errs.NewAlreadyExists("project")
		}
	}
	return r.save(ctx, append(projects, project))
}

func (r *ProjectRepo) Update(ctx context.Context, project models.Project) error {
	projects, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range projects {
		if projects[i].Slug == project.Slug {
			projects[i] = project
			return r.save(ctx, projects)
		}
	}
	return errs.NewNotFound("project")
}

func (r *ProjectRepo) Delete(ctx context.Context, slug string) error {
	projects, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range projects {
		if projects[i].Slug == slug {
			return r.save(ctx, append(projects[:i], projects[i+1:]...))
		}
	}
	return errs.NewNotFound("project")
}
