package services

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vincitamore/tui-blog-backend/database"
	"github.com/vincitamore/tui-blog-backend/models"
)

const scanConcurrency = 8

// CollectComments loads every known comment collection concurrently and
// returns the union, newest first. Known slugs are the union of blog posts,
// projects, and whatever the metadata already tracks, which also reaches
// collections whose content has since been deleted.
func CollectComments(ctx context.Context, db database.Database, meta models.CommentsMeta) ([]models.Comment, error) {
	slugs := make(map[string]struct{})
	for slug := range meta.CommentsByPost {
		slugs[slug] = struct{}{}
	}

	posts, err := db.BlogPostRepo().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		slugs[post.Slug] = struct{}{}
	}

	projects, err := db.ProjectRepo().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		slugs[project.Slug] = struct{}{}
	}

	var (
		mu  sync.Mutex
		all []models.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for slug := range slugs {
		g.Go(func() error {
			comments, err := db.CommentRepo().FindAll(gctx, slug)
			if err != nil {
				return err
			}
			if len(comments) == 0 {
				return nil
			}
			mu.Lock()
			all = append(all, comments...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// ReconcileCommentsMeta rebuilds the denormalized comment metadata from the
// authoritative collections and stores it, repairing whatever drift the
// best-effort incremental updates have accumulated. The applied markers are
// carried over so an in-flight retry stays deduplicated across a rebuild.
func ReconcileCommentsMeta(ctx context.Context, db database.Database) (models.CommentsMeta, error) {
	previous, err := db.MetaRepo().Load(ctx)
	if err != nil {
		return models.CommentsMeta{}, err
	}

	comments, err := CollectComments(ctx, db, previous)
	if err != nil {
		return models.CommentsMeta{}, err
	}

	byPost := make(map[string]int)
	for _, comment := range comments {
		byPost[comment.PostSlug]++
	}

	recent := make([]models.RecentComment, 0, models.MaxRecentComments)
	for _, comment := range comments {
		if len(recent) == models.MaxRecentComments {
			break
		}
		recent = append(recent, models.RecentComment{
			ID:        comment.ID,
			PostSlug:  comment.PostSlug,
			Author:    comment.Author,
			Preview:   ExtractPreview(comment.Content, models.PreviewLength),
			CreatedAt: comment.CreatedAt,
		})
	}

	meta := models.CommentsMeta{
		TotalComments:  len(comments),
		CommentsByPost: byPost,
		RecentComments: recent,
		Applied:        previous.Applied,
	}
	if err := db.MetaRepo().Save(ctx, meta); err != nil {
		return models.CommentsMeta{}, err
	}
	return meta, nil
}
