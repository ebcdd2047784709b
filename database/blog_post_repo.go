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

// BlogPostRepo owns the blog post collection, one document keyed by slug.
type BlogPostRepo struct {
	store storage.Store
}

func NewBlogPostRepo(store storage.Store) *BlogPostRepo {
	return &BlogPostRepo{store}
}

func (r *BlogPostRepo) load(ctx context.Context) ([]models.BlogPost, error) {
	raw, found, err := r.store.Get(ctx, blogPostsKey)
	if err != nil {
		return nil, errs.NewStorageReadError(blogPostsKey, err)
	}
	if !found {
		return []models.BlogPost{}, nil
	}

	var posts []models.BlogPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		log.Warn().Err(err).Str("key", blogPostsKey).Msg("corrupt blog post collection, treating as empty")
		return []models.BlogPost{}, nil
	}
	return posts, nil
}

func (r *BlogPostRepo) save(ctx context.Context, posts []models.BlogPost) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return errs.NewInternalErrorWithCause("encoding blog post collection", err)
	}
	if err := r.store.Put(ctx, blogPostsKey, raw); err != nil {
		return errs.NewStorageWriteError(blogPostsKey, err)
	}
	return nil
}

// FindAll returns every post, newest first.
func (r *BlogPostRepo) FindAll(ctx context.Context) ([]models.BlogPost, error) {
	posts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].DateAdded.After(posts[j].DateAdded)
	})
	return posts, nil
}

func (r *BlogPostRepo) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	posts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			return &posts[i], nil
		}
	}
	return nil, errs.NewNotFound("blog post")
}

func (r *BlogPostRepo) Add(ctx context.Context, post models.BlogPost) error {
	posts, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range posts {
		if posts[i].Slug == post.Slug {
			return errs.NewAlreadyExists("blog post")
		}
	}
	return r.save(ctx, append(posts, post))
}

func (r *BlogPostRepo) Update(ctx context.Context, post models.BlogPost) error {
	posts, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range posts {
		if posts[i].Slug == post.Slug {
			posts[i] = post
			return r.save(ctx, posts)
		}
	}
	return errs.NewNotFound("blog post")
}

func (r *BlogPostRepo) Delete(ctx context.Context, slug string) error {
	posts, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			return r.save(ctx, append(posts[:i], posts[i+1:]...))
		}
	}
	return errs.NewNotFound("blog post")
}
