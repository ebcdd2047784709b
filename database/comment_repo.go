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

// CommentRepo owns the per-post comment collections. Every mutation is a
// whole-collection read-modify-write against a single document key; two
// concurrent writers to the same post race last-write-wins, which is accepted
// at this traffic scale.
type CommentRepo struct {
	store storage.Store
}

func NewCommentRepo(store storage.Store) *CommentRepo {
	return &CommentRepo{store}
}

func (r *CommentRepo) load(ctx context.Context, slug string) ([]models.Comment, error) {
	key := commentsKey(slug)
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, errs.NewStorageReadError(key, err)
	}
	if !found {
		return []models.Comment{}, nil
	}

	var comments []models.Comment
	if err := json.Unmarshal(raw, &comments); err != nil {
		// Corrupt documents degrade to absent rather than failing the request.
		log.Warn().Err(err).Str("key", key).Msg("corrupt comment collection, treating as empty")
		return []models.Comment{}, nil
	}
	return comments, nil
}

func (r *CommentRepo) save(ctx context.Context, slug string, comments []models.Comment) error {
	key := commentsKey(slug)
	raw, err := json.Marshal(comments)
	if err != nil {
		return errs.NewInternalErrorWithCause("encoding comment collection", err)
	}
	if err := r.store.Put(ctx, key, raw); err != nil {
		return errs.NewStorageWriteError(key, err)
	}
	return nil
}

// FindAll returns the post's comments sorted oldest first (reading order).
// Storage order is append order; sorting stays a read-time concern.
func (r *CommentRepo) FindAll(ctx context.Context, slug string) ([]models.Comment, error) {
	comments, err := r.load(ctx, slug)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// FindByID returns the comment with the given id, or nil when absent.
func (r *CommentRepo) FindByID(ctx context.Context, slug, id string) (*models.Comment, error) {
	comments, err := r.load(ctx, slug)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].ID == id {
			return &comments[i], nil
		}
	}
	return nil, nil
}

// HasComment reports whether id exists in the post's collection. Used for
// validating parent references at creation time.
func (r *CommentRepo) HasComment(ctx context.Context, slug, id string) (bool, error) {
	found, err := r.FindByID(ctx, slug, id)
	if err != nil {
		return false, err
	}
	return found != nil, nil
}

// Add appends a comment to the post's collection.
func (r *CommentRepo) Add(ctx context.Context, slug string, comment models.Comment) error {
	comments, err := r.load(ctx, slug)
	if err != nil {
		return err
	}
	return r.save(ctx, slug, append(comments, comment))
}

// Update locates the comment, runs the guard against the stored entry, then
// applies mutate and writes the collection back in one read-modify-write
// cycle. Returns errs.NewNotFound when the id is absent and the guard's error
// unchanged when authorization fails.
func (r *CommentRepo) Update(
	ctx context.Context,
	slug, id string,
	guard func(models.Comment) error,
	mutate func(*models.Comment),
) (*models.Comment, error) {
	comments, err := r.load(ctx, slug)
	if err != nil {
		return nil, err
	}

	for i := range comments {
		if comments[i].ID != id {
			continue
		}
		if guard != nil {
			if err := guard(comments[i]); err != nil {
				return nil, err
			}
		}
		mutate(&comments[i])
		if err := r.save(ctx, slug, comments); err != nil {
			return nil, err
		}
		updated := comments[i]
		return &updated, nil
	}
	return nil, errs.NewNotFound("comment")
}

// Delete removes the comment and promotes its direct children to top level by
// nulling their parentId. Descendants are never cascaded away. Returns the
// removed comment.
func (r *CommentRepo) Delete(ctx context.Context, slug, id string) (*models.Comment, error) {
	comments, err := r.load(ctx, slug)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range comments {
		if comments[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, errs.NewNotFound("comment")
	}

	removed := comments[index]
	comments = append(comments[:index], comments[index+1:]...)
	for i := range comments {
		if comments[i].ParentID != nil && *comments[i].ParentID == id {
			comments[i].ParentID = nil
		}
	}

	if err := r.save(ctx, slug, comments); err != nil {
		return nil, err
	}
	return &removed, nil
}
