package database

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/vincitamore/tui-blog-backend/errs"
	"github.com/vincitamore/tui-blog-backend/models"
	"github.com/vincitamore/tui-blog-backend/storage"
)

// MetaRepo owns the single comments-meta document: denormalized counts and
// the recent-activity feed. The comment collections stay authoritative; this
// document is a cache that the reconciler can rebuild at any time.
type MetaRepo struct {
	store storage.Store
}

func NewMetaRepo(store storage.Store) *MetaRepo {
	return &MetaRepo{store}
}

// Load returns the metadata document, or a zeroed one when the key is absent
// or the stored JSON does not parse.
func (r *MetaRepo) Load(ctx context.Context) (models.CommentsMeta, error) {
	var meta models.CommentsMeta
	raw, found, err := r.store.Get(ctx, metaKey)
	if err != nil {
		return meta, errs.NewStorageReadError(metaKey, err)
	}
	if found {
		if err := json.Unmarshal(raw, &meta); err != nil {
			log.Warn().Err(err).Str("key", metaKey).Msg("corrupt comments meta, starting fresh")
			meta = models.CommentsMeta{}
		}
	}
	meta.Normalize()
	return meta, nil
}

func (r *MetaRepo) Save(ctx context.Context, meta models.CommentsMeta) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return errs.NewInternalErrorWithCause("encoding comments meta", err)
	}
	if err := r.store.Put(ctx, metaKey, raw); err != nil {
		return errs.NewStorageWriteError(metaKey, err)
	}
	return nil
}

// ApplyAdd folds a created comment into the metadata. The applied markers
// make re-delivery a no-op, so a retried caller cannot double-count.
func (r *MetaRepo) ApplyAdd(ctx context.Context, slug string, entry models.RecentComment) error {
	meta, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if !meta.RecordAdd(slug, entry) {
		return nil
	}
	return r.Save(ctx, meta)
}

// ApplyRemove folds a deletion into the metadata.
func (r *MetaRepo) ApplyRemove(ctx context.Context, slug, id string) error {
	meta, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if !meta.RecordRemove(slug, id) {
		return nil
	}
	return r.Save(ctx, meta)
}

// ApplyEdit refreshes the recent-feed preview for an edited comment. Edits
// outside the recent window change nothing.
func (r *MetaRepo) ApplyEdit(ctx context.Context, id, preview string) error {
	meta, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if !meta.RecordEdit(id, preview) {
		return nil
	}
	return r.Save(ctx, meta)
}
