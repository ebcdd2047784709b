package database

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/vincitamore/tui-blog-backend/errs"
	"github.com/vincitamore/tui-blog-backend/models"
	"github.com/vincitamore/tui-blog-backend/storage"
)

// BanRepo owns the IP ban list, one document holding every entry.
type BanRepo struct {
	store storage.Store
}

func NewBanRepo(store storage.Store) *BanRepo {
	return &BanRepo{store}
}

func (r *BanRepo) load(ctx context.Context) ([]models.BanEntry, error) {
	raw, found, err := r.store.Get(ctx, bansKey)
	if err != nil {
		return nil, errs.NewStorageReadError(bansKey, err)
	}
	if !found {
		return []models.BanEntry{}, nil
	}

	var bans []models.BanEntry
	if err := json.Unmarshal(raw, &bans); err != nil {
		log.Warn().Err(err).Str("key", bansKey).Msg("corrupt ban list, treating as empty")
		return []models.BanEntry{}, nil
	}
	return bans, nil
}

func (r *BanRepo) save(ctx context.Context, bans []models.BanEntry) error {
	raw, err := json.Marshal(bans)
	if err != nil {
		return errs.NewInternalErrorWithCause("encoding ban list", err)
	}
	if err := r.store.Put(ctx, bansKey, raw); err != nil {
		return errs.NewStorageWriteError(bansKey, err)
	}
	return nil
}

func (r *BanRepo) List(ctx context.Context) ([]models.BanEntry, error) {
	return r.load(ctx)
}

// Contains reports whether ip is banned. Callers decide what a read failure
// means; the moderation service fails open on it.
func (r *BanRepo) Contains(ctx context.Context, ip string) (bool, error) {
	bans, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	for _, ban := range bans {
		if ban.IP == ip {
			return true, nil
		}
	}
	return false, nil
}

// Add appends a ban entry. Banning an already-banned IP is a conflict.
func (r *BanRepo) Add(ctx context.Context, entry models.BanEntry) error {
	bans, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, ban := range bans {
		if ban.IP == entry.IP {
			return errs.NewAlreadyExists("ban")
		}
	}
	return r.save(ctx, append(bans, entry))
}

// Remove lifts the ban on ip. Unbanning an IP that is not banned is not found.
func (r *BanRepo) Remove(ctx context.Context, ip string) error {
	bans, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i, ban := range bans {
		if ban.IP == ip {
			return r.save(ctx, append(bans[:i], bans[i+1:]...))
		}
	}
	return errs.NewNotFound("ban")
}
