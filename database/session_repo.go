package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vincitamore/tui-blog-backend/errs"
	"github.com/vincitamore/tui-blog-backend/models"
	"github.com/vincitamore/tui-blog-backend/storage"
)

// SessionRepo owns the admin session document. Tokens are opaque strings;
// expiry is judged against CreatedAt at read time, so a stale document never
// grants access even if the sweeper has not run.
type SessionRepo struct {
	store storage.Store
}

func NewSessionRepo(store storage.Store) *SessionRepo {
	return &SessionRepo{store}
}

func (r *SessionRepo) load(ctx context.Context) ([]models.AdminSession, error) {
	raw, found, err := r.store.Get(ctx, sessionsKey)
	if err != nil {
		return nil, errs.NewStorageReadError(sessionsKey, err)
	}
	if !found {
		return []models.AdminSession{}, nil
	}

	var sessions []models.AdminSession
	if err := json.Unmarshal(raw, &sessions); err != nil {
		log.Warn().Err(err).Str("key", sessionsKey).Msg("corrupt session list, treating as empty")
		return []models.AdminSession{}, nil
	}
	return sessions, nil
}

func (r *SessionRepo) save(ctx context.Context, sessions []models.AdminSession) error {
	raw, err := json.Marshal(sessions)
	if err != nil {
		return errs.NewInternalErrorWithCause("encoding session list", err)
	}
	if err := r.store.Put(ctx, sessionsKey, raw); err != nil {
		return errs.NewStorageWriteError(sessionsKey, err)
	}
	return nil
}

func (r *SessionRepo) Add(ctx context.Context, session models.AdminSession) error {
	sessions, err := r.load(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, append(sessions, session))
}

// Find returns the session for token, or nil when no such session exists.
// Expiry is the caller's concern.
func (r *SessionRepo) Find(ctx context.Context, token string) (*models.AdminSession, error) {
	sessions, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Token == token {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// Remove deletes the session for token. Removing an unknown token is a no-op;
// logout must not fail because the sweeper got there first.
func (r *SessionRepo) Remove(ctx context.Context, token string) error {
	sessions, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].Token == token {
			return r.save(ctx, append(sessions[:i], sessions[i+1:]...))
		}
	}
	return nil
}

// Sweep drops every session older than ttl and returns how many were removed.
func (r *SessionRepo) Sweep(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	sessions, err := r.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := sessions[:0]
	for _, session := range sessions {
		if !session.Expired(now, ttl) {
			kept = append(kept, session)
		}
	}

	removed := len(sessions) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := r.save(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}
