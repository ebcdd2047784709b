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

// CredentialRepo owns the admin credentials document: the bcrypt password
// hash and the login timestamps the dashboard's "new since last visit"
// counter is derived from.
type CredentialRepo struct {
	store storage.Store
}

func NewCredentialRepo(store storage.Store) *CredentialRepo {
	return &CredentialRepo{store}
}

// Load returns the stored credentials, or nil when none have been saved yet.
// First boot seeds them from the configured admin password.
func (r *CredentialRepo) Load(ctx context.Context) (*models.AdminCredentials, error) {
	raw, found, err := r.store.Get(ctx, credentialsKey)
	if err != nil {
		return nil, errs.NewStorageReadError(credentialsKey, err)
	}
	if !found {
		return nil, nil
	}

	var creds models.AdminCredentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		log.Warn().Err(err).Str("key", credentialsKey).Msg("corrupt credentials, treating as unset")
		return nil, nil
	}
	return &creds, nil
}

func (r *CredentialRepo) Save(ctx context.Context, creds models.AdminCredentials) error {
	raw, err := json.Marshal(creds)
	if err != nil {
		return errs.NewInternalErrorWithCause("encoding credentials", err)
	}
	if err := r.store.Put(ctx, credentialsKey, raw); err != nil {
		return errs.NewStorageWriteError(credentialsKey, err)
	}
	return nil
}

// RecordLogin rotates the login timestamps: the previous last-login becomes
// previousLoginAt and now becomes lastLoginAt. The dashboard counts comments
// newer than previousLoginAt, so the value survives exactly one login.
func (r *CredentialRepo) RecordLogin(ctx context.Context, now time.Time) error {
	creds, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if creds == nil {
		return errs.NewNotFound("credentials")
	}
	creds.PreviousLoginAt = creds.LastLoginAt
	loginAt := now
	creds.LastLoginAt = &loginAt
	return r.Save(ctx, *creds)
}

// SetPasswordHash replaces the stored hash. Existing sessions stay valid; a
// password change is not a revocation.
func (r *CredentialRepo) SetPasswordHash(ctx context.Context, hash string, now time.Time) error {
	creds, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if creds == nil {
		creds = &models.AdminCredentials{}
	}
	creds.PasswordHash = hash
	updatedAt := now
	creds.UpdatedAt = &updatedAt
	return r.Save(ctx, *creds)
}
