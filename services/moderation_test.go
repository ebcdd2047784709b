package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vincitamore/tui-blog-backend/database"
	"github.com/vincitamore/tui-blog-backend/models"
	"github.com/vincitamore/tui-blog-backend/storage"
)

// downStore fails every read so ban lookups hit the storage-outage path.
type downStore struct{}

func (downStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("store is down")
}

func (downStore) Put(ctx context.Context, key string, value []byte) error {
	return errors.New("store is down")
}

func TestClientAllowedCleanIP(t *testing.T) {
	bans := database.NewBanRepo(storage.NewMemoryStore())

	if !ClientAllowed(context.Background(), bans, "203.0.113.1") {
		t.Error("Expected unlisted IP to be allowed")
	}
}

func TestClientAllowedBannedIP(t *testing.T) {
	store := storage.NewMemoryStore()
	bans := database.NewBanRepo(store)
	ctx := context.Background()

	bans.Add(ctx, models.BanEntry{
		IP:       "203.0.113.1",
		Reason:   "spam",
		BannedAt: time.Now().UTC(),
		BannedBy: models.BanIssuer,
	})

	if ClientAllowed(ctx, bans, "203.0.113.1") {
		t.Error("Expected banned IP to be rejected")
	}
}

func TestClientAllowedFailsOpenOnStorageError(t *testing.T) {
	bans := database.NewBanRepo(downStore{})

	if !ClientAllowed(context.Background(), bans, "203.0.113.1") {
		t.Error("Expected unreadable ban list to fail open")
	}
}
