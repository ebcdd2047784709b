// Package storage provides the key-to-JSON-document store backing every
// persistent collection in the backend. Implementations guarantee atomic
// single-key writes and nothing more: there is no cross-key transaction and
// no compare-and-swap, so all callers do whole-document read-modify-write.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/vincitamore/tui-blog-backend/config"
)

// Store is the minimal blob-store contract consumed by the repositories.
type Store interface {
	// Get returns the document stored at key. found is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Put atomically replaces the document at key.
	Put(ctx context.Context, key string, value []byte) error
}

// Driver names accepted by New.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// New selects a storage backend from configuration.
func New(ctx context.Context, cfg map[string]string) (Store, error) {
	driver := strings.ToLower(config.GetString(cfg, config.KeyStorageDriver, DriverMemory))

	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverPostgres:
		dsn := config.GetString(cfg, config.KeyPostgresDSN, "")
		if dsn == "" {
			return nil, fmt.Errorf("storage: %s is required for the postgres driver", config.KeyPostgresDSN)
		}
		return NewPostgresStore(dsn)
	case DriverS3:
		bucket := config.GetString(cfg, config.KeyS3Bucket, "")
		if bucket == "" {
			return nil, fmt.Errorf("storage: %s is required for the s3 driver", config.KeyS3Bucket)
		}
		return NewS3Store(ctx, S3Config{
			Bucket: bucket,
			Prefix: config.GetString(cfg, config.KeyS3Prefix, "documents"),
			Region: config.GetString(cfg, config.KeyS3Region, ""),
		})
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", driver)
	}
}
