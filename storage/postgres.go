package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// document is the single-table layout behind PostgresStore: one row per key,
// the whole JSON document in a jsonb column.
type document struct {
	Key       string         `gorm:"primaryKey;size:512"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (document) TableName() string {
	return "documents"
}

// PostgresStore persists documents in a Postgres table. The per-row upsert
// gives the atomic single-key write the Store contract requires.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: connecting to postgres: %w", err)
	}

	// Connectivity check before the server starts taking requests.
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("storage: postgres connectivity check: %w", err)
	}

	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("storage: migrating documents table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc document
	err := s.db.WithContext(ctx).First(&doc, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: reading %q: %w", key, err)
	}
	return []byte(doc.Value), true, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	doc := document{Key: key, Value: datatypes.JSON(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("storage: writing %q: %w", key, err)
	}
	return nil
}
