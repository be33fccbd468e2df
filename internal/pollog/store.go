package pollog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrDisabled = errors.New("poll log disabled")

const DefaultLimit = 50

// Store keeps poll records in Postgres. It is diagnostics only; nothing
// reads it back into a display.
type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, ErrDisabled
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open poll log: %w", err)
	}
	return NewStore(db)
}

// NewStore wraps an existing connection and migrates the schema.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate poll log: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(ctx context.Context, rec Record) error {
	return s.db.WithContext(ctx).Create(&rec).Error
}

// Recent returns the newest records for a stage, newest first.
func (s *Store) Recent(ctx context.Context, stage string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var out []Record
	err := s.db.WithContext(ctx).
		Where("stage = ?", stage).
		Order("started_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
