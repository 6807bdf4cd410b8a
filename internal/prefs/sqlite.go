package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Preference is one stored key/value pair.
type Preference struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// SQLiteStore keeps preferences in a local SQLite file.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating when needed) the preferences database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database: %w", err)
	}

	if err = db.AutoMigrate(&Preference{}); err != nil {
		return nil, fmt.Errorf("failed to migrate preferences table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var pref Preference

	err := s.db.WithContext(ctx).Where(&Preference{Key: key}).Take(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read preference %q: %w", key, err)
	}

	return pref.Value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	pref := Preference{Key: key, Value: value, UpdatedAt: time.Now()}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("failed to write preference %q: %w", key, err)
	}

	return nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}

	return sqlDB.Close()
}
