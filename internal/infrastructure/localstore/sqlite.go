// Package localstore implements the device-scoped cart cache on an embedded
// SQLite database. It is the synchronous write-through side of the cart's
// persistence: one logical key holding the serialized item list.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/storefront/backend/internal/client"
	"github.com/storefront/backend/internal/domain/cart"
)

const cartKey = "cart"

// record is a single key-value row
type record struct {
	Key       string `gorm:"primaryKey;type:varchar(64)"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (record) TableName() string {
	return "cart_cache"
}

// SQLiteStore persists the cart item list in a local SQLite file. It is
// owned by the single active cart store per device; concurrent browser-tab
// style access from separate processes may race on the file and is not
// coordinated here.
type SQLiteStore struct {
	db *gorm.DB
}

// Open creates or opens the cache file at the given path
func Open(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local cart cache: %w", err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local cart cache: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Read returns the cached item list. A missing entry yields an empty list,
// not an error.
func (s *SQLiteStore) Read() ([]cart.LineItem, error) {
	var row record
	if err := s.db.First(&row, "key = ?", cartKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []cart.LineItem{}, nil
		}
		return nil, fmt.Errorf("failed to read local cart cache: %w", err)
	}

	var items []cart.LineItem
	if err := json.Unmarshal(row.Payload, &items); err != nil {
		return nil, fmt.Errorf("corrupt local cart cache: %w", err)
	}
	return items, nil
}

// Write replaces the cached item list
func (s *SQLiteStore) Write(items []cart.LineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize cart items: %w", err)
	}

	row := record{Key: cartKey, Payload: payload, UpdatedAt: time.Now()}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write local cart cache: %w", err)
	}
	return nil
}

// Delete removes the cached cart
func (s *SQLiteStore) Delete() error {
	if err := s.db.Delete(&record{}, "key = ?", cartKey).Error; err != nil {
		return fmt.Errorf("failed to delete local cart cache: %w", err)
	}
	return nil
}

// Close closes the underlying database handle
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ client.LocalCart = (*SQLiteStore)(nil)
