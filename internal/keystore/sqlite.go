package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// kvEntry is the key-value row backing the sqlite keystore.
type kvEntry struct {
	Key   string `gorm:"primarykey;size:64"`
	Value []byte `gorm:"not null"`
}

func (kvEntry) TableName() string {
	return "keystore"
}

// Sqlite stores the session in a small on-device database.
type Sqlite struct {
	db *gorm.DB
}

// NewSqlite opens (and migrates) the keystore database under dataDir.
func NewSqlite(dataDir string) (*Sqlite, error) {
	path := filepath.Join(dataDir, "keystore.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open keystore database: %w", err)
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate keystore database: %w", err)
	}
	return &Sqlite{db: db}, nil
}

func (s *Sqlite) SaveSession(ctx context.Context, session *models.Session) error {
	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	entry := kvEntry{Key: sessionKey, Value: value}
	return s.db.WithContext(ctx).Save(&entry).Error
}

func (s *Sqlite) LoadSession(ctx context.Context) (*models.Session, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", sessionKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session models.Session
	if err := json.Unmarshal(entry.Value, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *Sqlite) ClearSession(ctx context.Context) error {
	return s.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", sessionKey).Error
}
