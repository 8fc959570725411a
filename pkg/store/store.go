// Package store is the persistence layer: an embedded SQLite database in
// WAL mode, reached through GORM, holding every persisted entity.
package store

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// Store wraps the GORM handle and exposes one repository accessor per
// entity family, one file per concern.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// Open connects to the SQLite file at path, enables WAL journaling and a
// small connection pool, runs migrations and returns a ready Store.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	logger.WithField("path", path).Debug("opening store")

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=5000", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: NewGormLogrusLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("store: underlying sql.DB: %w", err)
	}
	// SQLite under WAL tolerates few concurrent writers; a small pool
	// avoids "database is locked" churn under the runtime's 8 loops.
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := RunMigrations(path, logger); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	if err := db.AutoMigrate(
		&models.DiscoveredTweet{},
		&models.ReplySent{},
		&models.OriginalTweet{},
		&models.Thread{},
		&models.ThreadTweet{},
		&models.ApprovalItem{},
		&models.RateLimit{},
		&models.Cursor{},
		&models.ActionLog{},
		&models.MutationAudit{},
		&models.AuthorInteraction{},
		&models.FollowerSnapshot{},
		&models.Performance{},
	); err != nil {
		return nil, fmt.Errorf("store: automigrate: %w", err)
	}

	logger.Info("store ready")
	return &Store{db: db, logger: logger}, nil
}

// DB exposes the raw handle for repository files in this package; not
// intended for use outside pkg/store.
func (s *Store) DB() *gorm.DB { return s.db }

// Close releases the underlying sql.DB connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
