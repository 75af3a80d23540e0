// Package store is the durable home of interaction artifacts. Every record a
// turn produces is keyed by its interaction id; writes are idempotent
// upserts so re-delivery of the same artifact is harmless.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the gorm handle and exposes the repository methods.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path and runs auto-migration.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Interaction{},
		&TeacherRecord{},
		&StudentRecord{},
		&EvaluatorRecord{},
		&ScorerRecord{},
		&LLMCall{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DefaultDBPath resolves the database file location in priority order:
// TEACHBACK_DB, $XDG_DATA_HOME/teachback/teachback.db,
// ~/.local/share/teachback/teachback.db.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("TEACHBACK_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "teachback", "teachback.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if missing.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
