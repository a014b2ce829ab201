// Package sqlite is the relational account store, built on GORM and SQLite.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config captures the settings for opening the database.
type Config struct {
	// Path is a file path or a full SQLite DSN (anything starting with "file:").
	Path  string
	Debug bool
}

// Open connects to SQLite and applies the schema.
func Open(cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	dsn := cfg.Path
	if !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite: create data dir: %w", err)
			}
		}
		dsn += "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	}

	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger:                 newGormLogger(log, cfg.Debug),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: get sql.DB: %w", err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables owned by this package.
func Migrate(db *gorm.DB) error {
	for _, model := range []any{&accountModel{}, &accountEventModel{}} {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("sqlite migrate: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
