package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kbukum/pageforge/config"
	"github.com/kbukum/pageforge/logger"
)

const openRetries = 3

// Open connects to the SQLite store, retrying transient failures, and
// migrates the runs table.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*SQLiteStore, error) {
	log = log.WithComponent("store")

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= openRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("store open canceled: %w", ctx.Err())
		}

		db, err = gorm.Open(sqlite.Open(cfg.Path), gormCfg)
		if err == nil {
			break
		}

		if attempt < openRetries {
			backoff := time.Duration(attempt) * time.Second
			log.Warn("Store open failed, retrying", map[string]interface{}{
				logger.FieldAttempt: attempt,
				logger.FieldError:   err.Error(),
				"backoff":           backoff.String(),
			})
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("store open canceled: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open store after %d attempts: %w", openRetries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("store: underlying sql.DB: %w", err)
	}
	maxConns := cfg.MaxOpenConns
	if maxConns <= 0 {
		maxConns = 1
	}
	sqlDB.SetMaxOpenConns(maxConns)

	if err := db.WithContext(ctx).AutoMigrate(&runRow{}); err != nil {
		return nil, fmt.Errorf("store: migrate runs table: %w", err)
	}

	log.Info("Run store ready", map[string]interface{}{"path": cfg.Path})
	return &SQLiteStore{db: db, log: log}, nil
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
