package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/baglist-backend/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects to PostgreSQL. Constraint failures are translated into gorm's portable
// errors (ErrDuplicatedKey, ErrForeignKeyViolated) so callers never parse driver messages.
// When a replica DSN is configured, reads outside transactions are routed to it.
func Open(settings config.Settings) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  parseLogLevel(settings.DatabaseLogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  settings.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if settings.DatabaseReplicaDSN != "" {
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  settings.DatabaseReplicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		})
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
	}

	return db, nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
