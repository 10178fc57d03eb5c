package db

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/EmpoweredVote/demo-seeder/internal/config"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database described by cfg. The caller owns the
// returned handle and should release it with Close.
func Open(cfg config.Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, config.ErrMissingDatabaseURL
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	// Slow queries and errors go through zap; full SQL only at debug level.
	level := logger.Warn
	if log.Level() == zapcore.DebugLevel {
		level = logger.Info
	}
	lg := logger.New(
		zap.NewStdLog(log.Desugar()),
		logger.Config{
			SlowThreshold:             100 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         lg,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// Every sqlite connection is its own database when in memory.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if cfg.DBSchema != "" && cfg.Driver != config.DriverSQLite {
		if err := EnsureSchema(db, cfg.DBSchema); err != nil {
			return nil, fmt.Errorf("failed to create schema %s: %w", cfg.DBSchema, err)
		}
	}

	log.Infow("connected to database", "driver", cfg.Driver)
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPgx, "":
		return postgres.New(postgres.Config{
			DSN: withSearchPath(cfg.DatabaseURL, cfg.DBSchema),
		}), nil
	case config.DriverPQ:
		return postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        withSearchPath(cfg.DatabaseURL, cfg.DBSchema),
		}), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DatabaseURL), nil
	}
	return nil, config.ErrUnknownDriver
}

// withSearchPath points unqualified table names at schema. Both pgx and
// lib/pq forward unknown DSN keys as runtime parameters.
func withSearchPath(dsn, schema string) string {
	if schema == "" {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return strings.TrimSpace(dsn) + " search_path=" + schema
}
