package database

import (
	"fmt"
	"time"

	"reviflow/internal/config"
	"reviflow/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // pure Go Oracle driver, registered as "oracle"
	"go.uber.org/zap"
)

func init() {
	// sqlx only knows the bind style of the OCI driver names; go-ora uses the
	// same :name placeholders.
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// NewSQLXDB opens and pings the configured Oracle database.
func NewSQLXDB(cfg config.DBConfig, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	logger.Get().Info("Connected to database",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("service", cfg.DBName))
	return db, nil
}
