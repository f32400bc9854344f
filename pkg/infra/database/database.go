package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const bootstrapTimeout = 30 * time.Second

// DB wraps the gorm handle shared by the repositories.
type DB struct {
	logger *logrus.Logger
	*gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c *Config) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// NewDB opens the connection pool, verifies connectivity, and brings the
// schema up to date before anyone gets a handle.
func NewDB(logger *logrus.Logger, cfg *Config) (*DB, error) {
	logger.WithFields(logrus.Fields{
		"host":    cfg.Host,
		"port":    cfg.Port,
		"db":      cfg.DBName,
		"sslmode": cfg.SSLMode,
	}).Info("connecting to database")

	gormDB, err := gorm.Open(postgres.Open(cfg.dsn()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql pool: %w", err)
	}

	// Batch reconciliation plus a small admin API; a modest pool is enough.
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := applyMigrations(logger, gormDB); err != nil {
		return nil, err
	}

	return &DB{logger: logger, DB: gormDB}, nil
}

// applyMigrations runs pending schema steps and gives up after the
// bootstrap timeout; ApplyPending itself has no context hook.
func applyMigrations(logger *logrus.Logger, gormDB *gorm.DB) error {
	logger.Info("applying database migrations")

	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- NewMigrationsManager(gormDB).ApplyPending()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		logger.Info("database schema is up to date")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("database migrations timed out after %s", bootstrapTimeout)
	}
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
