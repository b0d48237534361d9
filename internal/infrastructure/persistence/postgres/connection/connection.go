package connection

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/config"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is the shared gorm handle. It remembers its DSN so a dropped
// connection can be re-established.
type Database struct {
	*gorm.DB
	dsn string
}

func buildDSN(cfg *config.DatabaseConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode)
}

func configurePool(db *gorm.DB, maxIdle, maxOpen int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return sqlDB.Ping()
}

// NewDatabase opens the database, surfacing pq error details when the
// initial probe fails.
func NewDatabase(cfg *config.Config) (*Database, error) {
	dsn := buildDSN(&cfg.Database)

	// Probe with plain database/sql first for a clearer error than gorm
	// produces on bad credentials or an unreachable host.
	probe, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create sql.DB: %w", err)
	}
	defer probe.Close()
	if err := probe.Ping(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("postgres error: code=%s, message=%s, detail=%s",
				pqErr.Code, pqErr.Message, pqErr.Detail)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Info),
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database with GORM: %w", err)
	}

	maxIdle, maxOpen := 10, 100
	if cfg.Database.MaxIdleConns > 0 {
		maxIdle = cfg.Database.MaxIdleConns
	}
	if cfg.Database.MaxOpenConns > 0 {
		maxOpen = cfg.Database.MaxOpenConns
	}
	if err := configurePool(db, maxIdle, maxOpen); err != nil {
		return nil, err
	}

	return &Database{DB: db, dsn: dsn}, nil
}

// Reconnect replaces the gorm handle after a lost connection.
func (db *Database) Reconnect() error {
	fresh, err := gorm.Open(postgres.Open(db.dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("failed to reconnect to database: %w", err)
	}
	if err := configurePool(fresh, 10, 100); err != nil {
		return err
	}
	db.DB = fresh
	return nil
}
