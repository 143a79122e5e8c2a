// Package postgres manages the PostgreSQL connection pool and schema
// migrations for the complaint store.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

// sqlOpen is a variable to allow mocking in tests.
var sqlOpen = func(driverName, dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// Connection manages the database/sql connection used for migrations and
// health checks.  Repositories run on the pgx pool (see pool.go).
type Connection struct {
	db     *sql.DB
	cfg    config.DatabaseConfig
	logger logging.Logger
	once   sync.Once
}

// NewConnection opens and verifies a connection to PostgreSQL.
func NewConnection(cfg config.DatabaseConfig, logger logging.Logger) (*Connection, error) {
	db, err := sqlOpen("postgres", BuildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to open database connection")
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	} else {
		db.SetMaxOpenConns(25)
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(cfg.MinConns)
	} else {
		db.SetMaxIdleConns(5)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	} else {
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "database connection failed")
	}

	logger.Info("connected to PostgreSQL",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
	)

	return &Connection{db: db, cfg: cfg, logger: logger}, nil
}

// DB returns the underlying sql.DB.
func (c *Connection) DB() *sql.DB {
	return c.db
}

// HealthCheck verifies the connection and warns on pool saturation.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "database health check failed")
	}
	stats := c.db.Stats()
	if stats.OpenConnections > 0 {
		usage := float64(stats.InUse) / float64(stats.OpenConnections)
		if usage > 0.8 {
			c.logger.Warn("high database connection pool usage",
				logging.Int("in_use", stats.InUse),
				logging.Int("open", stats.OpenConnections),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Close closes the connection once.
func (c *Connection) Close() error {
	var err error
	c.once.Do(func() {
		err = c.db.Close()
		if err != nil {
			c.logger.Error("failed to close database connection", logging.Err(err))
		}
	})
	return err
}

// RunMigrations applies all pending migrations from migrationsDir.
func (c *Connection) RunMigrations(migrationsDir string) error {
	driver, err := migratepg.WithInstance(c.db, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create migrate instance")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		version, _, _ := m.Version()
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to run migrations (current version: %d)", version)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		c.logger.Warn("failed to read migration version", logging.Err(err))
	}
	c.logger.Info("database migrations completed",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// BuildDSN constructs the PostgreSQL connection string.
func BuildDSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	} else {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
