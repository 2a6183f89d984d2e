package clients

import (
	"context"
	"database/sql"
	"fmt"
	"pomodoro-api-svc/src/internal/config"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverMongoDB  = "mongodb"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pomodoro_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		task_name TEXT NOT NULL DEFAULT '',
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		duration INTEGER NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_end ON pomodoro_sessions(user_id, end_time)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pomodoro_sessions (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		task_name TEXT NOT NULL DEFAULT '',
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ,
		duration INTEGER NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_end ON pomodoro_sessions(user_id, end_time)`,
}

// SQLDB wraps a database/sql handle for the sqlite and postgres drivers.
type SQLDB struct {
	DB     *sql.DB
	Driver string
}

func NewSQLDB(cfg *config.Database) (*SQLDB, error) {
	driverName, err := sqlDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	log.WithField("driver", cfg.Driver).Info("Opening SQL database...")
	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		log.WithError(err).Error("Failed to open SQL database")
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// an in-memory database only lives as long as its single connection
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Timeout)*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.WithError(err).Error("Failed to ping SQL database")
		db.Close()
		return nil, err
	}

	sqlDB := &SQLDB{DB: db, Driver: cfg.Driver}
	if err := sqlDB.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Infof("Connected to %s database", cfg.Driver)
	return sqlDB, nil
}

func sqlDriverName(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3", nil
	case DriverPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// Migrate creates the tables and indexes when they do not exist.
func (s *SQLDB) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.Driver == DriverPostgres {
		schema = postgresSchema
	}

	for _, stmt := range schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			log.WithError(err).Error("Failed to apply schema")
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Rebind converts '?' placeholders into the driver's bind syntax.
func (s *SQLDB) Rebind(query string) string {
	if s.Driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLDB) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLDB) Close() error {
	if err := s.DB.Close(); err != nil {
		log.WithError(err).Error("Failed to close SQL database")
		return err
	}
	log.Info("SQL database closed")
	return nil
}
