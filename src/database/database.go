package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxOpenConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultHealthTimeout   = 2 * time.Second
)

// DB represents the database connection
type DB struct {
	*sql.DB
	logger        *logrus.Logger
	healthTimeout time.Duration
}

// Config represents database configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// 0 のときは既定値を使う
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// DSN returns the lib/pq connection string for the config
func (c *Config) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	if secs := int(c.ConnectTimeout.Seconds()); secs > 0 {
		dsn += fmt.Sprintf(" connect_timeout=%d", secs)
	}
	return dsn
}

// poolSettings fills in defaults. Writes are serialized under the store lock,
// so the pool stays small.
func (c *Config) poolSettings() (maxOpen, maxIdle int, lifetime time.Duration) {
	maxOpen = c.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle = c.MaxIdleConns
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	lifetime = c.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = defaultConnMaxLifetime
	}
	return maxOpen, maxIdle, lifetime
}

// NewDB opens the pool and pings the server, giving up after ConnectTimeout
func NewDB(ctx context.Context, config *Config, logger *logrus.Logger) (*DB, error) {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen, maxIdle, lifetime := config.poolSettings()
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	pingCtx := ctx
	if config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}

	// 接続をテスト
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s:%d: %w", config.Host, config.Port, err)
	}

	logger.WithFields(logrus.Fields{
		"host":           config.Host,
		"dbname":         config.DBName,
		"max_open_conns": maxOpen,
	}).Info("データベースに接続しました")

	healthTimeout := config.ConnectTimeout
	if healthTimeout <= 0 {
		healthTimeout = defaultHealthTimeout
	}

	return &DB{
		DB:            db,
		logger:        logger,
		healthTimeout: healthTimeout,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	stats := db.Stats()
	db.logger.WithFields(logrus.Fields{
		"open_connections": stats.OpenConnections,
		"wait_count":       stats.WaitCount,
	}).Info("データベース接続を閉じています")
	return db.DB.Close()
}

// Health pings the server within the connect timeout
func (db *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), db.healthTimeout)
	defer cancel()

	return db.PingContext(ctx)
}
