// Package db opens the shared GORM connection (Postgres in deployed
// environments, sqlite for local runs and tests) and maps driver errors.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/phonedex-backend/pkg/config"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

const slowQueryThreshold = 250 * time.Millisecond

// Client wraps the shared GORM connection.
type Client struct {
	conn *gorm.DB
}

// TxRunner is the transaction surface services depend on.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// New opens the configured driver, applies pool limits and pings once.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database DSN is required")
	}
	conn, err := gorm.Open(dialectorFor(cfg), gormConfig(logg))
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", cfg.Driver, err)
	}
	client := &Client{conn: conn}

	sqlDB, err := client.sqlDB()
	if err != nil {
		return nil, err
	}
	configurePool(sqlDB, cfg)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "driver", cfg.Driver), "database connection established")
	}
	return client, nil
}

// NewFromGorm wraps an already opened connection.
func NewFromGorm(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

func dialectorFor(cfg config.DBConfig) gorm.Dialector {
	if cfg.UsesSQLite() {
		return sqlite.Open(cfg.DSN)
	}
	// simple protocol keeps pgbouncer in transaction mode happy
	return postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true})
}

func gormConfig(logg *logger.Logger) *gorm.Config {
	queryLog := gormlogger.Discard
	if logg != nil {
		queryLog = gormlogger.New(slowQueryWriter{logg: logg}, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}
	return &gorm.Config{
		Logger:                 queryLog,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
}

// slowQueryWriter routes gorm's warnings (slow queries) into the service log.
type slowQueryWriter struct {
	logg *logger.Logger
}

func (w slowQueryWriter) Printf(format string, args ...any) {
	w.logg.Warn(context.Background(), fmt.Sprintf(format, args...))
}

func configurePool(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

func (c *Client) DB() *gorm.DB {
	return c.conn
}

func (c *Client) sqlDB() (*sql.DB, error) {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	return sqlDB, nil
}

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.sqlDB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.sqlDB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn in a transaction bound to ctx. A returned error or a panic
// rolls back; nested calls on tx use savepoints.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}
