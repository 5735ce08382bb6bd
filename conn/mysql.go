// Package conn opens the process-wide store connection.
package conn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"signup-backend/config"
)

// ErrConnectionFailed wraps every failure to reach the store at startup.
var ErrConnectionFailed = errors.New("store connection failed")

// Open connects to the store named by cfg.DBDriver and verifies it with a ping.
// The caller owns the returned handle and must Close it on shutdown.
func Open(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		return NewMySQL(ctx, cfg)
	case "sqlite3":
		return NewSQLite(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrConnectionFailed, cfg.DBDriver)
	}
}

// NewMySQL opens a MySQL connection, creating the database first if needed.
func NewMySQL(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	mc, err := mysqlConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	// Ensure database exists by connecting without DB and creating it if needed
	name := mc.DBName
	admin := mc.Clone()
	admin.DBName = ""
	adminDB, err := sqlx.Open("mysql", admin.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	if err := adminDB.PingContext(ctx); err != nil {
		adminDB.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	if _, err := adminDB.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS `"+name+"` DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"); err != nil {
		adminDB.Close()
		return nil, fmt.Errorf("%w: create database: %v", ErrConnectionFailed, err)
	}
	adminDB.Close()

	db, err := sqlx.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// mysqlConfig builds the driver config from DATABASE_URL or, when that is
// empty, from the DB_* parts.
func mysqlConfig(cfg *config.Config) (*mysql.Config, error) {
	var mc *mysql.Config
	if cfg.DatabaseURL != "" {
		parsed, err := mysql.ParseDSN(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		mc = parsed
	} else {
		mc = mysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPassword
		mc.Net = "tcp"
		mc.Addr = cfg.DBHost + ":" + cfg.DBPort
		mc.DBName = cfg.DBName
	}
	if mc.DBName == "" {
		return nil, errors.New("database name is empty")
	}
	mc.ParseTime = true
	// Strict mode makes the server reject values outside the column's ENUM
	// instead of truncating them.
	if mc.Params == nil {
		mc.Params = map[string]string{}
	}
	mc.Params["sql_mode"] = "'STRICT_ALL_TABLES'"
	return mc, nil
}

// NewSQLite opens a SQLite database. An in-memory DSN is pinned to a single
// connection so every query sees the same database.
func NewSQLite(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	if isMemory(dsn) {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return db, nil
}

func isMemory(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:")
}
