package sqldb

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

func init() {
	// sqlx does not know the modernc driver name; it binds with ? like sqlite3.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Dialect holds what differs between backends.
type Dialect interface {
	DriverName() string
	ListTablesQuery() string
	// AutoKey is the column prepended by TableData.AutoKey.
	AutoKey() Field
}

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string { return DriverSQLite }

func (sqliteDialect) ListTablesQuery() string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
}

func (sqliteDialect) AutoKey() Field {
	return Field{Title: "id", Type: "INTEGER", Constraint: "PRIMARY KEY AUTOINCREMENT"}
}

type mysqlDialect struct{}

func (mysqlDialect) DriverName() string { return DriverMySQL }

func (mysqlDialect) ListTablesQuery() string { return `SHOW TABLES` }

func (mysqlDialect) AutoKey() Field {
	return Field{Title: "id", Type: "INT(12)", Constraint: "NOT NULL PRIMARY KEY AUTO_INCREMENT"}
}

// NewSQLite opens the database file at path, creating it when absent.
func NewSQLite(path string, opts ...Option) (*Sqldb, error) {
	return open(sqliteDialect{}, sqliteDSN(path), opts...)
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// MySQLConfig holds the network parameters of a MySQL server.
type MySQLConfig struct {
	// Host is host or host:port. The port defaults to 3306.
	Host     string
	User     string
	Password string
	Database string
	// CreateDatabase issues CREATE DATABASE IF NOT EXISTS before connecting.
	CreateDatabase bool
}

// DSN renders the go-sql-driver DSN. An empty database yields a
// server-level connection.
func (c MySQLConfig) DSN(database string) string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = mysqlAddr(c.Host)
	cfg.DBName = database
	return cfg.FormatDSN()
}

func mysqlAddr(host string) string {
	if host == "" {
		host = "127.0.0.1"
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, "3306")
}

// NewMySQL connects to the database described by cfg.
func NewMySQL(cfg MySQLConfig, opts ...Option) (*Sqldb, error) {
	if cfg.CreateDatabase && cfg.Database != "" {
		if err := createDatabase(cfg, opts...); err != nil {
			return nil, err
		}
	}
	return open(mysqlDialect{}, cfg.DSN(cfg.Database), opts...)
}

func createDatabase(cfg MySQLConfig, opts ...Option) error {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	db, err := sqlx.Connect(DriverMySQL, cfg.DSN(""))
	if err != nil {
		return fmt.Errorf("connect mysql server: %w", err)
	}
	defer db.Close()

	sql := `CREATE DATABASE IF NOT EXISTS ` + cfg.Database
	options.logger.Debug("create database", zap.String("sql", sql))
	if _, err := db.ExecContext(context.Background(), sql); err != nil {
		return fmt.Errorf("create database %s: %w", cfg.Database, err)
	}
	return nil
}
