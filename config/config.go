// Package config loads easysql settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	burnt "github.com/BurntSushi/toml"
	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
	"go.uber.org/zap"

	"github.com/wenzapen/easysql/sqldb"
)

type Config struct {
	LogLevel string         `json:"logLevel" toml:"logLevel"`
	LogFile  string         `json:"logFile" toml:"logFile"`
	Database DatabaseConfig `json:"Database" toml:"Database"`
	Storage  StorageConfig  `json:"Storage" toml:"Storage"`
}

// DatabaseConfig selects a backend. DSN, when set, wins over the other
// fields. Path is used by sqlite; Host, User, Password and Name by mysql.
type DatabaseConfig struct {
	Driver         string `json:"Driver" toml:"Driver"`
	DSN            string `json:"DSN" toml:"DSN"`
	Path           string `json:"Path" toml:"Path"`
	Host           string `json:"Host" toml:"Host"`
	User           string `json:"User" toml:"User"`
	Password       string `json:"Password" toml:"Password"`
	Name           string `json:"Name" toml:"Name"`
	CreateDatabase bool   `json:"CreateDatabase" toml:"CreateDatabase"`
}

type StorageConfig struct {
	BatchCount int `json:"BatchCount" toml:"BatchCount"`
}

func Default() Config {
	return Config{
		LogLevel: "INFO",
		Database: DatabaseConfig{
			Driver: sqldb.DriverSQLite,
			Path:   "easysql.db",
			Host:   "127.0.0.1:3306",
		},
		Storage: StorageConfig{BatchCount: 100},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return c, nil
	}

	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return c, err
	}
	defer cfg.Close()

	if err := cfg.Load(file.NewSource(file.WithPath(path), source.WithEncoder(enc))); err != nil {
		return c, fmt.Errorf("load config %s: %w", path, err)
	}

	c.LogLevel = cfg.Get("logLevel").String(c.LogLevel)
	c.LogFile = cfg.Get("logFile").String(c.LogFile)
	if err := cfg.Get("Database").Scan(&c.Database); err != nil {
		return c, fmt.Errorf("scan Database: %w", err)
	}
	if err := cfg.Get("Storage").Scan(&c.Storage); err != nil {
		return c, fmt.Errorf("scan Storage: %w", err)
	}
	return c, nil
}

// Write encodes c as TOML.
func Write(w io.Writer, c Config) error {
	return burnt.NewEncoder(w).Encode(c)
}

// Open connects to the configured backend.
func (d DatabaseConfig) Open(logger *zap.Logger) (*sqldb.Sqldb, error) {
	opts := []sqldb.Option{sqldb.WithLogger(logger)}
	if d.DSN != "" {
		return sqldb.Open(d.Driver, d.DSN, opts...)
	}
	switch d.Driver {
	case sqldb.DriverSQLite:
		return sqldb.NewSQLite(d.Path, opts...)
	case sqldb.DriverMySQL:
		return sqldb.NewMySQL(sqldb.MySQLConfig{
			Host:           d.Host,
			User:           d.User,
			Password:       d.Password,
			Database:       d.Name,
			CreateDatabase: d.CreateDatabase,
		}, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", sqldb.ErrUnknownDriver, d.Driver)
	}
}
