package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wenzapen/easysql/sqldb"
)

func TestLoad_MissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
logLevel = "DEBUG"

[Database]
Driver = "mysql"
Host = "db.local"
User = "app"
Password = "secret"
Name = "shop"
CreateDatabase = true
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", c.LogLevel)
	assert.Equal(t, "mysql", c.Database.Driver)
	assert.Equal(t, "db.local", c.Database.Host)
	assert.Equal(t, "shop", c.Database.Name)
	assert.True(t, c.Database.CreateDatabase)
	// untouched keys keep their defaults
	assert.Equal(t, "easysql.db", c.Database.Path)
	assert.Equal(t, 100, c.Storage.BatchCount)
}

func TestWrite_IsLoadable(t *testing.T) {
	want := Default()
	want.Database.Path = "employees.db"
	want.Storage.BatchCount = 7

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, want))
	assert.Contains(t, buf.String(), "[Database]")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDatabaseConfig_Open(t *testing.T) {
	d := DatabaseConfig{Driver: sqldb.DriverSQLite, Path: filepath.Join(t.TempDir(), "x.db")}
	db, err := d.Open(zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, db.Close())

	_, err = DatabaseConfig{Driver: "oracle"}.Open(zap.NewNop())
	assert.ErrorIs(t, err, sqldb.ErrUnknownDriver)
}
