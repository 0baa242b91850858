package sqldb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EASYSQL_MYSQL_DSN points at a scratch database, e.g.
// root:secret@tcp(127.0.0.1:3306)/easysql_test
func setupMySQL(t *testing.T) *Sqldb {
	t.Helper()

	dsn := os.Getenv("EASYSQL_MYSQL_DSN")
	if dsn == "" {
		t.Skip("EASYSQL_MYSQL_DSN not set")
	}
	db, err := Open(DriverMySQL, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })
	return db
}

func TestMySQL_CRUD(t *testing.T) {
	db := setupMySQL(t)
	ctx := context.Background()

	require.NoError(t, db.DeleteTable(ctx, "easysql_users"))
	require.NoError(t, db.CreateTable(ctx, TableData{
		TableName: "easysql_users",
		AutoKey:   true,
		ColumnNames: []Field{
			{Title: "name", Type: "VARCHAR(100)", Constraint: "NOT NULL"},
			{Title: "email", Type: "VARCHAR(100)", Constraint: "UNIQUE"},
		},
	}))
	t.Cleanup(func() { _ = db.DeleteTable(ctx, "easysql_users") })

	tables, err := db.GetTables(ctx)
	require.NoError(t, err)
	assert.Contains(t, tables, "easysql_users")

	ok, err := db.Insert(ctx, "easysql_users", Row{"name": "John", "email": "john@x.com"}, "email")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.Insert(ctx, "easysql_users", Row{"name": "John", "email": "john@x.com"}, "email")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := db.Update(ctx, "easysql_users", Row{"name": "Jane"}, "email = ?", "john@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := db.Select(ctx, "easysql_users", []string{"name", "email"}, "")
	require.NoError(t, err)
	assert.Equal(t, []Row{{"name": "Jane", "email": "john@x.com"}}, rows)

	n, err = db.Delete(ctx, "easysql_users", "email = ?", "john@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
