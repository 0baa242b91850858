package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenzapen/easysql/sqldb"
)

func TestParseSet(t *testing.T) {
	row, err := parseSet([]string{"name=John", "email=john@x.com", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, sqldb.Row{"name": "John", "email": "john@x.com", "note": "a=b"}, row)

	_, err = parseSet([]string{"broken"})
	assert.Error(t, err)
	_, err = parseSet([]string{"=x"})
	assert.Error(t, err)
}

func TestParseColumn(t *testing.T) {
	f, err := parseColumn("email TEXT UNIQUE NOT NULL")
	require.NoError(t, err)
	assert.Equal(t, sqldb.Field{Title: "email", Type: "TEXT", Constraint: "UNIQUE NOT NULL"}, f)

	f, err = parseColumn("name TEXT")
	require.NoError(t, err)
	assert.Empty(t, f.Constraint)

	_, err = parseColumn("name")
	assert.Error(t, err)
}

func TestParseForeignKey(t *testing.T) {
	fk, err := parseForeignKey("employee_id:employees(id)")
	require.NoError(t, err)
	assert.Equal(t, sqldb.ForeignKey{Column: "employee_id", RefTable: "employees", RefColumn: "id"}, fk)

	for _, bad := range []string{"employee_id", "employee_id:employees", "employee_id:employees(id"} {
		_, err := parseForeignKey(bad)
		assert.Error(t, err, bad)
	}
}
