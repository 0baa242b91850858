package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	dbPath string
	cfg    string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	return &cli{
		t:      t,
		dbPath: filepath.Join(dir, "employees.db"),
		cfg:    filepath.Join(dir, "missing.toml"),
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--config", c.cfg, "--driver", "sqlite", "--dsn", c.dbPath, "--log-level", "error",
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func TestCLI_EmployeesScenario(t *testing.T) {
	c := newCLI(t)

	c.mustRun("create-table", "employees",
		"--column", "id INTEGER PRIMARY KEY",
		"--column", "name TEXT",
		"--column", "email TEXT UNIQUE")
	assert.Equal(t, "employees\n", c.mustRun("tables"))

	assert.Equal(t, "inserted\n", c.mustRun("insert", "employees",
		"--set", "name=John", "--set", "email=john@x.com", "--unique", "email"))
	assert.Equal(t, "true\n", c.mustRun("exists", "employees",
		"--set", "email=john@x.com", "--unique", "email"))
	assert.Equal(t, "duplicate, skipped\n", c.mustRun("insert", "employees",
		"--set", "name=John", "--set", "email=john@x.com", "--unique", "email"))

	out := c.mustRun("select", "employees")
	assert.Equal(t, `{"email":"john@x.com","id":1,"name":"John"}`+"\n", out)

	assert.Equal(t, "1 rows updated\n", c.mustRun("update", "employees",
		"--set", "name=Jane", "--where", "email = ?", "--arg", "john@x.com"))
	assert.Equal(t, `{"name":"Jane"}`+"\n", c.mustRun("select", "employees", "--columns", "name"))

	assert.Equal(t, "1 rows deleted\n", c.mustRun("delete", "employees",
		"--where", "email = ?", "--arg", "john@x.com"))
	assert.Empty(t, c.mustRun("select", "employees"))

	c.mustRun("drop", "employees")
	assert.Empty(t, c.mustRun("tables"))
}

func TestCLI_CreateTableTwiceFails(t *testing.T) {
	c := newCLI(t)
	c.mustRun("create-table", "t", "--column", "a TEXT")

	_, err := c.run("create-table", "t", "--column", "a TEXT")
	assert.Error(t, err)

	c.mustRun("create-table", "t", "--column", "a TEXT", "--if-not-exists")
}

func TestCLI_DeleteRequiresWhere(t *testing.T) {
	c := newCLI(t)
	c.mustRun("create-table", "t", "--column", "a TEXT")

	_, err := c.run("delete", "t")
	assert.Error(t, err)
}

func TestCLI_Import(t *testing.T) {
	c := newCLI(t)
	csvPath := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,email\nAnn,ann@x.com\nBob,bob@x.com\n"), 0o600))

	assert.Equal(t, "2 rows imported\n", c.mustRun("import", "people", "--file", csvPath))

	out := c.mustRun("select", "people", "--columns", "name", "--where", "email = ?", "--arg", "bob@x.com")
	assert.Equal(t, `{"name":"Bob"}`+"\n", out)
}

func TestCLI_ConfigInit(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("config", "init")
	assert.True(t, strings.Contains(out, "[Database]"), out)
	assert.Contains(t, out, `Driver = "sqlite"`)
}

func TestCLI_Version(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("version"), "Version:")
}
