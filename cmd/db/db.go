// Package db holds the easysql subcommands that talk to a database.
package db

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wenzapen/easysql/config"
	"github.com/wenzapen/easysql/log"
	"github.com/wenzapen/easysql/sqldb"
)

// Global holds the persistent flags shared by every subcommand. Non-empty
// flags override the config file.
type Global struct {
	CfgFile  string
	Driver   string
	DSN      string
	LogLevel string
	LogFile  string
}

func (g *Global) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&g.CfgFile, "config", "config.toml", "set config file")
	fs.StringVar(&g.Driver, "driver", "", "database driver: sqlite or mysql")
	fs.StringVar(&g.DSN, "dsn", "", "database DSN, or file path for sqlite")
	fs.StringVar(&g.LogLevel, "log-level", "", "log level")
	fs.StringVar(&g.LogFile, "log-file", "", "write logs to this file instead of stderr")
}

type session struct {
	db     *sqldb.Sqldb
	logger *zap.Logger
	cfg    config.Config
	closer io.Closer
}

func (s *session) Close() error {
	err := s.db.Close()
	_ = s.logger.Sync()
	if cerr := s.closer.Close(); err == nil {
		err = cerr
	}
	return err
}

func (g *Global) open() (*session, error) {
	cfg, err := config.Load(g.CfgFile)
	if err != nil {
		return nil, err
	}
	if g.Driver != "" {
		cfg.Database.Driver = g.Driver
	}
	if g.DSN != "" {
		cfg.Database.DSN = g.DSN
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.LogFile != "" {
		cfg.LogFile = g.LogFile
	}

	logger, closer, err := log.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	d, err := cfg.Database.Open(logger.Named("sqldb"))
	if err != nil {
		logger.Error("open database failed", zap.Error(err))
		_ = closer.Close()
		return nil, err
	}
	return &session{db: d, logger: logger, cfg: cfg, closer: closer}, nil
}

// withDB opens the configured database around fn.
func (g *Global) withDB(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		s, err := g.open()
		if err != nil {
			return err
		}
		defer func() {
			if cerr := s.Close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args, s)
	}
}

// Commands returns every database subcommand bound to g.
func Commands(g *Global) []*cobra.Command {
	return []*cobra.Command{
		newTablesCmd(g),
		newCreateTableCmd(g),
		newDropCmd(g),
		newInsertCmd(g),
		newExistsCmd(g),
		newUpdateCmd(g),
		newDeleteCmd(g),
		newSelectCmd(g),
		newImportCmd(g),
	}
}

// parseSet turns k=v pairs into a row. Values stay strings and rely on the
// backend's type conversion.
func parseSet(pairs []string) (sqldb.Row, error) {
	row := make(sqldb.Row, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, want column=value", p)
		}
		row[k] = v
	}
	return row, nil
}

// parseColumn reads "name TYPE [CONSTRAINT...]".
func parseColumn(def string) (sqldb.Field, error) {
	parts := strings.Fields(def)
	if len(parts) < 2 {
		return sqldb.Field{}, fmt.Errorf("invalid --column %q, want \"name TYPE [CONSTRAINT]\"", def)
	}
	return sqldb.Field{
		Title:      parts[0],
		Type:       parts[1],
		Constraint: strings.Join(parts[2:], " "),
	}, nil
}

// parseForeignKey reads "column:table(refcolumn)".
func parseForeignKey(def string) (sqldb.ForeignKey, error) {
	col, ref, ok := strings.Cut(def, ":")
	table, refCol, ok2 := strings.Cut(ref, "(")
	if !ok || !ok2 || !strings.HasSuffix(refCol, ")") {
		return sqldb.ForeignKey{}, fmt.Errorf("invalid --foreign-key %q, want column:table(column)", def)
	}
	return sqldb.ForeignKey{
		Column:    col,
		RefTable:  table,
		RefColumn: strings.TrimSuffix(refCol, ")"),
	}, nil
}

func toArgs(ss []string) []any {
	args := make([]any, 0, len(ss))
	for _, s := range ss {
		args = append(args, s)
	}
	return args
}
