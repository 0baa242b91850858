package db

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wenzapen/easysql/sqldb"
)

func newTablesCmd(g *Global) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "list tables",
		Args:  cobra.NoArgs,
		RunE: g.withDB(func(cmd *cobra.Command, args []string, s *session) error {
			tables, err := s.db.GetTables(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		}),
	}
}

func newCreateTableCmd(g *Global) *cobra.Command {
	var (
		columns     []string
		foreignKeys []string
		ifNotExists bool
		autoKey     bool
	)
	cmd := &cobra.Command{
		Use:   "create-table NAME",
		Short: "create a table",
		Args:  cobra.ExactArgs(1),
		RunE: g.withDB(func(cmd *cobra.Command, args []string, s *session) error {
			t := sqldb.TableData{
				TableName:   args[0],
				AutoKey:     autoKey,
				IfNotExists: ifNotExists,
			}
			for _, c := range columns {
				f, err := parseColumn(c)
				if err != nil {
					return err
				}
				t.ColumnNames = append(t.ColumnNames, f)
			}
			for _, c := range foreignKeys {
				fk, err := parseForeignKey(c)
				if err != nil {
					return err
				}
				t.ForeignKeys = append(t.ForeignKeys, fk)
			}
			return s.db.CreateTable(cmd.Context(), t)
		}),
	}
	cmd.Flags().StringArrayVar(&columns, "column", nil, `column definition "name TYPE [CONSTRAINT]", repeatable`)
	cmd.Flags().StringArrayVar(&foreignKeys, "foreign-key", nil, "foreign key column:table(column), repeatable")
	cmd.Flags().BoolVar(&ifNotExists, "if-not-exists", false, "do not fail when the table exists")
	cmd.Flags().BoolVar(&autoKey, "auto-key", false, "prepend an auto-increment id primary key")
	return cmd
}

func newDropCmd(g *Global) *cobra.Command {
	return &cobra.Command{
		Use:   "drop NAME",
		Short: "drop a table if it exists",
		Args:  cobra.ExactArgs(1),
		RunE: g.withDB(func(cmd *cobra.Command, args []string, s *session) error {
			return s.db.DeleteTable(cmd.Context(), args[0])
		}),
	}
}
