package db

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wenzapen/easysql/sqldb"
	"github.com/wenzapen/easysql/storage/sqlstorage"
)

func newImportCmd(g *Global) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import NAME",
		Short: "load a CSV file into a table, creating it when missing",
		Long: "load a CSV file into a table. The header row names the columns; " +
			"a missing table is created with TEXT columns and an auto-increment id.",
		Args: cobra.ExactArgs(1),
		RunE: g.withDB(func(cmd *cobra.Command, args []string, s *session) error {
			if file == "" {
				return errors.New("--file is required")
			}
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			storage, err := sqlstorage.New(
				sqlstorage.WithDB(s.db),
				sqlstorage.WithLogger(s.logger.Named("storage")),
				sqlstorage.WithBatchCount(s.cfg.Storage.BatchCount),
			)
			if err != nil {
				return err
			}

			n, err := importCSV(cmd, storage, args[0], f)
			if err != nil {
				return err
			}
			if err := storage.Flush(cmd.Context()); err != nil {
				return err
			}
			s.logger.Info("import finished", zap.String("table", args[0]), zap.Int("rows", n))
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows imported\n", n)
			return nil
		}),
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file with a header row")
	return cmd
}

func importCSV(cmd *cobra.Command, storage *sqlstorage.SQLStorage, table string, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	fields := make([]sqldb.Field, 0, len(header))
	for _, h := range header {
		fields = append(fields, sqldb.Field{Title: h, Type: "TEXT"})
	}

	n := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		values := make([]any, 0, len(rec))
		for _, v := range rec {
			values = append(values, v)
		}
		if err := storage.Save(cmd.Context(), &sqlstorage.Record{
			Table:  table,
			Fields: fields,
			Values: values,
		}); err != nil {
			return n, err
		}
		n++
	}
}
