// Package sqlstorage buffers records and writes them to a sqldb store in
// multi-row batches, creating each table on first use.
package sqlstorage

import (
	"context"
	"fmt"

	"github.com/wenzapen/easysql/sqldb"
	"go.uber.org/zap"
)

// Record is one row bound for Table. Values line up with Fields, and every
// record for a table carries the same Fields.
type Record struct {
	Table  string
	Fields []sqldb.Field
	Values []any
}

func (r *Record) columns() []string {
	cols := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		cols = append(cols, f.Title)
	}
	return cols
}

// SQLStorage is not safe for concurrent use.
type SQLStorage struct {
	dataDocker []*Record
	db         sqldb.DBer
	Table      map[string]struct{}
	options
}

func New(opts ...Option) (*SQLStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	s := &SQLStorage{
		options: options,
		Table:   make(map[string]struct{}),
		db:      options.db,
	}
	if s.db == nil {
		db, err := sqldb.Open(s.driver, s.sqlURL, sqldb.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.db = db
	}
	return s, nil
}

// Save buffers records, flushing whenever BatchCount records are pending.
// A record whose table cannot be created is logged and dropped.
func (s *SQLStorage) Save(ctx context.Context, records ...*Record) error {
	for _, r := range records {
		if len(r.Values) != len(r.Fields) {
			return fmt.Errorf("%w: table %s has %d fields and %d values",
				sqldb.ErrColumnMismatch, r.Table, len(r.Fields), len(r.Values))
		}
		if _, ok := s.Table[r.Table]; !ok {
			err := s.db.CreateTable(ctx, sqldb.TableData{
				TableName:   r.Table,
				ColumnNames: r.Fields,
				AutoKey:     true,
				IfNotExists: true,
			})
			if err != nil {
				s.logger.Error("create table failed", zap.String("table", r.Table), zap.Error(err))
				continue
			}
			s.Table[r.Table] = struct{}{}
		}
		if len(s.dataDocker) >= s.BatchCount {
			if err := s.Flush(ctx); err != nil {
				return err
			}
		}
		s.dataDocker = append(s.dataDocker, r)
	}
	return nil
}

// Flush writes pending records with one INSERT per table, in the order each
// table was first seen. When a table's INSERT fails, the tables before it
// stay written and the records of the failed table and every later table
// remain buffered for the next Flush.
func (s *SQLStorage) Flush(ctx context.Context) error {
	if len(s.dataDocker) == 0 {
		return nil
	}

	var order []string
	batches := make(map[string][][]any)
	columns := make(map[string][]string)
	for _, r := range s.dataDocker {
		if _, ok := batches[r.Table]; !ok {
			order = append(order, r.Table)
			columns[r.Table] = r.columns()
		}
		batches[r.Table] = append(batches[r.Table], r.Values)
	}

	for i, table := range order {
		n, err := s.db.InsertBatch(ctx, table, columns[table], batches[table])
		if err != nil {
			s.logger.Error("insert data failed", zap.String("table", table), zap.Error(err))
			s.keep(order[i:])
			return err
		}
		s.logger.Debug("flushed", zap.String("table", table), zap.Int64("rows", n))
	}
	s.dataDocker = nil
	return nil
}

// keep drops every buffered record whose table is not in tables.
func (s *SQLStorage) keep(tables []string) {
	pending := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		pending[t] = struct{}{}
	}
	var rest []*Record
	for _, r := range s.dataDocker {
		if _, ok := pending[r.Table]; ok {
			rest = append(rest, r)
		}
	}
	s.dataDocker = rest
}

// Close flushes pending records and closes the underlying store.
func (s *SQLStorage) Close(ctx context.Context) error {
	if err := s.Flush(ctx); err != nil {
		return err
	}
	return s.db.Close()
}
