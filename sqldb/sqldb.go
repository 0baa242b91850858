// Package sqldb is a thin CRUD layer over SQLite and MySQL.
//
// Table and column names are concatenated into the generated SQL as given and
// are never quoted or validated. Only values travel as bound parameters.
// Callers must not pass untrusted input as an identifier or as the text of a
// where clause.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var (
	ErrNoColumns      = errors.New("column can not be empty")
	ErrNoData         = errors.New("data can not be empty")
	ErrColumnMismatch = errors.New("row length does not match column count")
	ErrUnknownDriver  = errors.New("unknown driver")
	// ErrNoCondition keeps Update and Delete from touching every row.
	ErrNoCondition    = errors.New("condition can not be empty")
)

// DBer is the set of operations every backend supports.
type DBer interface {
	CreateTable(ctx context.Context, t TableData) error
	IsDuplicate(ctx context.Context, table string, data Row, uniqueColumns []string) (bool, error)
	Insert(ctx context.Context, table string, data Row, uniqueColumns ...string) (bool, error)
	InsertBatch(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	Update(ctx context.Context, table string, data Row, where string, args ...any) (int64, error)
	Delete(ctx context.Context, table string, where string, args ...any) (int64, error)
	Select(ctx context.Context, table string, columns []string, where string, args ...any) ([]Row, error)
	GetTables(ctx context.Context) ([]string, error)
	DeleteTable(ctx context.Context, name string) error
	Close() error
}

// Row maps column names to values.
type Row map[string]any

// Columns returns the keys of r in sorted order.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Field is a column definition: name, declared type and constraint clause.
type Field struct {
	Title      string
	Type       string
	Constraint string
}

type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

type TableData struct {
	TableName   string
	ColumnNames []Field
	ForeignKeys []ForeignKey
	// AutoKey prepends an auto-increment integer primary key named id.
	AutoKey     bool
	IfNotExists bool
}

var _ DBer = (*Sqldb)(nil)

// Sqldb implements DBer on top of a single database connection. It is not
// safe for concurrent use.
type Sqldb struct {
	options
	dialect Dialect
	db      *sqlx.DB
}

func open(d Dialect, dsn string, opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.connURL == "" {
		options.connURL = dsn
	}

	db, err := sqlx.Connect(d.DriverName(), options.connURL)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", d.DriverName(), err)
	}
	db.SetMaxOpenConns(1)

	options.logger.Debug("database connected", zap.String("driver", d.DriverName()))
	return &Sqldb{
		options: options,
		dialect: d,
		db:      db,
	}, nil
}

// Open connects to driver ("sqlite" or "mysql") using a driver-native DSN.
func Open(driver string, dsn string, opts ...Option) (*Sqldb, error) {
	switch driver {
	case DriverSQLite:
		return open(sqliteDialect{}, sqliteDSN(dsn), opts...)
	case DriverMySQL:
		return open(mysqlDialect{}, dsn, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// Dialect reports the backend this store talks to.
func (d *Sqldb) Dialect() Dialect {
	return d.dialect
}

func (d *Sqldb) Close() error {
	return d.db.Close()
}

func (d *Sqldb) CreateTable(ctx context.Context, t TableData) error {
	sql, err := createTableSQL(d.dialect, t)
	if err != nil {
		return err
	}
	d.logger.Debug("create table", zap.String("sql", sql))
	if _, err := d.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("create table %s: %w", t.TableName, err)
	}
	return nil
}

// IsDuplicate reports whether a row already holds the values data has for
// uniqueColumns. Unique columns missing from data are ignored; when none are
// present the result is false.
func (d *Sqldb) IsDuplicate(ctx context.Context, table string, data Row, uniqueColumns []string) (bool, error) {
	sql, args := duplicateSQL(table, data, uniqueColumns)
	if sql == "" {
		return false, nil
	}
	sql = d.db.Rebind(sql)
	d.logger.Debug("check duplicate", zap.String("sql", sql))

	var count int64
	if err := d.db.QueryRowxContext(ctx, sql, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("check duplicate in %s: %w", table, err)
	}
	return count > 0, nil
}

// Insert adds data as a new row. When uniqueColumns are given and a matching
// row exists, nothing is written and Insert returns false with a nil error.
//
// The duplicate check and the insert run as two separate statements, so a
// concurrent writer can still slip a duplicate in between. Rely on a UNIQUE
// constraint when that matters.
func (d *Sqldb) Insert(ctx context.Context, table string, data Row, uniqueColumns ...string) (bool, error) {
	if len(data) == 0 {
		return false, ErrNoData
	}
	if len(uniqueColumns) > 0 {
		dup, err := d.IsDuplicate(ctx, table, data, uniqueColumns)
		if err != nil {
			return false, err
		}
		if dup {
			d.logger.Info("duplicate record found, insertion skipped",
				zap.String("table", table),
				zap.Strings("unique", uniqueColumns))
			return false, nil
		}
	}

	cols := data.Columns()
	args := make([]any, 0, len(cols))
	for _, c := range cols {
		args = append(args, data[c])
	}
	sql := d.db.Rebind(insertSQL(table, cols, 1))
	d.logger.Debug("insert", zap.String("sql", sql))
	if _, err := d.db.ExecContext(ctx, sql, args...); err != nil {
		return false, fmt.Errorf("insert into %s: %w", table, err)
	}
	return true, nil
}

// InsertBatch writes rows with a single multi-row INSERT and returns the
// number of rows affected.
func (d *Sqldb) InsertBatch(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, ErrNoColumns
	}
	if len(rows) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(columns)*len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("%w: row %d has %d values, want %d", ErrColumnMismatch, i, len(row), len(columns))
		}
		args = append(args, row...)
	}

	sql := d.db.Rebind(insertSQL(table, columns, len(rows)))
	d.logger.Debug("insert batch", zap.String("sql", sql), zap.Int("rows", len(rows)))
	res, err := d.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("insert batch into %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Update sets the columns in data on every row matching where. The bound
// arguments are the values of data in column order followed by args.
// An empty where is rejected with ErrNoCondition.
func (d *Sqldb) Update(ctx context.Context, table string, data Row, where string, args ...any) (int64, error) {
	if len(data) == 0 {
		return 0, ErrNoData
	}
	if strings.TrimSpace(where) == "" {
		return 0, ErrNoCondition
	}
	cols := data.Columns()
	bound := make([]any, 0, len(cols)+len(args))
	for _, c := range cols {
		bound = append(bound, data[c])
	}
	bound = append(bound, args...)

	sql := d.db.Rebind(updateSQL(table, cols, where))
	d.logger.Debug("update", zap.String("sql", sql))
	res, err := d.db.ExecContext(ctx, sql, bound...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	return res.RowsAffected()
}

func (d *Sqldb) Delete(ctx context.Context, table string, where string, args ...any) (int64, error) {
	if strings.TrimSpace(where) == "" {
		return 0, ErrNoCondition
	}
	sql := d.db.Rebind(deleteSQL(table, where))
	d.logger.Debug("delete", zap.String("sql", sql))
	res, err := d.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Select returns every matching row. A nil columns slice selects all columns
// and an empty where selects every row. The whole result is read into memory.
func (d *Sqldb) Select(ctx context.Context, table string, columns []string, where string, args ...any) ([]Row, error) {
	sql := d.db.Rebind(selectSQL(table, columns, where))
	d.logger.Debug("select", zap.String("sql", sql))
	rows, err := d.db.QueryxContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return result, nil
}

func (d *Sqldb) GetTables(ctx context.Context) ([]string, error) {
	var tables []string
	if err := d.db.SelectContext(ctx, &tables, d.dialect.ListTablesQuery()); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// DeleteTable drops name. Dropping a table that does not exist is not an
// error.
func (d *Sqldb) DeleteTable(ctx context.Context, name string) error {
	sql := `DROP TABLE IF EXISTS ` + name
	d.logger.Debug("drop table", zap.String("sql", sql))
	if _, err := d.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("drop table %s: %w", name, err)
	}
	return nil
}
