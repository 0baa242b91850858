package sqlstorage

import (
	"github.com/wenzapen/easysql/sqldb"
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	driver     string
	sqlURL     string
	db         sqldb.DBer
	BatchCount int
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	driver:     sqldb.DriverSQLite,
	BatchCount: 100,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithDriver(driver string) Option {
	return func(opts *options) {
		opts.driver = driver
	}
}

func WithSQLURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}

// WithDB uses an already open store instead of opening one from the driver
// and URL.
func WithDB(db sqldb.DBer) Option {
	return func(opts *options) {
		opts.db = db
	}
}

func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		opts.BatchCount = batchCount
	}
}
