package sqldb

import "go.uber.org/zap"

type options struct {
	logger  *zap.Logger
	connURL string
}

var defaultOptions = options{
	logger: zap.NewNop(),
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithConnURL replaces the DSN the constructor would otherwise build.
func WithConnURL(connURL string) Option {
	return func(opts *options) {
		opts.connURL = connURL
	}
}
