package rules

import "log/slog"

// Option configures a rule factory.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to trace rule additions.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
