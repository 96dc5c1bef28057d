package secrets

import "log/slog"

// clientOptions holds configuration options for the Secrets Manager client.
type clientOptions struct {
	logger *slog.Logger
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

// WithLogger configures the client with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

func applyOptions(opts []Option) *clientOptions {
	options := &clientOptions{}
	for _, option := range opts {
		option(options)
	}
	return options
}
