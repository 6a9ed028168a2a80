package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	stdio  bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStdio switches the application into MCP stdio mode: no HTTP server,
// no file watcher, tools served on stdin/stdout.
func WithStdio(enabled bool) Option {
	return func(a *application) {
		a.stdio = enabled
	}
}
