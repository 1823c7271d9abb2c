package pgen

import (
	"io"
	"log/slog"

	"cloud.google.com/go/storage"
)

// Option configures Open.
type Option func(*PGEN)

// WithLogger sets the logger used for debug and warning output. By default
// nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(p *PGEN) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMmap maps a local .pgen into memory instead of issuing a pread per
// record. It has no effect for gs:// prefixes.
func WithMmap() Option {
	return func(p *PGEN) {
		p.useMmap = true
	}
}

// WithStorageClient supplies the client used for gs:// paths. The caller
// keeps ownership. Without it, a client is created on demand with default
// credentials and closed by PGEN.Close.
func WithStorageClient(client *storage.Client) Option {
	return func(p *PGEN) {
		p.storage = client
	}
}

// WithPvarPath overrides the location of the variant metadata file.
func WithPvarPath(path string) Option {
	return func(p *PGEN) {
		p.PvarPath = path
	}
}

// WithPsamPath overrides the location of the sample metadata file.
func WithPsamPath(path string) Option {
	return func(p *PGEN) {
		p.PsamPath = path
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
