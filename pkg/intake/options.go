package intake

import (
	"log/slog"
	"strings"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithEndpoints maps form endpoint keys (or form IDs) to webhook URLs.
func WithEndpoints(endpoints map[string]string) Option {
	return func(p *Pipeline) {
		for key, url := range endpoints {
			if k := strings.TrimSpace(key); k != "" {
				p.endpoints[k] = strings.TrimSpace(url)
			}
		}
	}
}

// WithSanitizer strips HTML markup from string values before serialization.
func WithSanitizer(enabled bool) Option {
	return func(p *Pipeline) {
		p.sanitize = enabled
	}
}

// WithLogger sets the structured logger. Field values are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithIDGenerator overrides how submission IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.newID = fn
		}
	}
}
