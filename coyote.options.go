package coyote

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring a Document.
type Option func(*documentConfig)

// documentConfig holds the internal configuration for a Document.
type documentConfig struct {
	logger *zap.Logger
	cache  *StepCache
	params *DocumentParams
}

// defaultDocumentConfig returns the default document configuration.
func defaultDocumentConfig() *documentConfig {
	return &documentConfig{}
}

// WithLogger sets the logger for the document.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *documentConfig) {
		c.logger = logger
	}
}

// WithStepCache shares a step cache between documents.
// Default: a private cache per document
func WithStepCache(cache *StepCache) Option {
	return func(c *documentConfig) {
		c.cache = cache
	}
}

// WithParams rebuilds a bundled ruleset with the given params.
// It has no effect on custom Ruleset implementations.
func WithParams(params DocumentParams) Option {
	return func(c *documentConfig) {
		c.params = &params
	}
}
