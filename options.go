package keywrap

import (
	"crypto/rand"
	"io"
)

// Logger receives diagnostic messages from a Manager. Messages never contain
// passphrases, keys, or plaintext.
type Logger interface {
	Debugf(msg string, args ...any)
	Infof(msg string, args ...any)
	Warnf(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}

// Option is a functional option for configuring a Manager.
type Option func(*config)

// config holds Manager configuration options.
type config struct {
	logger Logger
	kdf    kdfParams
	random io.Reader
}

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		logger: noopLogger{},
		kdf:    defaultKDFParams,
		random: rand.Reader,
	}
}

// WithLogger routes Manager diagnostics to l. A nil l keeps the no-op logger.
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// withKDFParams overrides the Argon2id cost. Package tests only.
func withKDFParams(p kdfParams) Option {
	return func(c *config) {
		c.kdf = p
	}
}

// withRandom overrides the envelope salt source. Package tests only.
func withRandom(r io.Reader) Option {
	return func(c *config) {
		c.random = r
	}
}
