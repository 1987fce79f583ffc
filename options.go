package skimgo

import (
	"github.com/hupe1980/skimgo/cache"
	"github.com/hupe1980/skimgo/fingerprint"
)

type options struct {
	cache  *cache.Cache
	level  fingerprint.Level
	logger *Logger
}

// Option configures Flow construction.
type Option func(*options)

// WithCache injects a shared accessor cache. Flows sharing one cache share
// compiled accessors; independent caches (the default) give test isolation.
func WithCache(c *cache.Cache) Option {
	return func(o *options) {
		if c != nil {
			o.cache = c
		}
	}
}

// WithHashingLevel selects how much input-representation detail feeds the
// cache fingerprint. The default is fingerprint.LevelFull, which captures
// every field compiled code specializes on. Lower levels allow accessor
// reuse across representation changes at the cost of the staleness hazard
// documented on the fingerprint package.
func WithHashingLevel(level fingerprint.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithLogger configures structured logging. Pass nil to keep the default
// no-op logger.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
