package skimgo

import (
	"context"

	"github.com/hupe1980/skimgo/cache"
	"github.com/hupe1980/skimgo/encoding"
	"github.com/hupe1980/skimgo/fingerprint"
)

// Flow is the evaluation facade: it fingerprints each request, memoizes
// compiled accessors in its cache and runs them over the inputs.
//
// A Flow is safe for concurrent use. Concurrent requests with the same
// fingerprint compile at most once.
type Flow struct {
	compiler cache.Compiler
	cache    *cache.Cache
	level    fingerprint.Level
	logger   *Logger
}

// NewFlow creates a Flow around the given compiler.
func NewFlow(compiler cache.Compiler, optFns ...Option) (*Flow, error) {
	if compiler == nil {
		return nil, ErrNilCompiler
	}

	opts := options{
		cache:  cache.New(),
		level:  fingerprint.LevelFull,
		logger: NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Flow{
		compiler: compiler,
		cache:    opts.cache,
		level:    opts.level,
		logger:   opts.logger,
	}, nil
}

// Evaluate runs the named expressions over the named inputs, compiling an
// accessor on first use of this (expression set, input representation)
// fingerprint and reusing it afterwards. It returns one logical-value
// buffer per expression name.
func (f *Flow) Evaluate(ctx context.Context, exprs map[string]string, inputs map[string]*encoding.Array) (map[string][]float64, error) {
	if len(exprs) == 0 {
		return nil, ErrNoExpressions
	}

	key := fingerprint.Compute(exprs, inputs, f.level)
	sig := cache.Signatures(inputs)

	accessor, err := f.cache.GetOrCompile(ctx, key, sig, func(ctx context.Context) (cache.Accessor, error) {
		accessor, err := f.compiler.Compile(ctx, exprs, sig)
		f.logger.LogCompile(ctx, key, len(exprs), err)
		return accessor, err
	})
	if err != nil {
		return nil, err
	}

	out, err := accessor.Eval(ctx, inputs)
	f.logger.LogEvaluate(ctx, key, len(inputs), err)
	return out, err
}

// Fingerprint computes the cache key Evaluate would use for this request at
// the flow's hashing level.
func (f *Flow) Fingerprint(exprs map[string]string, inputs map[string]*encoding.Array) fingerprint.Key {
	return fingerprint.Compute(exprs, inputs, f.level)
}

// Cache returns the flow's accessor cache.
func (f *Flow) Cache() *cache.Cache { return f.cache }

// HashingLevel returns the fingerprint level the flow evaluates at.
func (f *Flow) HashingLevel() fingerprint.Level { return f.level }

// InvalidateCache clears every compiled accessor. Entries are otherwise
// kept for the process lifetime.
func (f *Flow) InvalidateCache() {
	f.cache.InvalidateAll()
}
