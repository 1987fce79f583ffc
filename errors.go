package skimgo

import "errors"

var (
	// ErrNilCompiler is returned by NewFlow when no compiler is provided.
	ErrNilCompiler = errors.New("compiler must not be nil")

	// ErrNoExpressions is returned by Evaluate for an empty expression set.
	ErrNoExpressions = errors.New("expression set must not be empty")
)
