package compiler

import (
	"context"
	"sync"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/skimgo/cache"
	"github.com/hupe1980/skimgo/encoding"
)

// ExprCompiler compiles expression sets with github.com/expr-lang/expr.
// It implements cache.Compiler and is safe for concurrent use.
type ExprCompiler struct {
	options []exprlang.Option
}

// ExprCompilerOption configures an ExprCompiler.
type ExprCompilerOption func(*ExprCompiler)

// WithExprOptions appends extra expr-lang compile options, e.g. custom
// functions shared by every expression.
func WithExprOptions(opts ...exprlang.Option) ExprCompilerOption {
	return func(c *ExprCompiler) {
		c.options = append(c.options, opts...)
	}
}

// NewExprCompiler creates a Compiler backed by expr-lang/expr.
func NewExprCompiler(opts ...ExprCompilerOption) *ExprCompiler {
	c := &ExprCompiler{
		options: []exprlang.Option{
			exprlang.Env(map[string]any{}),
			exprlang.AllowUndefinedVariables(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds an accessor for the expression set. Input descriptors from
// sig are captured into the accessor; evaluation decodes each input with the
// captured descriptor.
func (c *ExprCompiler) Compile(_ context.Context, exprs map[string]string, sig []cache.InputSignature) (cache.Accessor, error) {
	programs := make(map[string]*exprvm.Program, len(exprs))
	for name, text := range exprs {
		program, err := exprlang.Compile(text, c.options...)
		if err != nil {
			return nil, &ErrCompile{Name: name, Expression: text, cause: err}
		}
		programs[name] = program
	}

	inputs := make([]cache.InputSignature, len(sig))
	copy(inputs, sig)

	return &exprAccessor{programs: programs, inputs: inputs}, nil
}

// exprAccessor evaluates compiled programs element-wise.
type exprAccessor struct {
	programs map[string]*exprvm.Program
	inputs   []cache.InputSignature
}

// checkInterval bounds how often the row loop polls ctx.
const checkInterval = 4096

func (a *exprAccessor) Eval(ctx context.Context, inputs map[string]*encoding.Array) (map[string][]float64, error) {
	decoded := make([][]float64, len(a.inputs))

	var g errgroup.Group
	for i, sig := range a.inputs {
		arr, ok := inputs[sig.Name]
		if !ok {
			return nil, &ErrMissingInput{Name: sig.Name}
		}
		i, sig := i, sig
		g.Go(func() error {
			values, err := decodeInput(arr, sig.Descriptor)
			if err != nil {
				return err
			}
			decoded[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	if len(decoded) > 0 {
		n = len(decoded[0])
	}
	for i, values := range decoded {
		if len(values) != n {
			return nil, &ErrLengthMismatch{Name: a.inputs[i].Name, Expected: n, Actual: len(values)}
		}
	}

	out := make(map[string][]float64, len(a.programs))
	for name := range a.programs {
		out[name] = make([]float64, n)
	}

	env := make(map[string]any, len(a.inputs))
	for row := 0; row < n; row++ {
		if row%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for i, sig := range a.inputs {
			env[sig.Name] = decoded[i][row]
		}
		for name, program := range a.programs {
			v, err := exprvm.Run(program, env)
			if err != nil {
				return nil, err
			}
			f, ok := toFloat(v)
			if !ok {
				return nil, &ErrNonNumericResult{Name: name, Value: v}
			}
			out[name][row] = f
		}
	}

	return out, nil
}

// decodeInput produces the logical values evaluation reads for one input.
// The captured descriptor wins over whatever the array currently carries:
// that is the specialization contract, and the source of stale-accessor
// wrongness when the two disagree.
func decodeInput(arr *encoding.Array, captured *encoding.Descriptor) ([]float64, error) {
	switch {
	case captured == nil:
		// Compiled for a plain array: the buffer is read as-is. If the
		// array was re-encoded since compile time, raw codes flow through.
		return arr.StoredValues(), nil
	case arr.Encoded():
		if captured.Kind == encoding.KindDictionary {
			return encoding.DecodeDictionary(arr.Stored(), captured)
		}
		return encoding.DecodeFixedPoint(arr.Stored(), captured), nil
	default:
		// Compiled for an encoded array but handed a plain one: apply the
		// captured mapping to the values as if they were stored codes.
		values, err := arr.Decode()
		if err != nil {
			return nil, err
		}
		return applyDescriptor(values, captured)
	}
}

func applyDescriptor(codes []float64, desc *encoding.Descriptor) ([]float64, error) {
	values := make([]float64, len(codes))
	for i, c := range codes {
		if desc.Kind == encoding.KindDictionary {
			idx := int(c)
			if idx < 0 || idx >= len(desc.Dictionary) {
				return nil, &encoding.ErrIndexOutOfRange{Index: idx, Size: len(desc.Dictionary)}
			}
			values[i] = desc.Dictionary[idx]
			continue
		}
		values[i] = c/desc.Scale - desc.Offset
	}
	return values, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

var _ cache.Compiler = (*ExprCompiler)(nil)

// CountingCompiler wraps a Compiler and counts Compile invocations. It is
// meant for tests and cache instrumentation.
type CountingCompiler struct {
	Inner cache.Compiler

	mu    sync.Mutex
	count int
}

// Compile delegates to the inner compiler.
func (c *CountingCompiler) Compile(ctx context.Context, exprs map[string]string, sig []cache.InputSignature) (cache.Accessor, error) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
	return c.Inner.Compile(ctx, exprs, sig)
}

// Count returns the number of Compile calls observed.
func (c *CountingCompiler) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
