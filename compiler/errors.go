package compiler

import "fmt"

// ErrCompile indicates an expression failed to compile.
//
// The underlying expr-lang error can be accessed via errors.Unwrap.
type ErrCompile struct {
	Name       string
	Expression string
	cause      error
}

func (e *ErrCompile) Error() string {
	return fmt.Sprintf("compile %q: %v", e.Name, e.cause)
}

func (e *ErrCompile) Unwrap() error { return e.cause }

// ErrMissingInput indicates evaluation was requested without an input the
// accessor was compiled against.
type ErrMissingInput struct {
	Name string
}

func (e *ErrMissingInput) Error() string {
	return fmt.Sprintf("missing input %q", e.Name)
}

// ErrLengthMismatch indicates inputs with differing element counts.
type ErrLengthMismatch struct {
	Name     string
	Expected int
	Actual   int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("input %q has %d elements, expected %d", e.Name, e.Actual, e.Expected)
}

// ErrNonNumericResult indicates an expression produced a value that cannot
// be stored in a numeric output buffer.
type ErrNonNumericResult struct {
	Name  string
	Value any
}

func (e *ErrNonNumericResult) Error() string {
	return fmt.Sprintf("expression %q produced non-numeric result %T", e.Name, e.Value)
}
