package cache

import (
	"context"
	"slices"

	"github.com/hupe1980/skimgo/encoding"
)

// Accessor is compiled evaluation code for one expression set. It is
// specialized to the storage representation of the inputs it was compiled
// against: decode logic for each input's descriptor is baked in.
//
// Implementations must be safe for concurrent use; a cached accessor is
// shared across callers.
type Accessor interface {
	// Eval evaluates every expression over the named inputs and returns one
	// logical-value buffer per expression name.
	Eval(ctx context.Context, inputs map[string]*encoding.Array) (map[string][]float64, error)
}

// InputSignature records the representation of one named input at compile
// time: the decoded dtype plus the storage descriptor (nil for plain
// arrays). Compilers specialize generated code against these fields, and the
// cache keeps the signature each accessor was compiled against.
type InputSignature struct {
	Name       string
	DType      encoding.DType
	Descriptor *encoding.Descriptor
}

// Compiler builds an accessor from expression texts and input signatures.
// Implementations must be deterministic: the same texts and signatures yield
// an accessor with the same numeric semantics.
type Compiler interface {
	Compile(ctx context.Context, exprs map[string]string, sig []InputSignature) (Accessor, error)
}

// Signatures derives the compile-time signature of a set of named inputs,
// sorted by name for determinism.
func Signatures(inputs map[string]*encoding.Array) []InputSignature {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	slices.Sort(names)

	sig := make([]InputSignature, len(names))
	for i, name := range names {
		arr := inputs[name]
		sig[i] = InputSignature{
			Name:       name,
			DType:      arr.LogicalDType(),
			Descriptor: arr.Descriptor(),
		}
	}
	return sig
}
