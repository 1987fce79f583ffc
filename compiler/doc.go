// Package compiler builds accessors from textual expressions.
//
// The default implementation compiles each named expression once with
// github.com/expr-lang/expr and evaluates the resulting programs
// element-wise over the decoded inputs. Generated accessors are specialized
// against the storage representation captured in the input signatures at
// compile time: decode of each input happens with the descriptor the
// accessor was compiled for, not whatever descriptor the array carries at
// evaluation time. Swapping an input's encoding without recompiling
// therefore yields numerically wrong output, which is exactly the staleness
// hazard the fingerprint levels exist to surface.
package compiler
