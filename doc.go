// Package skimgo evaluates algebraic expressions over digitally encoded
// lookup arrays, caching the compiled evaluation code.
//
// Skimgo targets tabular/array computation over large multi-dimensional
// lookup tables such as origin-destination network matrices: arrays are
// stored in compact fixed-point or dictionary-indexed form, expressions over
// them are compiled once per distinct (expression set, input representation)
// fingerprint, and the compiled accessor is reused for the process lifetime.
//
// # Quick Start
//
//	enc, _ := encoding.Encode(times, encoding.Spec{
//	    Kind:     encoding.KindFixedPoint,
//	    Scale:    100,
//	    Bitwidth: 16,
//	})
//
//	flow, _ := skimgo.NewFlow(compiler.NewExprCompiler())
//	out, _ := flow.Evaluate(ctx,
//	    map[string]string{"generalized_time": "time + toll * 0.2"},
//	    map[string]*encoding.Array{"time": enc, "toll": tolls},
//	)
//
// # Hashing Levels
//
// Compiled accessors are specialized to the storage representation of their
// inputs. The hashing level controls how much of that representation is
// folded into the cache key; evaluating with a level that omits a field the
// accessor specializes on can serve stale code that produces numerically
// wrong output. The default, fingerprint.LevelFull, captures every such
// field. Lower the level only when you can prove every representation detail
// outside the fingerprint is invariant across requests.
package skimgo
