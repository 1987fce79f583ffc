// Package encoding implements digital encoding for numeric lookup arrays.
//
// # Overview
//
// Large origin-destination matrices are mostly low-precision data stored in
// high-precision floats. Digital encoding trades declared precision for
// memory: a float64 travel-time skim encoded at scale=100 into int16 keeps
// two decimal digits at a quarter of the footprint.
//
// Two encodings are supported:
//
//   - Fixed point: stored code i maps to logical value (i / scale) - offset.
//     Lossy to the declared precision (0.5/scale absolute error bound).
//   - Dictionary: stored code is an index into a small list of the distinct
//     values occurring in the array. Lossless by construction.
//
// # Usage
//
//	arr := encoding.NewArray(values, 64, 64)
//	enc, err := encoding.Encode(arr, encoding.Spec{
//	    Kind:     encoding.KindFixedPoint,
//	    Scale:    100,
//	    Bitwidth: 16,
//	})
//	if err != nil { ... }
//
//	decoded, _ := enc.Decode() // []float64, within 0.005 of values
//
// An encoded Array carries an immutable Descriptor describing the mapping
// between stored and logical values. The descriptor round-trips through JSON
// so it can be persisted alongside the array's other metadata.
//
// # Thread Safety
//
// Arrays and descriptors are immutable after creation. Encode and Decode
// allocate fresh buffers and may run fully in parallel across independent
// arrays.
package encoding
