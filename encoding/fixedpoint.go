package encoding

import "math"

// FixedPointSpec parameterizes fixed-point encoding.
type FixedPointSpec struct {
	// Scale converts logical to stored units: stored = round((x+Offset)*Scale).
	Scale float64

	// Offset is the additive shift applied before scaling.
	Offset float64

	// Bitwidth is the stored signed integer width: 8, 16 or 32.
	Bitwidth int

	// MissingValue, when set, round-trips through a reserved sentinel code.
	MissingValue *float64

	// ClampTolerance is the maximum logical-unit loss accepted when an
	// out-of-range value is clamped to the representable range. The default
	// of zero means out-of-range values are an error, never a silent
	// saturate.
	ClampTolerance float64
}

func (s FixedPointSpec) descriptor() *Descriptor {
	d := &Descriptor{
		Kind:     KindFixedPoint,
		Scale:    s.Scale,
		Offset:   s.Offset,
		Bitwidth: s.Bitwidth,
	}
	if s.MissingValue != nil {
		mv := *s.MissingValue
		d.MissingValue = &mv
	}
	return d
}

// EncodeFixedPoint encodes logical values into little-endian signed
// fixed-point codes. It returns the stored buffer and the descriptor needed
// to decode it.
//
// Values equal to the spec's missing value emit the reserved sentinel code.
// Values whose code falls outside the representable signed range fail with
// *ErrEncodingRange unless clamping loses no more than the spec's
// ClampTolerance in logical units.
func EncodeFixedPoint(values []float64, spec FixedPointSpec) ([]byte, *Descriptor, error) {
	desc := spec.descriptor()
	if err := desc.Validate(); err != nil {
		return nil, nil, err
	}

	lo, hi := desc.signedRange()
	stored := make([]byte, len(values)*elemSize(desc.Bitwidth))

	for i, x := range values {
		if desc.MissingValue != nil && sameValue(x, *desc.MissingValue) {
			putSigned(stored, i, desc.Bitwidth, desc.sentinelCode())
			continue
		}

		code := math.Round((x + spec.Offset) * spec.Scale)
		// NaN and infinities have no stored representation; the clamp
		// comparison below would silently pass them through.
		if math.IsNaN(code) || math.IsInf(code, 0) {
			return nil, nil, &ErrEncodingRange{
				Value: x,
				Min:   float64(lo)/spec.Scale - spec.Offset,
				Max:   float64(hi)/spec.Scale - spec.Offset,
			}
		}
		clamped := math.Min(math.Max(code, float64(lo)), float64(hi))
		if loss := math.Abs(code-clamped) / spec.Scale; loss > spec.ClampTolerance {
			return nil, nil, &ErrEncodingRange{
				Value: x,
				Min:   float64(lo)/spec.Scale - spec.Offset,
				Max:   float64(hi)/spec.Scale - spec.Offset,
			}
		}
		putSigned(stored, i, desc.Bitwidth, int64(clamped))
	}

	return stored, desc, nil
}

// DecodeFixedPoint decodes stored fixed-point codes back to logical values.
// Decoding is total over all valid stored codes and never fails.
func DecodeFixedPoint(stored []byte, desc *Descriptor) []float64 {
	n := len(stored) / elemSize(desc.Bitwidth)
	values := make([]float64, n)

	sentinel := desc.sentinelCode()
	for i := 0; i < n; i++ {
		code := getSigned(stored, i, desc.Bitwidth)
		if desc.MissingValue != nil && code == sentinel {
			values[i] = *desc.MissingValue
			continue
		}
		values[i] = float64(code)/desc.Scale - desc.Offset
	}

	return values
}

// sameValue compares logical values treating NaN as equal to itself, so a
// NaN missing sentinel round-trips.
func sameValue(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
