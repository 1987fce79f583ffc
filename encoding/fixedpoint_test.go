package encoding

import (
	"errors"
	"math"
	"testing"
)

func TestEncodeFixedPoint_KnownCodes(t *testing.T) {
	values := []float64{12.3, 24.1, 44.2}
	stored, desc, err := EncodeFixedPoint(values, FixedPointSpec{Scale: 100, Bitwidth: 16})
	if err != nil {
		t.Fatalf("EncodeFixedPoint failed: %v", err)
	}

	want := []int64{1230, 2410, 4420}
	for i, w := range want {
		if got := getSigned(stored, i, 16); got != w {
			t.Errorf("code[%d] = %d, want %d", i, got, w)
		}
	}

	decoded := DecodeFixedPoint(stored, desc)
	for i, v := range values {
		if math.Abs(decoded[i]-v) > 0.005 {
			t.Errorf("decoded[%d] = %v, want %v within 0.005", i, decoded[i], v)
		}
	}
}

func TestFixedPoint_RoundTripError(t *testing.T) {
	for _, bitwidth := range []int{8, 16, 32} {
		spec := FixedPointSpec{Scale: 10, Offset: 3, Bitwidth: bitwidth}
		values := []float64{-9.9, -3.0, -0.5, 0.0, 0.1, 2.7, 9.6}

		stored, desc, err := EncodeFixedPoint(values, spec)
		if err != nil {
			t.Fatalf("bitwidth %d: EncodeFixedPoint failed: %v", bitwidth, err)
		}

		decoded := DecodeFixedPoint(stored, desc)
		bound := 0.5 / spec.Scale
		for i, v := range values {
			if math.Abs(decoded[i]-v) > bound {
				t.Errorf("bitwidth %d: decoded[%d] = %v, want %v within %v", bitwidth, i, decoded[i], v, bound)
			}
		}
	}
}

func TestFixedPoint_MissingValueRoundTripsExactly(t *testing.T) {
	missing := -999.0
	spec := FixedPointSpec{Scale: 100, Bitwidth: 16, MissingValue: &missing}

	stored, desc, err := EncodeFixedPoint([]float64{12.3, -999.0, 44.2}, spec)
	if err != nil {
		t.Fatalf("EncodeFixedPoint failed: %v", err)
	}

	if got := getSigned(stored, 1, 16); got != math.MinInt16 {
		t.Errorf("sentinel code = %d, want %d", got, math.MinInt16)
	}

	decoded := DecodeFixedPoint(stored, desc)
	if decoded[1] != -999.0 {
		t.Errorf("decoded missing = %v, want exactly -999", decoded[1])
	}
}

func TestFixedPoint_NaNMissingValue(t *testing.T) {
	missing := math.NaN()
	spec := FixedPointSpec{Scale: 10, Bitwidth: 8, MissingValue: &missing}

	stored, desc, err := EncodeFixedPoint([]float64{1.5, math.NaN()}, spec)
	if err != nil {
		t.Fatalf("EncodeFixedPoint failed: %v", err)
	}

	decoded := DecodeFixedPoint(stored, desc)
	if !math.IsNaN(decoded[1]) {
		t.Errorf("decoded missing = %v, want NaN", decoded[1])
	}
}

func TestEncodeFixedPoint_RangeError(t *testing.T) {
	_, _, err := EncodeFixedPoint([]float64{400.0}, FixedPointSpec{Scale: 100, Bitwidth: 16})

	var rangeErr *ErrEncodingRange
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *ErrEncodingRange, got %v", err)
	}
	if rangeErr.Value != 400.0 {
		t.Errorf("Value = %v, want 400", rangeErr.Value)
	}
}

func TestEncodeFixedPoint_ClampTolerance(t *testing.T) {
	// 327.68 encodes to 32768, one code past the int16 maximum: a loss of
	// 0.01 logical units when clamped.
	spec := FixedPointSpec{Scale: 100, Bitwidth: 16, ClampTolerance: 0.02}
	stored, desc, err := EncodeFixedPoint([]float64{327.68}, spec)
	if err != nil {
		t.Fatalf("EncodeFixedPoint failed: %v", err)
	}
	if got := DecodeFixedPoint(stored, desc)[0]; got != 327.67 {
		t.Errorf("clamped decode = %v, want 327.67", got)
	}

	// Beyond tolerance still errors.
	if _, _, err := EncodeFixedPoint([]float64{330.0}, spec); err == nil {
		t.Fatal("expected range error beyond clamp tolerance")
	}
}

func TestEncodeFixedPoint_NonFiniteValues(t *testing.T) {
	spec := FixedPointSpec{Scale: 10, Bitwidth: 16}

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, _, err := EncodeFixedPoint([]float64{v}, spec)
		var rangeErr *ErrEncodingRange
		if !errors.As(err, &rangeErr) {
			t.Errorf("value %v: expected *ErrEncodingRange, got %v", v, err)
		}
	}
}

func TestEncodeFixedPoint_InvalidSpec(t *testing.T) {
	tests := []struct {
		name string
		spec FixedPointSpec
	}{
		{"zero scale", FixedPointSpec{Scale: 0, Bitwidth: 16}},
		{"negative scale", FixedPointSpec{Scale: -1, Bitwidth: 16}},
		{"bad bitwidth", FixedPointSpec{Scale: 10, Bitwidth: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := EncodeFixedPoint([]float64{1}, tt.spec)
			var invalid *ErrInvalidEncoding
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *ErrInvalidEncoding, got %v", err)
			}
		})
	}
}

func TestFixedPoint_OffsetMapping(t *testing.T) {
	// With offset 5, logical 0 stores as code 50 at scale 10.
	stored, desc, err := EncodeFixedPoint([]float64{0}, FixedPointSpec{Scale: 10, Offset: 5, Bitwidth: 8})
	if err != nil {
		t.Fatalf("EncodeFixedPoint failed: %v", err)
	}
	if got := getSigned(stored, 0, 8); got != 50 {
		t.Errorf("code = %d, want 50", got)
	}
	if got := DecodeFixedPoint(stored, desc)[0]; got != 0 {
		t.Errorf("decoded = %v, want 0", got)
	}
}
