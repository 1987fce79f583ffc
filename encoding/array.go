package encoding

import (
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// DType identifies the logical element type an array decodes to. Compiled
// accessor code reads arrays at their logical dtype regardless of storage
// kind, so this is the level-0 fingerprint ingredient.
type DType uint8

const (
	Float64 DType = iota
	Float32
)

// String returns the string representation of the DType.
func (t DType) String() string {
	switch t {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	default:
		return "unknown"
	}
}

// Spec selects and parameterizes an encoding for Encode.
type Spec struct {
	Kind           Kind
	Scale          float64
	Offset         float64
	MissingValue   *float64
	Bitwidth       int
	ClampTolerance float64
}

// Array is an N-dimensional numeric buffer, either plain (logical float
// values) or digitally encoded (stored integer codes plus a descriptor).
// Arrays are immutable after creation.
type Array struct {
	shape   []int
	dtype   DType
	desc    *Descriptor
	stored  []byte    // encoded form
	logical []float64 // plain form
}

// NewArray creates a plain float64 array. With no shape given the array is
// one-dimensional.
func NewArray(values []float64, shape ...int) (*Array, error) {
	shape, err := checkShape(len(values), shape)
	if err != nil {
		return nil, err
	}
	return &Array{shape: shape, dtype: Float64, logical: slices.Clone(values)}, nil
}

// NewFloat32Array creates a plain array whose logical dtype is float32.
// Values are held widened; the dtype records what compiled code must assume.
func NewFloat32Array(values []float32, shape ...int) (*Array, error) {
	shape, err := checkShape(len(values), shape)
	if err != nil {
		return nil, err
	}
	logical := make([]float64, len(values))
	for i, v := range values {
		logical[i] = float64(v)
	}
	return &Array{shape: shape, dtype: Float32, logical: logical}, nil
}

// NewEncodedArray constructs an array directly from existing storage, e.g.
// when reloading persisted data. The descriptor is validated and the buffer
// length must be an exact multiple of the element size implied by it.
func NewEncodedArray(stored []byte, desc *Descriptor, shape ...int) (*Array, error) {
	if desc == nil {
		return nil, &ErrInvalidEncoding{Reason: "encoded array requires a descriptor"}
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	size := elemSize(desc.Bitwidth)
	if len(stored)%size != 0 {
		return nil, &ErrInvalidEncoding{Reason: fmt.Sprintf("stored buffer length %d is not a multiple of element size %d", len(stored), size)}
	}
	shape, err := checkShape(len(stored)/size, shape)
	if err != nil {
		return nil, err
	}
	return &Array{shape: shape, dtype: Float64, desc: desc.clone(), stored: slices.Clone(stored)}, nil
}

// WithDType returns a copy of the array with its logical dtype overridden.
// Reload paths use this to restore the dtype recorded alongside persisted
// storage; the buffer itself is shared, not copied.
func (a *Array) WithDType(t DType) *Array {
	c := *a
	c.dtype = t
	return &c
}

// Encode re-encodes an array under the given spec, producing a new Array
// with the resulting descriptor attached. The source array is not modified.
func Encode(a *Array, spec Spec) (*Array, error) {
	values, err := a.Decode()
	if err != nil {
		return nil, err
	}

	var (
		stored []byte
		desc   *Descriptor
	)
	switch spec.Kind {
	case KindFixedPoint:
		stored, desc, err = EncodeFixedPoint(values, FixedPointSpec{
			Scale:          spec.Scale,
			Offset:         spec.Offset,
			Bitwidth:       spec.Bitwidth,
			MissingValue:   spec.MissingValue,
			ClampTolerance: spec.ClampTolerance,
		})
	case KindDictionary:
		stored, desc, err = EncodeDictionary(values, spec.Bitwidth)
	default:
		return nil, &ErrInvalidEncoding{Reason: fmt.Sprintf("unknown kind %d", spec.Kind)}
	}
	if err != nil {
		return nil, err
	}

	return &Array{shape: slices.Clone(a.shape), dtype: a.dtype, desc: desc, stored: stored}, nil
}

// Decode returns the logical values of the array as a fresh buffer. For a
// plain array this is a copy; for an encoded array it dispatches to the
// matching codec. The array itself is never mutated.
func (a *Array) Decode() ([]float64, error) {
	if a.desc == nil {
		return slices.Clone(a.logical), nil
	}
	switch a.desc.Kind {
	case KindFixedPoint:
		return DecodeFixedPoint(a.stored, a.desc), nil
	case KindDictionary:
		return DecodeDictionary(a.stored, a.desc)
	default:
		return nil, &ErrInvalidEncoding{Reason: fmt.Sprintf("unknown kind %d", a.desc.Kind)}
	}
}

// LogicalDType reports the dtype compiled code must assume when reading this
// array. Decode always yields logical reals, so this is float32 or float64
// regardless of storage kind.
func (a *Array) LogicalDType() DType { return a.dtype }

// Encoded reports whether the array carries a descriptor.
func (a *Array) Encoded() bool { return a.desc != nil }

// Descriptor returns the attached descriptor, or nil for a plain array.
// The returned descriptor must be treated as read-only.
func (a *Array) Descriptor() *Descriptor { return a.desc }

// Stored returns the raw stored buffer, or nil for a plain array.
// The returned slice must be treated as read-only.
func (a *Array) Stored() []byte { return a.stored }

// StoredValues returns the numeric values sitting in the buffer without
// applying any descriptor mapping: raw integer codes for an encoded array,
// the logical values for a plain one. This is what evaluation sees when
// compiled code not specialized to the array's encoding reads it, so it is
// useful when diagnosing stale-accessor output.
func (a *Array) StoredValues() []float64 {
	if a.desc == nil {
		return slices.Clone(a.logical)
	}
	values := make([]float64, a.Len())
	for i := range values {
		if a.desc.Kind == KindDictionary {
			values[i] = float64(getUnsigned(a.stored, i, a.desc.Bitwidth))
		} else {
			values[i] = float64(getSigned(a.stored, i, a.desc.Bitwidth))
		}
	}
	return values
}

// Shape returns a copy of the array's dimensions.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Len returns the total element count.
func (a *Array) Len() int {
	n := 1
	for _, d := range a.shape {
		n *= d
	}
	return n
}

// MissingMask returns the flat positions holding a missing value: the
// reserved sentinel code for fixed point, dictionary slots equal to the
// descriptor's missing value, and NaN for plain arrays.
func (a *Array) MissingMask() (*roaring.Bitmap, error) {
	mask := roaring.New()

	switch {
	case a.desc == nil:
		for i, v := range a.logical {
			if math.IsNaN(v) {
				mask.Add(uint32(i))
			}
		}
	case a.desc.Kind == KindFixedPoint:
		if a.desc.MissingValue == nil {
			return mask, nil
		}
		sentinel := a.desc.sentinelCode()
		for i := 0; i < a.Len(); i++ {
			if getSigned(a.stored, i, a.desc.Bitwidth) == sentinel {
				mask.Add(uint32(i))
			}
		}
	case a.desc.Kind == KindDictionary:
		if a.desc.MissingValue == nil {
			return mask, nil
		}
		missing := *a.desc.MissingValue
		for i := 0; i < a.Len(); i++ {
			idx := getUnsigned(a.stored, i, a.desc.Bitwidth)
			if idx >= uint64(len(a.desc.Dictionary)) {
				return nil, &ErrIndexOutOfRange{Index: int(idx), Size: len(a.desc.Dictionary)}
			}
			if sameValue(a.desc.Dictionary[idx], missing) {
				mask.Add(uint32(i))
			}
		}
	}

	return mask, nil
}

func checkShape(n int, shape []int) ([]int, error) {
	if len(shape) == 0 {
		return []int{n}, nil
	}
	total := 1
	for _, d := range shape {
		if d < 0 {
			return nil, &ErrInvalidEncoding{Reason: fmt.Sprintf("negative dimension %d", d)}
		}
		total *= d
	}
	if total != n {
		return nil, &ErrInvalidEncoding{Reason: fmt.Sprintf("shape %v does not match %d elements", shape, n)}
	}
	return slices.Clone(shape), nil
}
