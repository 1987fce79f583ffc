package encoding

import (
	"fmt"
	"math"
	"slices"
)

// Kind selects the encoding family of a descriptor.
type Kind uint8

const (
	// KindFixedPoint maps logical value x to stored code round((x+offset)*scale).
	KindFixedPoint Kind = iota + 1
	// KindDictionary maps logical values to indices into a distinct-value list.
	KindDictionary
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindFixedPoint:
		return "fixed_point"
	case KindDictionary:
		return "dictionary"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler. Kinds serialize by name so
// persisted descriptors stay readable and stable across versions.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindFixedPoint, KindDictionary:
		return []byte(k.String()), nil
	default:
		return nil, &ErrInvalidEncoding{Reason: fmt.Sprintf("unknown kind %d", k)}
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "fixed_point":
		*k = KindFixedPoint
	case "dictionary":
		*k = KindDictionary
	default:
		return &ErrInvalidEncoding{Reason: fmt.Sprintf("unknown kind %q", text)}
	}
	return nil
}

// Descriptor describes how stored codes map to logical values.
//
// A descriptor is attached to exactly one Array and must be treated as
// immutable once attached: re-encoding produces a new Array with a new
// descriptor rather than mutating in place. Compiled accessor code is
// specialized against these fields, which is why they participate in cache
// fingerprints.
//
// The JSON form is the persisted metadata record; loading it back
// reconstructs an identical descriptor.
type Descriptor struct {
	Kind Kind `json:"kind"`

	// Scale and Offset define the fixed-point mapping
	// logical = (stored / Scale) - Offset. Fixed point only.
	Scale  float64 `json:"scale,omitempty"`
	Offset float64 `json:"offset,omitempty"`

	// MissingValue, when set, reserves the minimum stored code as a sentinel
	// that round-trips to exactly this logical value.
	MissingValue *float64 `json:"missing_value,omitempty"`

	// Bitwidth is the stored integer width in bits: 8, 16 or 32.
	// Fixed-point codes are signed, dictionary indices unsigned.
	Bitwidth int `json:"bitwidth"`

	// Dictionary is the ordered distinct-value list for KindDictionary.
	// The stored code is the position in this list.
	Dictionary []float64 `json:"dictionary,omitempty"`
}

// Validate checks descriptor invariants. It returns *ErrInvalidEncoding on
// the first violation found.
func (d *Descriptor) Validate() error {
	switch d.Bitwidth {
	case 8, 16, 32:
	default:
		return &ErrInvalidEncoding{Reason: fmt.Sprintf("bitwidth must be 8, 16 or 32, got %d", d.Bitwidth)}
	}

	switch d.Kind {
	case KindFixedPoint:
		if d.Scale <= 0 || math.IsNaN(d.Scale) || math.IsInf(d.Scale, 0) {
			return &ErrInvalidEncoding{Reason: fmt.Sprintf("fixed-point scale must be a positive finite number, got %v", d.Scale)}
		}
		if len(d.Dictionary) != 0 {
			return &ErrInvalidEncoding{Reason: "fixed-point descriptor must not carry a dictionary"}
		}
	case KindDictionary:
		if capacity := dictCapacity(d.Bitwidth); len(d.Dictionary) > capacity {
			return &ErrInvalidEncoding{Reason: fmt.Sprintf("dictionary length %d exceeds capacity %d of bitwidth %d", len(d.Dictionary), capacity, d.Bitwidth)}
		}
	default:
		return &ErrInvalidEncoding{Reason: fmt.Sprintf("unknown kind %d", d.Kind)}
	}

	return nil
}

// Equal reports whether two descriptors describe the same stored-to-logical
// mapping. Missing values compare by bit pattern so NaN sentinels match.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Kind != other.Kind || d.Bitwidth != other.Bitwidth ||
		d.Scale != other.Scale || d.Offset != other.Offset {
		return false
	}
	if (d.MissingValue == nil) != (other.MissingValue == nil) {
		return false
	}
	if d.MissingValue != nil &&
		math.Float64bits(*d.MissingValue) != math.Float64bits(*other.MissingValue) {
		return false
	}
	return slices.Equal(d.Dictionary, other.Dictionary)
}

// clone returns a deep copy so attached descriptors never share state with
// caller-held specs.
func (d *Descriptor) clone() *Descriptor {
	c := *d
	if d.MissingValue != nil {
		mv := *d.MissingValue
		c.MissingValue = &mv
	}
	c.Dictionary = slices.Clone(d.Dictionary)
	return &c
}

// signedRange returns the representable stored range for a fixed-point
// descriptor. When a missing value is declared, the minimum code is reserved
// as the sentinel and excluded from the valid range.
func (d *Descriptor) signedRange() (lo, hi int64) {
	lo = -(int64(1) << (d.Bitwidth - 1))
	hi = (int64(1) << (d.Bitwidth - 1)) - 1
	if d.MissingValue != nil {
		lo++
	}
	return lo, hi
}

// sentinelCode is the reserved stored code for the missing value: the
// minimum value of the signed range.
func (d *Descriptor) sentinelCode() int64 {
	return -(int64(1) << (d.Bitwidth - 1))
}

func dictCapacity(bitwidth int) int {
	return 1 << bitwidth
}
