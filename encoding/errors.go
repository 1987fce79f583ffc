package encoding

import "fmt"

// ErrInvalidEncoding indicates malformed descriptor or spec parameters,
// detected at construction time.
type ErrInvalidEncoding struct {
	Reason string
}

func (e *ErrInvalidEncoding) Error() string {
	return fmt.Sprintf("invalid encoding: %s", e.Reason)
}

// ErrEncodingRange indicates a logical value outside the representable
// fixed-point range. Values are never silently clamped beyond the spec's
// clamp tolerance.
type ErrEncodingRange struct {
	Value float64
	Min   float64
	Max   float64
}

func (e *ErrEncodingRange) Error() string {
	return fmt.Sprintf("value %v outside representable range [%v, %v]", e.Value, e.Min, e.Max)
}

// ErrDictionaryTooLarge indicates more distinct values than the declared
// bitwidth can index.
type ErrDictionaryTooLarge struct {
	Distinct int
	Capacity int
}

func (e *ErrDictionaryTooLarge) Error() string {
	return fmt.Sprintf("dictionary too large: %d distinct values exceed capacity %d", e.Distinct, e.Capacity)
}

// ErrIndexOutOfRange indicates a stored dictionary index beyond the
// dictionary length. This means corrupt storage, not a caller mistake.
type ErrIndexOutOfRange struct {
	Index int
	Size  int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("stored index %d out of range for dictionary of length %d", e.Index, e.Size)
}
