package encoding

import "math"

// EncodeDictionary encodes logical values as unsigned indices into the list
// of distinct values, in first-occurrence order. It fails with
// *ErrDictionaryTooLarge when the distinct-value count exceeds 2^bitwidth.
//
// Distinct values compare by bit pattern, so NaN occupies a single
// dictionary slot instead of one per occurrence.
func EncodeDictionary(values []float64, bitwidth int) ([]byte, *Descriptor, error) {
	desc := &Descriptor{Kind: KindDictionary, Bitwidth: bitwidth}
	if err := desc.Validate(); err != nil {
		return nil, nil, err
	}

	capacity := dictCapacity(bitwidth)
	index := make(map[uint64]uint64, min(len(values), capacity))
	stored := make([]byte, len(values)*elemSize(bitwidth))

	for i, x := range values {
		bits := math.Float64bits(x)
		idx, ok := index[bits]
		if !ok {
			if len(desc.Dictionary) == capacity {
				return nil, nil, &ErrDictionaryTooLarge{Distinct: len(desc.Dictionary) + 1, Capacity: capacity}
			}
			idx = uint64(len(desc.Dictionary))
			index[bits] = idx
			desc.Dictionary = append(desc.Dictionary, x)
		}
		putUnsigned(stored, i, bitwidth, idx)
	}

	return stored, desc, nil
}

// DecodeDictionary decodes stored indices back to logical values. A stored
// index at or beyond the dictionary length fails with *ErrIndexOutOfRange:
// it indicates corrupt storage, not a caller mistake.
func DecodeDictionary(stored []byte, desc *Descriptor) ([]float64, error) {
	n := len(stored) / elemSize(desc.Bitwidth)
	values := make([]float64, n)

	for i := 0; i < n; i++ {
		idx := getUnsigned(stored, i, desc.Bitwidth)
		if idx >= uint64(len(desc.Dictionary)) {
			return nil, &ErrIndexOutOfRange{Index: int(idx), Size: len(desc.Dictionary)}
		}
		values[i] = desc.Dictionary[idx]
	}

	return values, nil
}
