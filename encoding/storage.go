package encoding

import "encoding/binary"

// Stored buffers are flat little-endian integer arrays. The element width is
// bitwidth/8 bytes; fixed-point codes are signed, dictionary indices
// unsigned. Keeping storage as []byte matches how buffers travel to and from
// persistence without per-width slice types.

func elemSize(bitwidth int) int {
	return bitwidth / 8
}

func putSigned(buf []byte, i, bitwidth int, v int64) {
	switch bitwidth {
	case 8:
		buf[i] = byte(int8(v))
	case 16:
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(v)))
	case 32:
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(int32(v)))
	}
}

func getSigned(buf []byte, i, bitwidth int) int64 {
	switch bitwidth {
	case 8:
		return int64(int8(buf[i]))
	case 16:
		return int64(int16(binary.LittleEndian.Uint16(buf[i*2:])))
	case 32:
		return int64(int32(binary.LittleEndian.Uint32(buf[i*4:])))
	}
	return 0
}

func putUnsigned(buf []byte, i, bitwidth int, v uint64) {
	switch bitwidth {
	case 8:
		buf[i] = byte(v)
	case 16:
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	case 32:
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
}

func getUnsigned(buf []byte, i, bitwidth int) uint64 {
	switch bitwidth {
	case 8:
		return uint64(buf[i])
	case 16:
		return uint64(binary.LittleEndian.Uint16(buf[i*2:]))
	case 32:
		return uint64(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return 0
}
