package persistence

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ZSTD encoder/decoder pools for efficiency.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compressBlock compresses data into a length-prefixed block. If compression
// does not pay off (ratio above 0.9) the block is stored uncompressed.
func compressBlock(data []byte, compression Compression) ([]byte, error) {
	var compressed []byte

	switch compression {
	case CompressionNone:
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		buf := make([]byte, bound)
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		compressed = enc.EncodeAll(data, nil)
	default:
		return nil, fmt.Errorf("unknown compression type %d", compression)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		block := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(block[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(block[4:], 0)
		copy(block[blockHeaderSize:], data)
		return block, nil
	}

	block := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(block[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(block[4:], uint32(len(compressed)))
	copy(block[blockHeaderSize:], compressed)
	return block, nil
}

// decompressBlock reverses compressBlock.
func decompressBlock(block []byte, compression Compression) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, ErrTruncatedRecord
	}

	uncompressedLen := binary.LittleEndian.Uint32(block[0:])
	compressedLen := binary.LittleEndian.Uint32(block[4:])

	if compressedLen == 0 {
		if uint32(len(block)) < blockHeaderSize+uncompressedLen {
			return nil, ErrTruncatedRecord
		}
		return block[blockHeaderSize : blockHeaderSize+uncompressedLen], nil
	}

	if uint32(len(block)) < blockHeaderSize+compressedLen {
		return nil, ErrTruncatedRecord
	}
	data := block[blockHeaderSize : blockHeaderSize+compressedLen]
	result := make([]byte, uncompressedLen)

	switch compression {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(data, result)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedLen {
			return nil, ErrTruncatedRecord
		}
		return result, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		decoded, err := dec.DecodeAll(data, result[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != uncompressedLen {
			return nil, ErrTruncatedRecord
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unknown compression type %d", compression)
	}
}
