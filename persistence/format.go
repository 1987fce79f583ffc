package persistence

import "errors"

const (
	// MagicNumber identifies skimgo array files (ASCII: "SKM1").
	MagicNumber = 0x534B4D31
	// Version is the current file format version.
	Version = 1
)

// Compression selects the data-section compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the buffer uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, lighter ratio).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

var (
	// ErrInvalidMagic is returned when a record does not start with MagicNumber.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidVersion is returned for a record written by an unknown format version.
	ErrInvalidVersion = errors.New("unsupported version")
	// ErrChecksum is returned when the payload checksum does not match the header.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrTruncatedRecord is returned when a record ends before its declared length.
	ErrTruncatedRecord = errors.New("truncated record")
)

// Record layout, all integers little-endian:
//
//	[Magic u32][Version u32][Compression u8][DType u8][Flags u8][NDim u8]
//	[Dim u32 x NDim]
//	[DescLen u32][Descriptor JSON]            (DescLen == 0 for plain arrays)
//	[Checksum u32]                            (CRC32-C of uncompressed payload)
//	[UncompressedLen u32][CompressedLen u32][Payload]
//
// CompressedLen == 0 means the payload is stored uncompressed. For plain
// arrays the payload is the float64 bit pattern of the logical values; for
// encoded arrays it is the stored code buffer.
const (
	headerSize      = 12
	blockHeaderSize = 8
)

const flagEncoded = 1
