package persistence

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"

	"github.com/hupe1980/skimgo/encoding"
)

// crc32cTable is pre-computed for the CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

type options struct {
	compression Compression
}

// Option configures Save behavior.
type Option func(*options)

// WithCompression selects the data-section compression. The default is
// ZSTD.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// Save writes the array as a self-describing record.
func Save(w io.Writer, arr *encoding.Array, optFns ...Option) error {
	opts := options{compression: CompressionZSTD}
	for _, fn := range optFns {
		fn(&opts)
	}

	shape := arr.Shape()
	if len(shape) > 255 {
		return fmt.Errorf("too many dimensions: %d", len(shape))
	}

	var flags uint8
	var descJSON []byte
	var payload []byte

	if arr.Encoded() {
		flags |= flagEncoded
		var err error
		descJSON, err = json.Marshal(arr.Descriptor())
		if err != nil {
			return fmt.Errorf("marshal descriptor: %w", err)
		}
		payload = arr.Stored()
	} else {
		values, err := arr.Decode()
		if err != nil {
			return err
		}
		payload = make([]byte, len(values)*8)
		for i, v := range values {
			binary.LittleEndian.PutUint64(payload[i*8:], math.Float64bits(v))
		}
	}

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:], MagicNumber)
	binary.LittleEndian.PutUint32(header[4:], Version)
	header[8] = byte(opts.compression)
	header[9] = byte(arr.LogicalDType())
	header[10] = flags
	header[11] = byte(len(shape))
	if _, err := w.Write(header); err != nil {
		return err
	}

	dims := make([]byte, 4*len(shape))
	for i, d := range shape {
		binary.LittleEndian.PutUint32(dims[i*4:], uint32(d))
	}
	if _, err := w.Write(dims); err != nil {
		return err
	}

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(descJSON)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if len(descJSON) > 0 {
		if _, err := w.Write(descJSON); err != nil {
			return err
		}
	}

	binary.LittleEndian.PutUint32(lenBuf[:], crc32.Checksum(payload, crc32cTable))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}

	block, err := compressBlock(payload, opts.compression)
	if err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

// Load reads a record written by Save and reconstructs the array, including
// a descriptor identical to the one saved.
func Load(r io.Reader) (*encoding.Array, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < headerSize {
		return nil, ErrTruncatedRecord
	}

	if binary.LittleEndian.Uint32(data[0:]) != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(data[4:]) != Version {
		return nil, ErrInvalidVersion
	}
	compression := Compression(data[8])
	dtype := encoding.DType(data[9])
	flags := data[10]
	ndim := int(data[11])

	off := headerSize
	if len(data) < off+4*ndim+4 {
		return nil, ErrTruncatedRecord
	}
	shape := make([]int, ndim)
	for i := range shape {
		shape[i] = int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}

	descLen := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	if len(data) < off+descLen+4 {
		return nil, ErrTruncatedRecord
	}
	descJSON := data[off : off+descLen]
	off += descLen

	checksum := binary.LittleEndian.Uint32(data[off:])
	off += 4

	payload, err := decompressBlock(data[off:], compression)
	if err != nil {
		return nil, err
	}
	if crc32.Checksum(payload, crc32cTable) != checksum {
		return nil, ErrChecksum
	}

	if flags&flagEncoded != 0 {
		var desc encoding.Descriptor
		if err := json.Unmarshal(descJSON, &desc); err != nil {
			return nil, fmt.Errorf("unmarshal descriptor: %w", err)
		}
		arr, err := encoding.NewEncodedArray(payload, &desc, shape...)
		if err != nil {
			return nil, err
		}
		return arr.WithDType(dtype), nil
	}

	if len(payload)%8 != 0 {
		return nil, ErrTruncatedRecord
	}
	values := make([]float64, len(payload)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8:]))
	}
	arr, err := encoding.NewArray(values, shape...)
	if err != nil {
		return nil, err
	}
	return arr.WithDType(dtype), nil
}

// SaveFile writes the array to a file, creating or truncating it.
func SaveFile(path string, arr *encoding.Array, optFns ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, arr, optFns...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads an array record from a file.
func LoadFile(path string) (*encoding.Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
