// Package persistence reads and writes encoded arrays with their
// descriptors.
//
// The on-disk record is self-describing: a fixed binary header carries the
// shape, logical dtype and compression type, a JSON section carries the
// encoding descriptor, and the data section holds the stored buffer in a
// single compressed block. Loading a record reconstructs a descriptor
// identical to the one that was saved, so previously encoded data decodes
// without re-deriving any encoding parameters.
//
// Payload compression is orthogonal to digital encoding: the codec trades
// declared precision for width, the compressed block just shrinks the bytes
// on disk losslessly.
package persistence
