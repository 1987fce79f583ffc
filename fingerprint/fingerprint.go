// Package fingerprint derives cache keys for compiled accessors.
//
// Expression text alone is not enough: compiled accessors embed decode logic
// specialized to each input's storage representation. Two inputs with
// identical logical values but different encodings need different generated
// code, so the key must fold in representation detail. How much detail is
// controlled by a Level; a level that omits a field the compiled code
// specializes on is a silent-correctness hazard, since a stale accessor is
// reused instead of failing.
package fingerprint

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/skimgo/encoding"
)

// Level controls how much input-representation detail is folded into the
// key. Higher levels only ever add fields, never remove them.
type Level int

const (
	// LevelDType includes only each input's logical dtype name.
	LevelDType Level = 0
	// LevelKind additionally includes encoding kind and bitwidth.
	LevelKind Level = 1
	// LevelFull additionally includes scale, offset, missing value and a
	// hash of the dictionary contents. This captures every field compiled
	// code specializes on.
	LevelFull Level = 2
)

// Key is an opaque cache key.
type Key uint64

// String returns the hex form of the key, suitable as a map or group key.
func (k Key) String() string { return fmt.Sprintf("%016x", uint64(k)) }

// Compute derives the key for an expression set over its inputs.
//
// The result is deterministic and independent of map iteration order:
// expressions and inputs are canonicalized by sorting on name before
// hashing.
func Compute(exprs map[string]string, inputs map[string]*encoding.Array, level Level) Key {
	h := xxhash.New()

	// Each section is count-prefixed so the expression/input boundary cannot
	// shift: an entry moving from one section to the other always changes
	// the stream.
	writeUint64(h, uint64(len(exprs)))
	for _, name := range sortedKeys(exprs) {
		writeString(h, name)
		writeString(h, exprs[name])
	}

	writeUint64(h, uint64(len(inputs)))
	for _, name := range sortedKeys(inputs) {
		writeString(h, name)
		hashArray(h, inputs[name], level)
	}

	return Key(h.Sum64())
}

func hashArray(h *xxhash.Digest, a *encoding.Array, level Level) {
	writeString(h, a.LogicalDType().String())
	if level < LevelKind {
		return
	}

	desc := a.Descriptor()
	if desc == nil {
		writeString(h, "plain")
		return
	}
	writeString(h, desc.Kind.String())
	writeUint64(h, uint64(desc.Bitwidth))
	if level < LevelFull {
		return
	}

	writeUint64(h, math.Float64bits(desc.Scale))
	writeUint64(h, math.Float64bits(desc.Offset))
	if desc.MissingValue != nil {
		writeUint64(h, 1)
		writeUint64(h, math.Float64bits(*desc.MissingValue))
	} else {
		writeUint64(h, 0)
	}
	writeUint64(h, uint64(len(desc.Dictionary)))
	for _, v := range desc.Dictionary {
		writeUint64(h, math.Float64bits(v))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// writeString writes a length-prefixed string so adjacent fields cannot
// alias each other.
func writeString(h *xxhash.Digest, s string) {
	writeUint64(h, uint64(len(s)))
	_, _ = h.WriteString(s)
}

func writeUint64(h *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}
