package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/skimgo/encoding"
)

func mustArray(t *testing.T, values []float64) *encoding.Array {
	t.Helper()
	arr, err := encoding.NewArray(values)
	require.NoError(t, err)
	return arr
}

func mustEncode(t *testing.T, values []float64, spec encoding.Spec) *encoding.Array {
	t.Helper()
	arr, err := encoding.Encode(mustArray(t, values), spec)
	require.NoError(t, err)
	return arr
}

func TestComputeDeterministic(t *testing.T) {
	exprs := map[string]string{"out": "a + b"}
	inputs := map[string]*encoding.Array{
		"a": mustArray(t, []float64{1, 2}),
		"b": mustArray(t, []float64{3, 4}),
	}

	k1 := Compute(exprs, inputs, LevelFull)
	k2 := Compute(exprs, inputs, LevelFull)
	assert.Equal(t, k1, k2)
	assert.NotEmpty(t, k1.String())
}

func TestComputeCanonicalOrder(t *testing.T) {
	// Two maps with the same content hash identically regardless of
	// insertion order; exercised across many runs since map iteration order
	// varies per run.
	a := mustArray(t, []float64{1})
	b := mustArray(t, []float64{2})

	exprs1 := map[string]string{"x": "a", "y": "b"}
	exprs2 := map[string]string{"y": "b", "x": "a"}

	for i := 0; i < 32; i++ {
		k1 := Compute(exprs1, map[string]*encoding.Array{"a": a, "b": b}, LevelFull)
		k2 := Compute(exprs2, map[string]*encoding.Array{"b": b, "a": a}, LevelFull)
		assert.Equal(t, k1, k2)
	}
}

func TestComputeExpressionTextMatters(t *testing.T) {
	inputs := map[string]*encoding.Array{"a": mustArray(t, []float64{1})}

	k1 := Compute(map[string]string{"out": "a * 2"}, inputs, LevelDType)
	k2 := Compute(map[string]string{"out": "a * 3"}, inputs, LevelDType)
	assert.NotEqual(t, k1, k2)

	// Same text under a different name is a different expression set.
	k3 := Compute(map[string]string{"other": "a * 2"}, inputs, LevelDType)
	assert.NotEqual(t, k1, k3)
}

func TestComputeSectionBoundary(t *testing.T) {
	// An entry must never be readable as belonging to the other section: an
	// expression named "z" with text "float64" and an input named "z" whose
	// dtype hashes as "float64" would otherwise produce identical streams.
	for _, level := range []Level{LevelDType, LevelKind, LevelFull} {
		k1 := Compute(map[string]string{"a": "1", "z": "float64"}, nil, level)
		k2 := Compute(map[string]string{"a": "1"}, map[string]*encoding.Array{
			"z": mustArray(t, []float64{1}),
		}, level)
		assert.NotEqual(t, k1, k2, "level %d", level)
	}
}

func TestComputeLevels(t *testing.T) {
	exprs := map[string]string{"out": "a"}
	values := []float64{1.5, 2.5}

	coarse := mustEncode(t, values, encoding.Spec{Kind: encoding.KindFixedPoint, Scale: 10, Bitwidth: 16})
	fine := mustEncode(t, values, encoding.Spec{Kind: encoding.KindFixedPoint, Scale: 100, Bitwidth: 16})
	wide := mustEncode(t, values, encoding.Spec{Kind: encoding.KindFixedPoint, Scale: 10, Bitwidth: 32})

	in := func(a *encoding.Array) map[string]*encoding.Array {
		return map[string]*encoding.Array{"a": a}
	}

	// Scale differs: invisible below LevelFull. This is the designed
	// limitation of low levels, not a bug.
	assert.Equal(t, Compute(exprs, in(coarse), LevelDType), Compute(exprs, in(fine), LevelDType))
	assert.Equal(t, Compute(exprs, in(coarse), LevelKind), Compute(exprs, in(fine), LevelKind))
	assert.NotEqual(t, Compute(exprs, in(coarse), LevelFull), Compute(exprs, in(fine), LevelFull))

	// Bitwidth differs: visible from LevelKind up.
	assert.Equal(t, Compute(exprs, in(coarse), LevelDType), Compute(exprs, in(wide), LevelDType))
	assert.NotEqual(t, Compute(exprs, in(coarse), LevelKind), Compute(exprs, in(wide), LevelKind))
	assert.NotEqual(t, Compute(exprs, in(coarse), LevelFull), Compute(exprs, in(wide), LevelFull))
}

func TestComputePlainVersusEncoded(t *testing.T) {
	exprs := map[string]string{"out": "a"}
	plain := mustArray(t, []float64{1.5, 2.5})
	enc := mustEncode(t, []float64{1.5, 2.5}, encoding.Spec{Kind: encoding.KindFixedPoint, Scale: 10, Bitwidth: 16})

	// Same logical dtype, so level 0 cannot tell them apart. That is the
	// documented staleness hazard.
	assert.Equal(t,
		Compute(exprs, map[string]*encoding.Array{"a": plain}, LevelDType),
		Compute(exprs, map[string]*encoding.Array{"a": enc}, LevelDType))

	assert.NotEqual(t,
		Compute(exprs, map[string]*encoding.Array{"a": plain}, LevelKind),
		Compute(exprs, map[string]*encoding.Array{"a": enc}, LevelKind))
}

func TestComputeDictionaryContents(t *testing.T) {
	exprs := map[string]string{"out": "a"}

	d1 := mustEncode(t, []float64{1, 2, 1}, encoding.Spec{Kind: encoding.KindDictionary, Bitwidth: 8})
	d2 := mustEncode(t, []float64{3, 4, 3}, encoding.Spec{Kind: encoding.KindDictionary, Bitwidth: 8})

	// Identical kind and bitwidth, different dictionary contents.
	assert.Equal(t,
		Compute(exprs, map[string]*encoding.Array{"a": d1}, LevelKind),
		Compute(exprs, map[string]*encoding.Array{"a": d2}, LevelKind))
	assert.NotEqual(t,
		Compute(exprs, map[string]*encoding.Array{"a": d1}, LevelFull),
		Compute(exprs, map[string]*encoding.Array{"a": d2}, LevelFull))
}

func TestComputeMissingValue(t *testing.T) {
	exprs := map[string]string{"out": "a"}
	missing := -999.0

	with := mustEncode(t, []float64{1}, encoding.Spec{Kind: encoding.KindFixedPoint, Scale: 10, Bitwidth: 16, MissingValue: &missing})
	without := mustEncode(t, []float64{1}, encoding.Spec{Kind: encoding.KindFixedPoint, Scale: 10, Bitwidth: 16})

	assert.Equal(t,
		Compute(exprs, map[string]*encoding.Array{"a": with}, LevelKind),
		Compute(exprs, map[string]*encoding.Array{"a": without}, LevelKind))
	assert.NotEqual(t,
		Compute(exprs, map[string]*encoding.Array{"a": with}, LevelFull),
		Compute(exprs, map[string]*encoding.Array{"a": without}, LevelFull))
}

func TestComputeFloat32DTypeVisibleAtLevelZero(t *testing.T) {
	exprs := map[string]string{"out": "a"}

	f64 := mustArray(t, []float64{1})
	f32arr, err := encoding.NewFloat32Array([]float32{1})
	require.NoError(t, err)

	assert.NotEqual(t,
		Compute(exprs, map[string]*encoding.Array{"a": f64}, LevelDType),
		Compute(exprs, map[string]*encoding.Array{"a": f32arr}, LevelDType))
}
