// bitpackedmap_test.go -- test suite for BitpackedMap

package entropymap

import "testing"

// TestBitpackedMapE2 covers a small worked example with known values.
func TestBitpackedMapE2(t *testing.T) {
	assert := newAsserter(t)

	keys := []uint64{1, 2, 3}
	values := [][]uint32{
		{1, 2, 3},
		{3, 5, 7},
		{1, 2, 3},
	}

	m, err := NewBitpackedMap(keys, values, Uint64KeyBytes)
	assert(err == nil, "bitpackedmap: construction failed: %s", err)

	for i, k := range keys {
		v, ok := m.Get(k)
		assert(ok, "bitpackedmap: get(%d): expected present", k)
		for j, want := range values[i] {
			assert(v[j] == want, "bitpackedmap: get(%d)[%d]: expected %d, got %d", k, j, want, v[j])
		}
	}

	_, ok := m.Get(4)
	assert(!ok, "bitpackedmap: get(4): expected absent")
}

func TestBitpackedMapMismatchedLengths(t *testing.T) {
	assert := newAsserter(t)

	_, err := NewBitpackedMap(
		[]uint64{1, 2},
		[][]uint32{{1, 2}, {1, 2, 3}},
		Uint64KeyBytes,
	)
	assert(err == ErrValuesLengthMismatch, "bitpackedmap: expected ErrValuesLengthMismatch, got %v", err)
}

func TestBitpackedMapDuplicateKey(t *testing.T) {
	assert := newAsserter(t)

	_, err := NewBitpackedMap(
		[]uint64{1, 2, 2},
		[][]uint32{{1, 2}, {3, 4}, {5, 6}},
		Uint64KeyBytes,
	)
	assert(err == ErrMaxLevelsExceeded, "bitpackedmap: expected ErrMaxLevelsExceeded on duplicate key, got %v", err)
}

func TestBitpackedMapFromMap(t *testing.T) {
	assert := newAsserter(t)

	src := map[uint64][]uint32{
		1: {1, 2, 3},
		2: {3, 5, 7},
		3: {1, 2, 3},
	}
	m, err := NewBitpackedMapFromMap(src, Uint64KeyBytes)
	assert(err == nil, "bitpackedmap: NewBitpackedMapFromMap failed: %s", err)
	assert(m.Len() == len(src), "bitpackedmap: expected len %d, got %d", len(src), m.Len())

	for k, want := range src {
		v, ok := m.Get(k)
		assert(ok, "bitpackedmap: get(%d): expected present", k)
		for j, w := range want {
			assert(v[j] == w, "bitpackedmap: get(%d)[%d]: expected %d, got %d", k, j, w, v[j])
		}
	}
}

func TestBitpackedMapValuesAndPairs(t *testing.T) {
	assert := newAsserter(t)

	keys := []uint64{1, 2, 3}
	values := [][]uint32{
		{1, 2, 3},
		{3, 5, 7},
		{1, 2, 3},
	}

	m, err := NewBitpackedMap(keys, values, Uint64KeyBytes)
	assert(err == nil, "bitpackedmap: construction failed: %s", err)

	want := make(map[uint64][]uint32, len(keys))
	for i, k := range keys {
		want[k] = values[i]
	}

	vs := m.Values()
	assert(len(vs) == len(keys), "bitpackedmap: expected %d values, got %d", len(keys), len(vs))

	pairs := m.Pairs()
	assert(len(pairs) == len(keys), "bitpackedmap: expected %d pairs, got %d", len(keys), len(pairs))
	for _, p := range pairs {
		wv := want[p.Key]
		for j, w := range wv {
			assert(p.Value[j] == w, "bitpackedmap: pairs: key %d[%d]: expected %d, got %d", p.Key, j, w, p.Value[j])
		}
	}
}

func TestBitpackedMapWideValues(t *testing.T) {
	assert := newAsserter(t)

	values := make([][]uint32, len(keyw))
	for i := range values {
		values[i] = []uint32{uint32(i), uint32(i * 37), 0xFFFFFFFF, 0}
	}

	m, err := NewBitpackedMap(keyw, values, StringKeyBytes)
	assert(err == nil, "bitpackedmap: construction failed: %s", err)

	out := make([]uint32, 4)
	for i, w := range keyw {
		ok := m.GetValues(w, out)
		assert(ok, "bitpackedmap: getValues(%q): expected present", w)
		for j, want := range values[i] {
			assert(out[j] == want, "bitpackedmap: get(%q)[%d]: expected %d, got %d", w, j, want, out[j])
		}
	}
}
