// map.go -- immutable dictionary-packed map backed by an MPHF
//
// Grounded on original_source/src/map_with_dict.rs's MapWithDict: distinct
// values are deduplicated into values_dict at construction time and every
// key's values_index entry points at its value's dictionary offset.

package entropymap

// Map is an immutable key-value map whose distinct values are stored once
// in a dictionary; many keys may share the same values_dict entry.
type Map[K comparable, V comparable] struct {
	base        baseContainer[K]
	valuesIndex []int
	valuesDict  []V
}

// NewMap builds a Map from parallel keys/values slices (keys[i] maps to
// values[i]). keys must not contain duplicates under encode/hasher
// identity; a duplicate key makes every level of the underlying MPHF see
// the same collision and construction fails with ErrMaxLevelsExceeded.
// Callers building from a native Go map, which already guarantees unique
// keys, should use NewMapFromMap instead.
func NewMap[K comparable, V comparable](keys []K, values []V, encode keyEncoder[K], copts ...ContainerOption) (*Map[K, V], error) {
	if len(keys) != len(values) {
		return nil, ErrValuesLengthMismatch
	}
	cfg := newContainerConfig(copts)

	ks := append([]K(nil), keys...)
	valuesIndex := make([]int, len(keys))
	var valuesDict []V
	offsets := make(map[V]int, len(keys))

	for i, v := range values {
		if off, ok := offsets[v]; ok {
			valuesIndex[i] = off
			continue
		}
		off := len(valuesDict)
		offsets[v] = off
		valuesDict = append(valuesDict, v)
		valuesIndex[i] = off
	}

	mphf, err := buildMPHFFromKeys(ks, encode, cfg)
	if err != nil {
		return nil, err
	}

	cycleSortPermute(ks, mphf, cfg.hasher, encode, func(i, j int) {
		valuesIndex[i], valuesIndex[j] = valuesIndex[j], valuesIndex[i]
	})

	return &Map[K, V]{
		base: baseContainer[K]{
			mphf:   mphf,
			keys:   ks,
			hasher: cfg.hasher,
			encode: encode,
		},
		valuesIndex: valuesIndex,
		valuesDict:  valuesDict,
	}, nil
}

// Get returns the value associated with k and whether k was present.
func (m *Map[K, V]) Get(k K) (V, bool) {
	idx, ok := m.base.find(k)
	if !ok {
		var zero V
		return zero, false
	}
	return m.valuesDict[m.valuesIndex[idx]], true
}

// ContainsKey reports whether k was part of the map at construction time.
func (m *Map[K, V]) ContainsKey(k K) bool {
	_, ok := m.base.find(k)
	return ok
}

// Len returns the number of key-value pairs in the map.
func (m *Map[K, V]) Len() int { return m.base.Len() }

// IsEmpty reports whether the map holds no pairs.
func (m *Map[K, V]) IsEmpty() bool { return m.base.IsEmpty() }

// Keys returns every key in the map, in MPHF order.
func (m *Map[K, V]) Keys() []K { return m.base.Keys() }

// Values returns every value in the map, in MPHF (key) order, with
// duplicates repeated once per key that maps to them.
func (m *Map[K, V]) Values() []V {
	out := make([]V, len(m.valuesIndex))
	for i, off := range m.valuesIndex {
		out[i] = m.valuesDict[off]
	}
	return out
}

// NumDistinctValues returns the number of distinct values in the
// dictionary (u in the invariant values_dict[0..u]).
func (m *Map[K, V]) NumDistinctValues() int { return len(m.valuesDict) }

// Pair is one key-value entry as returned by Map.Pairs.
type Pair[K comparable, V comparable] struct {
	Key   K
	Value V
}

// Pairs returns every key-value pair in the map, in MPHF (key) order.
func (m *Map[K, V]) Pairs() []Pair[K, V] {
	out := make([]Pair[K, V], len(m.base.keys))
	for i, k := range m.base.keys {
		out[i] = Pair[K, V]{Key: k, Value: m.valuesDict[m.valuesIndex[i]]}
	}
	return out
}

// Size returns the approximate total heap footprint of the map in bytes.
func (m *Map[K, V]) Size() int {
	var zeroV V
	return m.base.size() + len(m.valuesIndex)*8 + len(m.valuesDict)*approxSizeOf(zeroV)
}

// NewMapFromMap builds a Map from m directly, using XXH3Hasher and the
// default MPHF parameters (gamma 2.0, B 32, S 8). Since a Go map already
// holds unique keys, this sidesteps NewMap's duplicate-key restriction.
func NewMapFromMap[K comparable, V comparable](m map[K]V, encode keyEncoder[K]) (*Map[K, V], error) {
	keys := make([]K, 0, len(m))
	values := make([]V, 0, len(m))
	for k, v := range m {
		keys = append(keys, k)
		values = append(values, v)
	}
	return NewMap(keys, values, encode)
}
