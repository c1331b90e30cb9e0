// bitpackedmap.go -- immutable map of fixed-length u32 vectors, bit-packed
//
// Grounded on original_source/src/map_with_dict_bitpacked.rs's
// MapWithDictBitpacked: every value vector must share the same length;
// distinct vectors are deduplicated and bit-packed (pack.go) into a single
// byte dictionary, with values_index pointing at each vector's byte
// offset rather than an element offset.

package entropymap

// BitpackedMap is an immutable key-value map whose values are fixed-length
// vectors of non-negative integers no wider than 32 bits, stored bit-packed
// to their minimum width.
type BitpackedMap[K comparable] struct {
	base        baseContainer[K]
	valuesIndex []int
	valuesDict  []byte
	valueLen    int
}

// NewBitpackedMap builds a BitpackedMap from parallel keys/values slices.
// Every entry in values must have the same length; a mismatch returns
// ErrValuesLengthMismatch. keys must not contain duplicates under
// encode/hasher identity; a duplicate key makes every level of the
// underlying MPHF see the same collision and construction fails with
// ErrMaxLevelsExceeded. Callers building from a native Go map, which
// already guarantees unique keys, should use NewBitpackedMapFromMap
// instead.
func NewBitpackedMap[K comparable](keys []K, values [][]uint32, encode keyEncoder[K], copts ...ContainerOption) (*BitpackedMap[K], error) {
	if len(keys) != len(values) {
		return nil, ErrValuesLengthMismatch
	}

	valueLen := 0
	if len(values) > 0 {
		valueLen = len(values[0])
	}
	for _, v := range values {
		if len(v) != valueLen {
			return nil, ErrValuesLengthMismatch
		}
	}

	cfg := newContainerConfig(copts)

	ks := append([]K(nil), keys...)
	valuesIndex := make([]int, len(keys))
	var valuesDict []byte

	offsets := make(map[string]int, len(keys))
	for i, v := range values {
		cacheKey := string(packedCacheKey(v))
		if off, ok := offsets[cacheKey]; ok {
			valuesIndex[i] = off
			continue
		}
		off := len(valuesDict)
		offsets[cacheKey] = off
		valuesIndex[i] = off
		valuesDict = appendPackedValues(valuesDict, v)
	}
	valuesDict = append(valuesDict, make([]byte, packTailPadding)...)

	mphf, err := buildMPHFFromKeys(ks, encode, cfg)
	if err != nil {
		return nil, err
	}

	cycleSortPermute(ks, mphf, cfg.hasher, encode, func(i, j int) {
		valuesIndex[i], valuesIndex[j] = valuesIndex[j], valuesIndex[i]
	})

	return &BitpackedMap[K]{
		base: baseContainer[K]{
			mphf:   mphf,
			keys:   ks,
			hasher: cfg.hasher,
			encode: encode,
		},
		valuesIndex: valuesIndex,
		valuesDict:  valuesDict,
		valueLen:    valueLen,
	}, nil
}

// packedCacheKey turns a value vector into a byte string suitable for
// deduplication; it need only be injective, not compact.
func packedCacheKey(v []uint32) []byte {
	b := make([]byte, 4*len(v))
	for i, x := range v {
		b[4*i] = byte(x)
		b[4*i+1] = byte(x >> 8)
		b[4*i+2] = byte(x >> 16)
		b[4*i+3] = byte(x >> 24)
	}
	return b
}

// GetValues decodes the value vector for k into out, which must have
// length equal to the map's value length, and reports whether k was
// present.
func (m *BitpackedMap[K]) GetValues(k K, out []uint32) bool {
	idx, ok := m.base.find(k)
	if !ok {
		return false
	}
	off := m.valuesIndex[idx]
	unpackValues(m.valuesDict[off:], out)
	return true
}

// Get decodes and returns a fresh value vector for k.
func (m *BitpackedMap[K]) Get(k K) ([]uint32, bool) {
	out := make([]uint32, m.valueLen)
	if !m.GetValues(k, out) {
		return nil, false
	}
	return out, true
}

// ContainsKey reports whether k was part of the map at construction time.
func (m *BitpackedMap[K]) ContainsKey(k K) bool {
	_, ok := m.base.find(k)
	return ok
}

// Len returns the number of key-value pairs in the map.
func (m *BitpackedMap[K]) Len() int { return m.base.Len() }

// IsEmpty reports whether the map holds no pairs.
func (m *BitpackedMap[K]) IsEmpty() bool { return m.base.IsEmpty() }

// Keys returns every key in the map, in MPHF order.
func (m *BitpackedMap[K]) Keys() []K { return m.base.Keys() }

// ValueLen returns the fixed length of every value vector in the map.
func (m *BitpackedMap[K]) ValueLen() int { return m.valueLen }

// Values returns every value vector in the map, in MPHF (key) order, each
// freshly decoded.
func (m *BitpackedMap[K]) Values() [][]uint32 {
	out := make([][]uint32, len(m.valuesIndex))
	for i, off := range m.valuesIndex {
		v := make([]uint32, m.valueLen)
		unpackValues(m.valuesDict[off:], v)
		out[i] = v
	}
	return out
}

// BitpackedPair is one key-value entry as returned by BitpackedMap.Pairs.
type BitpackedPair[K comparable] struct {
	Key   K
	Value []uint32
}

// Pairs returns every key-value pair in the map, in MPHF (key) order, each
// value freshly decoded.
func (m *BitpackedMap[K]) Pairs() []BitpackedPair[K] {
	out := make([]BitpackedPair[K], len(m.base.keys))
	for i, k := range m.base.keys {
		v := make([]uint32, m.valueLen)
		unpackValues(m.valuesDict[m.valuesIndex[i]:], v)
		out[i] = BitpackedPair[K]{Key: k, Value: v}
	}
	return out
}

// Size returns the approximate total heap footprint of the map in bytes.
func (m *BitpackedMap[K]) Size() int {
	return m.base.size() + len(m.valuesIndex)*8 + len(m.valuesDict)
}

// NewBitpackedMapFromMap builds a BitpackedMap from m directly, using
// XXH3Hasher and the default MPHF parameters (gamma 2.0, B 32, S 8).
// Since a Go map already holds unique keys, this sidesteps
// NewBitpackedMap's duplicate-key restriction.
func NewBitpackedMapFromMap[K comparable](m map[K][]uint32, encode keyEncoder[K]) (*BitpackedMap[K], error) {
	keys := make([]K, 0, len(m))
	values := make([][]uint32, 0, len(m))
	for k, v := range m {
		keys = append(keys, k)
		values = append(values, v)
	}
	return NewBitpackedMap(keys, values, encode)
}
