// set.go -- immutable set backed by an MPHF
//
// Grounded on original_source/src/map_with_dict.rs's MapWithDict skeleton
// with the value type erased: a Set only needs the keys array and the
// membership check it provides.

package entropymap

// Set is an immutable collection of distinct keys supporting O(1)
// membership testing via an MPHF.
type Set[K comparable] struct {
	base baseContainer[K]
}

// NewSet builds a Set from keys using the given key-to-bytes encoder and
// options. keys must not contain duplicates under encode/hasher identity;
// a duplicate key makes every level of the underlying MPHF see the same
// collision and construction fails with ErrMaxLevelsExceeded. Callers
// building from a native Go map, which already guarantees unique keys,
// should use NewSetFromMap instead.
func NewSet[K comparable](keys []K, encode keyEncoder[K], copts ...ContainerOption) (*Set[K], error) {
	cfg := newContainerConfig(copts)

	ks := append([]K(nil), keys...)
	mphf, err := buildMPHFFromKeys(ks, encode, cfg)
	if err != nil {
		return nil, err
	}

	cycleSortPermute(ks, mphf, cfg.hasher, encode, func(i, j int) {})

	return &Set[K]{
		base: baseContainer[K]{
			mphf:   mphf,
			keys:   ks,
			hasher: cfg.hasher,
			encode: encode,
		},
	}, nil
}

// Contains reports whether k was part of the set at construction time.
func (s *Set[K]) Contains(k K) bool {
	_, ok := s.base.find(k)
	return ok
}

// Len returns the number of keys in the set.
func (s *Set[K]) Len() int { return s.base.Len() }

// IsEmpty reports whether the set holds no keys.
func (s *Set[K]) IsEmpty() bool { return s.base.IsEmpty() }

// Keys returns every key in the set, in MPHF order.
func (s *Set[K]) Keys() []K { return s.base.Keys() }

// Size returns the approximate total heap footprint of the set in bytes.
func (s *Set[K]) Size() int { return s.base.size() }

// NewSetFromMap builds a Set from the keys of m, using XXH3Hasher and the
// default MPHF parameters (gamma 2.0, B 32, S 8). Since a Go map already
// holds unique keys, this sidesteps NewSet's duplicate-key restriction.
func NewSetFromMap[K comparable, V any](m map[K]V, encode keyEncoder[K]) (*Set[K], error) {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return NewSet(keys, encode)
}
