// container.go -- shared skeleton for Set, Map, and BitpackedMap
//
// Grounded on original_source/src/map_with_dict.rs's MapWithDict: every
// container collects keys (and a values representation) in input order,
// builds an MPHF over the hashed keys, then cycle-sorts the parallel
// arrays in place so keys[mphf.get(k)] == k. That permutation step and the
// key-identity check on lookup (the false-positive guard) are shared here;
// each container only supplies its own values representation.

package entropymap

import "unsafe"

// baseContainer holds the pieces every container needs to turn a typed key
// into an MPHF index and verify it actually belongs to the key set.
type baseContainer[K comparable] struct {
	mphf   *MPHF
	keys   []K
	hasher Hasher
	encode keyEncoder[K]
}

// find returns the MPHF-assigned index for k, rejecting false positives by
// comparing the stored key.
func (c *baseContainer[K]) find(k K) (uint64, bool) {
	h := c.hasher.Sum64(c.encode(k))
	idx, ok := c.mphf.Get(h)
	if !ok {
		return 0, false
	}
	if c.keys[idx] != k {
		return 0, false
	}
	return idx, true
}

// Len returns the number of keys in the container.
func (c *baseContainer[K]) Len() int { return len(c.keys) }

// IsEmpty reports whether the container holds no keys.
func (c *baseContainer[K]) IsEmpty() bool { return len(c.keys) == 0 }

// Keys returns the container's keys, in MPHF (not insertion) order.
func (c *baseContainer[K]) Keys() []K { return c.keys }

// size approximates the heap footprint contributed by the MPHF and the
// stored keys. Key size is approximated via unsafe.Sizeof on the zero
// value, which undercounts keys holding their own heap data (e.g. strings,
// slices) but is exact for fixed-size keys (uint64, int64, fixed arrays).
func (c *baseContainer[K]) size() int {
	var zero K
	return c.mphf.Size() + len(c.keys)*int(unsafe.Sizeof(zero))
}

// approxSizeOf approximates a single value's heap footprint the same way
// baseContainer.size does for keys; see its doc comment for the caveat.
func approxSizeOf[V any](v V) int {
	return int(unsafe.Sizeof(v))
}

// containerConfig holds the hasher and MPHF builder options a container
// constructor accepts.
type containerConfig struct {
	hasher Hasher
	opts   []BuilderOption
}

// ContainerOption configures a container's hasher and/or MPHF parameters
// at construction time.
type ContainerOption func(*containerConfig)

// WithHasher overrides the default Hasher (XXH3Hasher) used to turn keys
// into MPHF fingerprints.
func WithHasher(h Hasher) ContainerOption {
	return func(c *containerConfig) { c.hasher = h }
}

// WithMPHFOptions forwards Builder options (WithB, WithS, WithGamma,
// WithSeedWidth) to the underlying MPHF construction.
func WithMPHFOptions(opts ...BuilderOption) ContainerOption {
	return func(c *containerConfig) { c.opts = append(c.opts, opts...) }
}

func newContainerConfig(copts []ContainerOption) *containerConfig {
	cfg := &containerConfig{hasher: DefaultHasher}
	for _, o := range copts {
		o(cfg)
	}
	return cfg
}

// buildMPHFFromKeys hashes every key with cfg's hasher and freezes an MPHF
// over the resulting fingerprints.
func buildMPHFFromKeys[K comparable](keys []K, encode keyEncoder[K], cfg *containerConfig) (*MPHF, error) {
	b, err := NewBuilder(cfg.opts...)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		b.Add(cfg.hasher.Sum64(encode(k)))
	}
	return b.Freeze()
}

// cycleSortPermute reorders keys (and, via swap, any parallel arrays) in
// place so that mphf.get(hash(keys[i])) == i for every i. Each cycle
// of the permutation is walked exactly once; total swaps are O(n).
func cycleSortPermute[K comparable](keys []K, mphf *MPHF, hasher Hasher, encode keyEncoder[K], swap func(i, j int)) {
	for i := range keys {
		for {
			h := hasher.Sum64(encode(keys[i]))
			j, _ := mphf.Get(h)
			if int(j) == i {
				break
			}
			keys[i], keys[int(j)] = keys[int(j)], keys[i]
			swap(i, int(j))
		}
	}
}
