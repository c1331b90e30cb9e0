// mphf.go -- fingerprinting minimal perfect hash function
//
// A single fingerprinting MPHF: each level tries every seed in [0, 2^S)
// over a shared group of keys, keeps the seed that resolves the most
// collisions, and peels off resolved keys before moving to the next
// level. The level-peeling skeleton and the single-threaded Builder/Freeze
// split follow the classic preprocess/assign/nextLevel three-step shape
// used by level-peeling perfect hash builders generally. This
// implementation is not concurrentized: gamma-based over-allocation and
// small S already keep construction fast, and a 3-bit-plane working set
// per level does not shard cleanly across goroutines.

package entropymap

import (
	"math"
	"math/bits"
)

const (
	// maxLevels bounds level-peeling retries; exceeding it signals a
	// pathological hasher/gamma/B/S combination rather than bad luck.
	maxLevels = 32

	defaultB     = 32
	defaultS     = 8
	defaultGamma = 2.0
)

// mix64 is the level-hash mixer: (x * 0x5851F42D4C957F2D) folded from 128
// bits to 64 by XOR-ing the high and low halves.
func mix64(x uint64) uint64 {
	hi, lo := bits.Mul64(x, 0x5851F42D4C957F2D)
	return hi ^ lo
}

// levelHash derives a fresh 64-bit value for (hKey, level).
func levelHash(hKey uint64, level uint32) uint64 {
	return mix64(hKey ^ uint64(level))
}

// fastmod32 maps x uniformly onto [0, n) without a division.
func fastmod32(x uint32, n uint32) uint32 {
	return uint32((uint64(x) * uint64(n)) >> 32)
}

// bitIndex computes the candidate bit position for a key within its group,
// given the level hash, the group's seed, and the group's index (local to
// a level during construction, global across all levels during query).
func bitIndex(lh uint64, groupSeed uint32, groupIdx uint64, b uint) uint64 {
	x := uint32(lh) ^ groupSeed
	x ^= x >> 16
	x *= 0x85EBCA6B
	x ^= x >> 13
	x *= 0xC2B2AE35
	x ^= x >> 16
	return groupIdx*uint64(b) + uint64(fastmod32(x, uint32(b)))
}

// levelSize computes the group count and segment (u64 word) count for a
// level with m remaining keys; the level's bit-vector size is
// groups*b == segments*64 bits.
func levelSize(m int, gamma float64, b uint) (groups, segments uint64) {
	raw := uint64(math.Ceil(float64(m) * gamma))
	step := lcm(64, uint64(b))
	adjusted := roundUpToMultiple(raw, step)
	if adjusted == 0 {
		adjusted = step
	}
	return adjusted / uint64(b), adjusted / 64
}

// MPHF is a frozen minimal perfect hash function over a fixed key set,
// keyed by 64-bit fingerprints already produced by a Hasher.
type MPHF struct {
	ranked      *rankedBits
	levelGroups []uint32
	groupSeeds  seeder
	b           uint
	s           uint
	gamma       float64
	n           int
}

// Len returns the number of keys the MPHF was built over.
func (m *MPHF) Len() int { return m.n }

// Get returns the unique index in [0, Len()) assigned to hKey if hKey was
// part of the original key set; the second value reports whether a bit
// was found set along the probe path. A true result for a key outside the
// original set is possible (a false positive); callers must verify key
// identity at the returned index.
func (m *MPHF) Get(hKey uint64) (uint64, bool) {
	var groupsBefore uint64
	for level, groups := range m.levelGroups {
		lh := levelHash(hKey, uint32(level))
		g := groupsBefore + uint64(fastmod32(uint32(lh), groups))
		seed := m.groupSeeds.seed(g)
		i := bitIndex(lh, seed, g, m.b)
		if rank, ok := m.ranked.rankIfSet(i); ok {
			return rank, true
		}
		groupsBefore += uint64(groups)
	}
	return 0, false
}

// Size returns the total heap footprint of the MPHF in bytes.
func (m *MPHF) Size() int {
	sz := m.ranked.size()
	sz += len(m.levelGroups) * 4
	sz += m.groupSeeds.length() * int(m.groupSeeds.seedsize())
	return sz
}

// NumLevels returns the number of fingerprinting levels used.
func (m *MPHF) NumLevels() int { return len(m.levelGroups) }

// Builder accumulates 64-bit key fingerprints and freezes them into an
// MPHF. The zero value is not usable; use NewBuilder.
type Builder struct {
	keys      []uint64
	b         uint
	s         uint
	gamma     float64
	seedWidth int // 0 = auto (derived from s); 1 or 2 = forced byte width
}

// BuilderOption configures a Builder constructed by NewBuilder.
type BuilderOption func(*Builder)

// WithB overrides the group size in bits (default 32).
func WithB(b uint) BuilderOption {
	return func(o *Builder) { o.b = b }
}

// WithS overrides the max-seed exponent (default 8).
func WithS(s uint) BuilderOption {
	return func(o *Builder) { o.s = s }
}

// WithGamma overrides the space/speed expansion factor (default 2.0).
func WithGamma(gamma float64) BuilderOption {
	return func(o *Builder) { o.gamma = gamma }
}

// WithSeedWidth forces the on-disk seed width to 1 or 2 bytes instead of
// the width NewBuilder would otherwise derive from S. NewBuilder returns
// ErrInvalidSeedType if the forced width is not 1 or 2, or cannot hold
// every value in [0, 1<<S).
func WithSeedWidth(bytes int) BuilderOption {
	return func(o *Builder) { o.seedWidth = bytes }
}

// NewBuilder creates a Builder with the given options applied over the
// recommended defaults (B=32, S=8, gamma=2.0).
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		keys:  make([]uint64, 0, 1024),
		b:     defaultB,
		s:     defaultS,
		gamma: defaultGamma,
	}
	for _, o := range opts {
		o(b)
	}

	if b.b < 1 || b.b > 64 {
		return nil, ErrInvalidB
	}
	if b.s > 16 {
		return nil, ErrInvalidS
	}
	if b.gamma < 1.0 {
		return nil, ErrInvalidGamma
	}
	if b.seedWidth != 0 {
		if b.seedWidth != 1 && b.seedWidth != 2 {
			return nil, ErrInvalidSeedType
		}
		if b.seedWidth == 1 && b.s > 8 {
			return nil, ErrInvalidSeedType
		}
	}

	return b, nil
}

// Add appends one key fingerprint to the builder.
func (b *Builder) Add(hKey uint64) {
	b.keys = append(b.keys, hKey)
}

// Freeze builds the MPHF over every fingerprint added so far.
func (b *Builder) Freeze() (*MPHF, error) {
	n := len(b.keys)
	if n == 0 {
		return &MPHF{
			ranked:      newRankedBits(nil),
			levelGroups: nil,
			groupSeeds:  b.buildSeeder(nil),
			b:           b.b,
			s:           b.s,
			gamma:       b.gamma,
			n:           0,
		}, nil
	}

	remaining := append([]uint64(nil), b.keys...)
	var levelGroups []uint32
	var allSeeds []uint32
	var allBits []uint64

	maxSeed := b.maxSeed()

	for level := uint32(0); len(remaining) > 0; level++ {
		if level >= maxLevels {
			return nil, ErrMaxLevelsExceeded
		}

		m := len(remaining)
		groups, segments := levelSize(m, b.gamma, b.b)

		lh := make([]uint64, m)
		gIdx := make([]uint32, m)
		for i, h := range remaining {
			lh[i] = levelHash(h, level)
			gIdx[i] = fastmod32(uint32(lh[i]), uint32(groups))
		}

		plane0 := make([]uint64, segments)
		plane1 := make([]uint64, segments)
		plane2 := make([]uint64, segments)
		bestSeeds := make([]uint32, groups)

		for seed := uint32(0); seed < maxSeed; seed++ {
			for i := range plane0 {
				plane0[i] = 0
				plane1[i] = 0
			}

			for idx := 0; idx < m; idx++ {
				i := bitIndex(lh[idx], seed, uint64(gIdx[idx]), b.b)
				if testBit(plane0, i) {
					setBit(plane1, i)
				} else {
					setBit(plane0, i)
				}
			}
			for w := range plane0 {
				plane0[w] &^= plane1[w]
			}

			for g := uint64(0); g < groups; g++ {
				start := g * uint64(b.b)
				newWin := getWindow(plane0, start, b.b)
				newOnes := bits.OnesCount64(newWin)
				bestWin := getWindow(plane2, start, b.b)
				bestOnes := bits.OnesCount64(bestWin)
				if newOnes > bestOnes {
					setWindow(plane2, start, b.b, newWin)
					bestSeeds[g] = seed
				}
			}
		}

		redo := remaining[:0:0]
		for idx, h := range remaining {
			g := uint64(gIdx[idx])
			seed := bestSeeds[g]
			i := bitIndex(lh[idx], seed, g, b.b)
			if !testBit(plane2, i) {
				redo = append(redo, h)
			}
		}

		levelGroups = append(levelGroups, uint32(groups))
		allSeeds = append(allSeeds, bestSeeds...)
		allBits = append(allBits, plane2...)

		remaining = redo
	}

	return &MPHF{
		ranked:      newRankedBits(allBits),
		levelGroups: levelGroups,
		groupSeeds:  b.buildSeeder(allSeeds),
		b:           b.b,
		s:           b.s,
		gamma:       b.gamma,
		n:           n,
	}, nil
}

func (b *Builder) maxSeed() uint32 {
	return uint32(1) << b.s
}

// buildSeeder packs seeds at the width requested via WithSeedWidth, or the
// narrowest width that fits every value in [0, 1<<S) if unspecified.
func (b *Builder) buildSeeder(seeds []uint32) seeder {
	switch b.seedWidth {
	case 1:
		return newU8Seeder(seeds)
	case 2:
		return newU16Seeder(seeds)
	default:
		return newSeeder(seeds, b.maxSeed()-1)
	}
}
