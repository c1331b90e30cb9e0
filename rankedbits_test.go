// rankedbits_test.go -- test suite for the succinct rank index

package entropymap

import "testing"

// TestRankedBitsE6 covers a known three-word bit vector
// with the low byte of each carrying the interesting bits.
func TestRankedBitsE6(t *testing.T) {
	assert := newAsserter(t)

	bits := []uint64{0b11001010, 0b00110111, 0b11110000}
	rb := newRankedBits(bits)

	assert(rb.rank(8) == 4, "rank(8): expected 4, got %d", rb.rank(8))
	assert(rb.rank(0) == 0, "rank(0): expected 0, got %d", rb.rank(0))
	assert(!rb.get(0), "get(0): expected clear")
	assert(rb.get(1), "get(1): expected set")
}

// bruteRank computes rank(i) by linear popcount, for use as an oracle.
func bruteRank(words []uint64, i uint64) uint64 {
	var rank uint64
	full := i / 64
	for w := uint64(0); w < full; w++ {
		rank += popcount64(words[w])
	}
	rem := i % 64
	if rem > 0 {
		mask := (uint64(1) << rem) - 1
		rank += popcount64(words[full] & mask)
	}
	return rank
}

func TestRankedBitsAgainstBruteForce(t *testing.T) {
	assert := newAsserter(t)

	// Enough words to exercise multiple L1 blocks (64 words each) and a
	// trailing partial L1 block.
	const nWords = 64*3 + 17
	words := make([]uint64, nWords)
	seed := uint64(0x2545F4914F6CDD1D)
	for i := range words {
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		words[i] = seed
	}

	rb := newRankedBits(words)
	total := rb.length()
	assert(total == uint64(nWords)*64, "length mismatch: %d != %d", total, nWords*64)

	for i := uint64(0); i < total; i += 37 {
		want := bruteRank(words, i)
		got := rb.rank(i)
		assert(got == want, "rank(%d): expected %d, got %d", i, want, got)
	}
	// always check the final index too.
	last := total - 1
	assert(rb.rank(last) == bruteRank(words, last), "rank(%d) mismatch", last)
}

func TestRankedBitsEmpty(t *testing.T) {
	assert := newAsserter(t)

	rb := newRankedBits(nil)
	assert(rb.length() == 0, "expected empty ranked bits, got length %d", rb.length())
}

func TestRankedBitsRankIfSet(t *testing.T) {
	assert := newAsserter(t)

	bits := []uint64{0b11001010, 0b00110111, 0b11110000}
	rb := newRankedBits(bits)

	r, ok := rb.rankIfSet(0)
	assert(!ok && r == 0, "rankIfSet(0): expected (0,false), got (%d,%v)", r, ok)

	r, ok = rb.rankIfSet(1)
	assert(ok && r == 0, "rankIfSet(1): expected (0,true), got (%d,%v)", r, ok)
}
