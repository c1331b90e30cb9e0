// set_test.go -- test suite for Set

package entropymap

import "testing"

// TestSetE3 covers a small worked example with known membership.
func TestSetE3(t *testing.T) {
	assert := newAsserter(t)

	s, err := NewSet([]uint64{1, 2, 3}, Uint64KeyBytes)
	assert(err == nil, "set: construction failed: %s", err)

	for _, k := range []uint64{1, 2, 3} {
		assert(s.Contains(k), "set: expected %d present", k)
	}
	assert(!s.Contains(4), "set: expected 4 absent")
}

func TestSetWords(t *testing.T) {
	assert := newAsserter(t)

	s, err := NewSet(keyw, StringKeyBytes)
	assert(err == nil, "set: construction failed: %s", err)
	assert(s.Len() == len(keyw), "set: expected len %d, got %d", len(keyw), s.Len())

	for _, w := range keyw {
		assert(s.Contains(w), "set: expected %q present", w)
	}
	assert(!s.Contains("not-a-real-word"), "set: unexpected false positive")
}

func TestSetDuplicateKey(t *testing.T) {
	assert := newAsserter(t)

	_, err := NewSet([]uint64{1, 2, 2, 3}, Uint64KeyBytes)
	assert(err == ErrMaxLevelsExceeded, "set: expected ErrMaxLevelsExceeded on duplicate key, got %v", err)
}

func TestSetFromMap(t *testing.T) {
	assert := newAsserter(t)

	m := map[string]struct{}{"a": {}, "b": {}, "c": {}}
	s, err := NewSetFromMap(m, StringKeyBytes)
	assert(err == nil, "set: NewSetFromMap failed: %s", err)
	assert(s.Len() == len(m), "set: expected len %d, got %d", len(m), s.Len())

	for k := range m {
		assert(s.Contains(k), "set: expected %q present", k)
	}
	assert(!s.Contains("z"), "set: unexpected false positive")
}

func TestSetEmpty(t *testing.T) {
	assert := newAsserter(t)

	s, err := NewSet([]string(nil), StringKeyBytes)
	assert(err == nil, "set: construction failed on empty input: %s", err)
	assert(s.IsEmpty(), "set: expected empty")
	assert(!s.Contains("anything"), "set: empty set unexpectedly contains a key")
}
