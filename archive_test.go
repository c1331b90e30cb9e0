// archive_test.go -- test suite for the zero-copy archive

package entropymap

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
)

// collidingHasher forces every key in collide to hash to the same value,
// so tests can exercise Get's behavior when two distinct keys share a
// 64-bit fingerprint.
type collidingHasher struct {
	collide [][]byte
	fixed   uint64
}

func (h *collidingHasher) Sum64(data []byte) uint64 {
	for _, c := range h.collide {
		if bytes.Equal(c, data) {
			return h.fixed
		}
	}
	return DefaultHasher.Sum64(data)
}

func TestArchiveRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	fn := filepath.Join(t.TempDir(), "words.entropymap")

	w, err := NewArchiveWriter(fn, DefaultHasher)
	assert(err == nil, "archive: writer construction failed: %s", err)

	values := make(map[string]string, len(keyw))
	for i, k := range keyw {
		v := fmt.Sprintf("value-%d", i)
		values[k] = v
		assert(w.Add([]byte(k), []byte(v)) == nil, "archive: add(%q) failed", k)
	}

	assert(w.Len() == len(keyw), "archive: expected %d records, got %d", len(keyw), w.Len())
	assert(w.Freeze() == nil, "archive: freeze failed")

	rd, err := OpenArchive(fn, DefaultHasher, 0)
	assert(err == nil, "archive: open failed: %s", err)
	defer rd.Close()

	assert(rd.Len() == len(keyw), "archive: expected %d keys on open, got %d", len(keyw), rd.Len())

	for k, want := range values {
		got, ok := rd.Get([]byte(k))
		assert(ok, "archive: get(%q): expected present", k)
		assert(string(got) == want, "archive: get(%q): expected %q, got %q", k, want, got)
	}

	_, ok := rd.Get([]byte("not-a-real-word"))
	assert(!ok, "archive: unexpected false positive")
}

func TestArchiveEmptyValues(t *testing.T) {
	assert := newAsserter(t)

	fn := filepath.Join(t.TempDir(), "empty-values.entropymap")

	w, err := NewArchiveWriter(fn, DefaultHasher)
	assert(err == nil, "archive: writer construction failed: %s", err)

	for _, k := range keyw[:5] {
		assert(w.Add([]byte(k), nil) == nil, "archive: add(%q) failed", k)
	}
	assert(w.Freeze() == nil, "archive: freeze failed")

	rd, err := OpenArchive(fn, DefaultHasher, 0)
	assert(err == nil, "archive: open failed: %s", err)
	defer rd.Close()

	for _, k := range keyw[:5] {
		got, ok := rd.Get([]byte(k))
		assert(ok, "archive: get(%q): expected present", k)
		assert(len(got) == 0, "archive: get(%q): expected empty value, got %d bytes", k, len(got))
	}
}

func TestArchiveDuplicateKey(t *testing.T) {
	assert := newAsserter(t)

	fn := filepath.Join(t.TempDir(), "dup.entropymap")

	w, err := NewArchiveWriter(fn, DefaultHasher)
	assert(err == nil, "archive: writer construction failed: %s", err)

	assert(w.Add([]byte("a"), []byte("1")) == nil, "archive: first add failed")
	assert(w.Add([]byte("a"), []byte("2")) != nil, "archive: expected duplicate-key error")
	w.Abort()
}

// TestArchiveHashCollisionNoFalsePositive guards against Get answering a
// never-added key from the decoded-record cache just because it shares a
// 64-bit fingerprint with a key that was looked up (and cached) earlier.
func TestArchiveHashCollisionNoFalsePositive(t *testing.T) {
	assert := newAsserter(t)

	hasher := &collidingHasher{
		collide: [][]byte{[]byte("alpha"), []byte("beta")},
		fixed:   0xdeadbeef,
	}

	fn := filepath.Join(t.TempDir(), "collide.entropymap")

	w, err := NewArchiveWriter(fn, hasher)
	assert(err == nil, "archive: writer construction failed: %s", err)
	assert(w.Add([]byte("alpha"), []byte("alpha-value")) == nil, "archive: add failed")
	assert(w.Freeze() == nil, "archive: freeze failed")

	rd, err := OpenArchive(fn, hasher, 0)
	assert(err == nil, "archive: open failed: %s", err)
	defer rd.Close()

	got, ok := rd.Get([]byte("alpha"))
	assert(ok && string(got) == "alpha-value", "archive: get(alpha): expected (alpha-value,true), got (%q,%v)", got, ok)

	// "beta" hashes identically to "alpha" under this hasher but was never
	// added. Querying it after alpha's record is cached must still reject
	// it on the key-identity check, not return alpha's cached value.
	_, ok = rd.Get([]byte("beta"))
	assert(!ok, "archive: get(beta): expected absent despite hash collision with a cached key")
}
