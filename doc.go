// doc.go - top level documentation

// Package entropymap implements compact, immutable, query-only associative
// data structures: an immutable Set, a dictionary-packed Map and a
// bit-packed Map, all built on top of a fingerprinting minimal perfect hash
// function (MPHF) and a succinct rank-indexed bit vector.
//
// Construction takes a complete key set (or key/value set) and produces a
// read-only structure with O(1) point queries and no false negatives for
// members of the original set. There is no insert or delete after
// construction; to change the contents, rebuild from scratch.
//
// The primary user-facing types are Set, Map and BitpackedMap. Each has two
// constructors: one taking parallel slices (keys, or keys and values) plus
// explicit MPHF parameters via ContainerOption/BuilderOption, and a
// "FromMap" convenience constructor taking a native Go map and the
// package's sane defaults (gamma 2.0, B 32, S 8, github.com/zeebo/xxh3 as
// the default Hasher). The slice constructors require unique keys; the
// FromMap constructors sidestep that restriction since a Go map already
// guarantees it.
//
// Separately, ArchiveWriter and ArchiveReader store []byte key/value pairs
// in a self-describing archive file that is reopened with mmap for
// zero-copy queries; see the archive.go family of files. They do not take
// a Set, Map or BitpackedMap directly.
package entropymap
