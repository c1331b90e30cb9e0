// errors.go - public errors exposed by entropymap

package entropymap

import (
	"errors"
	"fmt"
)

func errShortWrite(who string, n int) error {
	return fmt.Errorf("%s: incomplete write; saw %d", who, n)
}

var (
	// ErrInvalidB is returned when the group-size parameter B is outside [1, 64].
	ErrInvalidB = errors.New("entropymap: group size B out of range [1,64]")

	// ErrInvalidS is returned when the max-seed parameter S is outside [0, 16].
	ErrInvalidS = errors.New("entropymap: max seed exponent S out of range [0,16]")

	// ErrInvalidSeedType is returned when the chosen seed-integer width is
	// not 1 or 2 bytes, or is too narrow to hold every value below 1<<S.
	ErrInvalidSeedType = errors.New("entropymap: seed type too narrow for S")

	// ErrInvalidGamma is returned when gamma is less than 1.0.
	ErrInvalidGamma = errors.New("entropymap: gamma must be >= 1.0")

	// ErrMaxLevelsExceeded is returned when MPHF construction exhausts the
	// maximum number of levels with hashes still unplaced. Retry with a
	// larger gamma or S.
	ErrMaxLevelsExceeded = errors.New("entropymap: could not build MPHF after max levels")

	// ErrValuesLengthMismatch is returned by Map and BitpackedMap
	// construction when the keys and values slices differ in length, and by
	// BitpackedMap construction when value vectors are not all the same
	// length.
	ErrValuesLengthMismatch = errors.New("entropymap: value vectors have differing lengths")

	// ErrTooSmall is returned when an archive buffer is too small to hold a
	// valid header.
	ErrTooSmall = errors.New("entropymap: not enough data to unmarshal")

	// ErrArchiveVersion is returned when an archive was written by an
	// incompatible (future) version of this package.
	ErrArchiveVersion = errors.New("entropymap: unsupported archive version")

	// ErrArchiveCorrupt is returned when an archive fails its checksum or
	// structural validation on load.
	ErrArchiveCorrupt = errors.New("entropymap: archive failed validation")
)
