package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// CohortHash fingerprints the membership of a cohort. Result sets carry
// it so a stored result can be matched against the cohort that produced
// it without retaining the cohort itself.
type CohortHash Hash

// NewCohortHash creates a cohort hash from raw data
func NewCohortHash(data []byte) CohortHash { return CohortHash(NewHash(data)) }

func (h CohortHash) String() string { return Hash(h).String() }

// ComputeCohortHash fingerprints a membership list. Order of the input
// does not matter; the ids are sorted before hashing.
func ComputeCohortHash(sampleIDs []string) CohortHash {
	sorted := make([]string, len(sampleIDs))
	copy(sorted, sampleIDs)
	sort.Strings(sorted)

	var data strings.Builder
	for _, id := range sorted {
		data.WriteString(id)
		data.WriteByte(0)
	}

	return NewCohortHash([]byte(data.String()))
}
