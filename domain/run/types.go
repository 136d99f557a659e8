package run

import (
	"crypto/sha256"
	"fmt"

	"gpcorr/domain/core"
)

// Fingerprint captures the replay-relevant identity of an analysis
// run: the cohort and every configuration choice that shapes its
// records. Run id and wall-clock time stay out of it, so repeating a
// run over the same cohort with the same machinery yields the same
// fingerprint.
type Fingerprint struct {
	CohortHash core.CohortHash `json:"cohort_hash"`
	Question   string          `json:"question"`
	Statistic  string          `json:"statistic"`
	Filter     string          `json:"filter"`
	Procedure  string          `json:"procedure"`
	Value      core.Hash       `json:"value"` // Hash of all above
}

// NewFingerprint creates a fingerprint from replay parameters.
func NewFingerprint(cohortHash core.CohortHash, question, statistic, filter, procedure string) Fingerprint {
	value := computeFingerprint(cohortHash, question, statistic, filter, procedure)

	return Fingerprint{
		CohortHash: cohortHash,
		Question:   question,
		Statistic:  statistic,
		Filter:     filter,
		Procedure:  procedure,
		Value:      value,
	}
}

// computeFingerprint generates a deterministic hash from all replay
// parameters.
func computeFingerprint(cohortHash core.CohortHash, question, statistic, filter, procedure string) core.Hash {
	data := fmt.Sprintf("cohort:%s|question:%s|statistic:%s|filter:%s|procedure:%s",
		cohortHash, question, statistic, filter, procedure)

	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}
