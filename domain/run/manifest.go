package run

import (
	"gpcorr/domain/core"
	"gpcorr/domain/stats"
)

// Manifest is the durable record of what one analysis run was: which
// cohort, which question, which statistical machinery, over how many
// terms. Stored alongside the result records, it lets a later reader
// audit a result against the run that produced it and recognize
// replays by fingerprint.
type Manifest struct {
	RunID       core.RunID      `json:"run_id"`
	CohortHash  core.CohortHash `json:"cohort_hash"`
	Question    string          `json:"question"`
	Statistic   string          `json:"statistic"`
	Filter      string          `json:"filter"`
	Procedure   string          `json:"procedure"`
	Terms       int             `json:"terms"`
	Tested      int             `json:"tested"`
	Fingerprint Fingerprint     `json:"fingerprint"`
	CreatedAt   core.Timestamp  `json:"created_at"`
}

// ManifestFor derives the manifest of a finished comparison.
func ManifestFor(result *stats.AnalysisResult) *Manifest {
	fingerprint := NewFingerprint(result.CohortHash, result.Question,
		result.Statistic, result.Filter, result.Procedure)

	return &Manifest{
		RunID:       result.RunID,
		CohortHash:  result.CohortHash,
		Question:    result.Question,
		Statistic:   result.Statistic,
		Filter:      result.Filter,
		Procedure:   result.Procedure,
		Terms:       result.TermsConsidered(),
		Tested:      result.TestsPerformed(),
		Fingerprint: fingerprint,
		CreatedAt:   core.Now(),
	}
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.ValidationError("manifest has no run id")
	}
	if core.Hash(m.CohortHash).IsEmpty() {
		return core.ValidationError("manifest has no cohort hash")
	}
	if m.Question == "" {
		return core.ValidationError("manifest has no question")
	}
	if m.Statistic == "" || m.Filter == "" || m.Procedure == "" {
		return core.ValidationError("manifest is missing its statistical configuration")
	}
	if m.Fingerprint.Value.IsEmpty() {
		return core.ValidationError("manifest has no fingerprint")
	}
	return nil
}

// Matches reports whether another run had the same replay-relevant
// configuration.
func (m *Manifest) Matches(other *Manifest) bool {
	return other != nil && m.Fingerprint.Value.Equals(other.Fingerprint.Value)
}
