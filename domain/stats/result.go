package stats

import (
	"sort"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
)

// TermStatus tells what happened to one phenotype term during a
// genotype-phenotype comparison.
type TermStatus string

const (
	// StatusTested means the term survived multiple-testing filtering
	// and a nominal p-value was computed.
	StatusTested TermStatus = "TESTED"
	// StatusSkipped means a filter excluded the term before testing.
	StatusSkipped TermStatus = "SKIPPED"
	// StatusFailed means the term was selected for testing but the
	// statistic could not be evaluated, e.g. on a degenerate table.
	StatusFailed TermStatus = "FAILED"
)

// TermCounts pairs a phenotype term with its contingency table. The
// multiple-testing filters consume the full batch at once so that
// heuristics may compare terms against each other.
type TermCounts struct {
	Term  model.TermID
	Table *ContingencyTable
}

// FilterDecision is a multiple-testing filter's verdict on one term.
type FilterDecision struct {
	Tested bool
	Reason string
}

// TermRecord is the per-term outcome of a comparison run. Excluded
// counts the genotype-assignable individuals the term's phenotype
// classifier could not place in any class.
type TermRecord struct {
	Term       model.TermID      `json:"term"`
	Label      string            `json:"label,omitempty"`
	Table      *ContingencyTable `json:"table,omitempty"`
	Excluded   int               `json:"excluded,omitempty"`
	NominalP   float64           `json:"nominal_p"`
	CorrectedP float64           `json:"corrected_p"`
	Status     TermStatus        `json:"status"`
	Reason     string            `json:"reason,omitempty"`
	Err        error             `json:"-"`
}

// AnalysisResult holds the outcome of comparing one genotype
// classifier against a set of phenotype terms. GenotypeExcluded is
// the number of cohort members the genotype classifier left out of
// every class; they take part in no table.
type AnalysisResult struct {
	RunID            core.RunID      `json:"run_id"`
	CohortHash       core.CohortHash `json:"cohort_hash"`
	Question         string          `json:"question"`
	ColLabels        []string        `json:"col_labels"`
	Statistic        string          `json:"statistic"`
	Filter           string          `json:"filter"`
	Procedure        string          `json:"procedure"`
	GenotypeExcluded int             `json:"genotype_excluded"`
	Records          []TermRecord    `json:"records"`
}

// TermsConsidered returns how many terms entered the run.
func (r *AnalysisResult) TermsConsidered() int { return len(r.Records) }

// TestsPerformed returns how many terms were actually tested. This is
// the family size used for multiple-testing correction.
func (r *AnalysisResult) TestsPerformed() int {
	n := 0
	for i := range r.Records {
		if r.Records[i].Status == StatusTested {
			n++
		}
	}
	return n
}

// Record looks up the outcome for one term.
func (r *AnalysisResult) Record(term model.TermID) (*TermRecord, bool) {
	for i := range r.Records {
		if r.Records[i].Term == term {
			return &r.Records[i], true
		}
	}
	return nil, false
}

// Significant returns the tested records with corrected p-value at or
// below alpha, most significant first.
func (r *AnalysisResult) Significant(alpha float64) []TermRecord {
	var out []TermRecord
	for i := range r.Records {
		rec := r.Records[i]
		if rec.Status == StatusTested && rec.CorrectedP <= alpha {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CorrectedP < out[j].CorrectedP })
	return out
}

// SkipReasons tallies why terms were left untested.
func (r *AnalysisResult) SkipReasons() map[string]int {
	out := make(map[string]int)
	for i := range r.Records {
		if r.Records[i].Status == StatusSkipped {
			out[r.Records[i].Reason]++
		}
	}
	return out
}

// GroupScores holds the scores of one genotype class in a score-based
// comparison, in cohort order, unscorable individuals dropped.
type GroupScores struct {
	Label  string    `json:"label"`
	Scores []float64 `json:"scores"`
}

// ScoreSummary describes the score distribution of one genotype class.
type ScoreSummary struct {
	Label  string  `json:"label"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// ScoreResult is the outcome of comparing a continuous phenotype score
// across genotype classes.
type ScoreResult struct {
	RunID      core.RunID      `json:"run_id"`
	CohortHash core.CohortHash `json:"cohort_hash"`
	Question   string          `json:"question"`
	Scorer     string          `json:"scorer"`
	Statistic  string          `json:"statistic"`
	Groups     []GroupScores   `json:"groups"`
	Summaries  []ScoreSummary  `json:"summaries"`
	PValue     float64         `json:"p_value"`
	// GenotypeExcluded counts cohort members the genotype classifier
	// left out of every class.
	GenotypeExcluded int `json:"genotype_excluded"`
	// Dropped counts individuals that were assigned a genotype class
	// but produced no usable score.
	Dropped int `json:"dropped"`
}

// Survival is one individual's time-to-event observation.
type Survival struct {
	// Value is the age in days at the event, or at censoring.
	Value float64 `json:"value"`
	// Censored is true when the event had not happened by Value.
	Censored bool `json:"censored"`
}

// GroupSurvival holds the survival observations of one genotype class.
type GroupSurvival struct {
	Label string     `json:"label"`
	Data  []Survival `json:"data"`
}

// SurvivalResult is the outcome of comparing time-to-event outcomes
// across genotype classes.
type SurvivalResult struct {
	RunID      core.RunID      `json:"run_id"`
	CohortHash core.CohortHash `json:"cohort_hash"`
	Question   string          `json:"question"`
	Endpoint   string          `json:"endpoint"`
	Statistic  string          `json:"statistic"`
	Groups     []GroupSurvival `json:"groups"`
	PValue     float64         `json:"p_value"`
	// GenotypeExcluded counts cohort members the genotype classifier
	// left out of every class.
	GenotypeExcluded int `json:"genotype_excluded"`
	// Dropped counts individuals that were assigned a genotype class
	// but contributed no time-to-event observation.
	Dropped int `json:"dropped"`
}
