package app

import (
	mstats "github.com/montanaflynn/stats"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/domain/stats"
)

// describeScores summarizes one genotype class's score sample. A
// singleton sample is its own mean, median and quartiles.
func describeScores(label string, sample []float64) stats.ScoreSummary {
	summary := stats.ScoreSummary{Label: label, N: len(sample)}
	if len(sample) == 0 {
		return summary
	}
	if len(sample) == 1 {
		v := sample[0]
		summary.Mean, summary.Median, summary.Q1, summary.Q3 = v, v, v, v
		return summary
	}
	summary.Mean, _ = mstats.Mean(sample)
	summary.Median, _ = mstats.Median(sample)
	if quartiles, err := mstats.Quartile(sample); err == nil {
		summary.Q1 = quartiles.Q1
		summary.Q3 = quartiles.Q3
	}
	return summary
}

// CohortSummary is a diagnostic digest of a cohort: its size and the
// most frequent phenotype and variant annotations.
type CohortSummary struct {
	CohortHash core.CohortHash      `json:"cohort_hash"`
	Size       int                  `json:"size"`
	Phenotypes []model.TermCount    `json:"phenotypes"`
	Variants   []model.VariantCount `json:"variants"`
}

// SummarizeCohort digests a cohort for diagnostics. top bounds the
// listed phenotype and variant entries; top < 1 lists everything.
func SummarizeCohort(cohort *model.Cohort, top int) *CohortSummary {
	phenotypes := cohort.CountPhenotypes()
	variants := cohort.CountVariants()
	if top > 0 {
		if len(phenotypes) > top {
			phenotypes = phenotypes[:top]
		}
		if len(variants) > top {
			variants = variants[:top]
		}
	}
	return &CohortSummary{
		CohortHash: cohort.Hash(),
		Size:       cohort.Size(),
		Phenotypes: phenotypes,
		Variants:   variants,
	}
}
