package app

import (
	"context"
	"math"

	"gpcorr/adapters/stats/scores"
	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/domain/stats"
	"gpcorr/ports"
)

// CompareGenotypeVsScore compares a continuous phenotype score across
// exactly two genotype classes. Individuals without a genotype class
// stay out of the comparison; individuals with a class but no usable
// score are dropped and counted. A nil statistic selects the
// Mann-Whitney U test.
func CompareGenotypeVsScore(ctx context.Context, cohort *model.Cohort, genotype ports.Classifier, scorer ports.Scorer, statistic ports.ScoreStatistic) (*stats.ScoreResult, error) {
	if cohort == nil || cohort.Size() == 0 {
		return nil, core.ValidationError("cohort is empty")
	}
	if genotype == nil || scorer == nil {
		return nil, core.ConfigurationError("score comparison needs a genotype classifier and a scorer")
	}
	if statistic == nil {
		statistic = scores.NewMannWhitneyU()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	groups, err := classifyGenotypes(cohort, genotype)
	if err != nil {
		return nil, err
	}
	if len(groups.labels) != 2 {
		return nil, core.ConfigurationError("score comparison needs exactly 2 genotype classes, got %d", len(groups.labels))
	}

	samples := make([][]float64, len(groups.labels))
	dropped := 0
	for i, member := range cohort.Members() {
		class := groups.codes[i]
		if class == unassigned {
			continue
		}
		score := scorer.Score(member)
		if math.IsNaN(score) {
			dropped++
			continue
		}
		samples[class] = append(samples[class], score)
	}

	p, err := statistic.Compare(samples[0], samples[1])
	if err != nil {
		return nil, core.Wrapf(err, "compare %s across genotype classes", scorer.Name())
	}

	result := &stats.ScoreResult{
		RunID:            core.NewRunID(),
		CohortHash:       cohort.Hash(),
		Question:         genotype.Question(),
		Scorer:           scorer.Name(),
		Statistic:        statistic.Name(),
		PValue:           p,
		GenotypeExcluded: groups.excluded,
		Dropped:          dropped,
	}
	for class, label := range groups.labels {
		result.Groups = append(result.Groups, stats.GroupScores{Label: label, Scores: samples[class]})
		result.Summaries = append(result.Summaries, describeScores(label, samples[class]))
	}
	return result, nil
}
