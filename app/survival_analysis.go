package app

import (
	"context"

	"gpcorr/adapters/stats/survival"
	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/domain/stats"
	"gpcorr/ports"
)

// CompareGenotypeVsSurvival compares time-to-event outcomes across
// exactly two genotype classes. Individuals without a genotype class
// stay out of the comparison; individuals with a class but no
// observation under the endpoint are dropped and counted. A nil
// statistic selects the log-rank test.
func CompareGenotypeVsSurvival(ctx context.Context, cohort *model.Cohort, genotype ports.Classifier, endpoint ports.Endpoint, statistic ports.SurvivalStatistic) (*stats.SurvivalResult, error) {
	if cohort == nil || cohort.Size() == 0 {
		return nil, core.ValidationError("cohort is empty")
	}
	if genotype == nil || endpoint == nil {
		return nil, core.ConfigurationError("survival comparison needs a genotype classifier and an endpoint")
	}
	if statistic == nil {
		statistic = survival.NewLogRank()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	groups, err := classifyGenotypes(cohort, genotype)
	if err != nil {
		return nil, err
	}
	if len(groups.labels) != 2 {
		return nil, core.ConfigurationError("survival comparison needs exactly 2 genotype classes, got %d", len(groups.labels))
	}

	samples := make([][]stats.Survival, len(groups.labels))
	dropped := 0
	for i, member := range cohort.Members() {
		class := groups.codes[i]
		if class == unassigned {
			continue
		}
		obs, ok := endpoint.Outcome(member)
		if !ok {
			dropped++
			continue
		}
		samples[class] = append(samples[class], obs)
	}

	p, err := statistic.Compare(samples[0], samples[1])
	if err != nil {
		return nil, core.Wrapf(err, "compare %s across genotype classes", endpoint.Name())
	}

	result := &stats.SurvivalResult{
		RunID:            core.NewRunID(),
		CohortHash:       cohort.Hash(),
		Question:         genotype.Question(),
		Endpoint:         endpoint.Name(),
		Statistic:        statistic.Name(),
		PValue:           p,
		GenotypeExcluded: groups.excluded,
		Dropped:          dropped,
	}
	for class, label := range groups.labels {
		result.Groups = append(result.Groups, stats.GroupSurvival{Label: label, Data: samples[class]})
	}
	return result, nil
}
