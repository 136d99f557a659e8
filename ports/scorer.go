package ports

import (
	"gpcorr/domain/model"
	"gpcorr/domain/stats"
)

// Scorer maps an individual to a continuous phenotype score for use
// with score-based statistics.
//
// Score returns NaN for individuals that cannot be scored; those are
// dropped from the comparison.
type Scorer interface {
	Name() string
	Description() string
	Score(individual *model.Individual) float64
}

// Endpoint maps an individual to a time-to-event observation for
// survival comparisons. The second return is false when the individual
// contributes no observation at all.
type Endpoint interface {
	Name() string
	Description() string
	Outcome(individual *model.Individual) (stats.Survival, bool)
}
