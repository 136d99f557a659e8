package ports

import "gpcorr/domain/stats"

// CountStatistic computes a nominal p-value from a contingency table.
// Implementations return a DEGENERATE_TABLE error when some row or
// column total is zero rather than coercing the p-value.
type CountStatistic interface {
	Name() string
	Description() string
	PValue(table *stats.ContingencyTable) (float64, error)
}

// ScoreStatistic compares continuous scores across exactly two groups.
type ScoreStatistic interface {
	Name() string
	Description() string
	Compare(a, b []float64) (float64, error)
}

// SurvivalStatistic compares time-to-event observations across exactly
// two groups.
type SurvivalStatistic interface {
	Name() string
	Description() string
	Compare(a, b []stats.Survival) (float64, error)
}
