// Package survival provides statistics comparing time-to-event
// distributions between two genotype groups.
package survival

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"gpcorr/domain/core"
	"gpcorr/domain/stats"
)

// LogRank is the two-group log-rank test (Mantel-Cox) on
// right-censored time-to-event data. At tied times events precede
// censorings, so an observation censored at t still counts as at risk
// at t.
type LogRank struct{}

// NewLogRank creates the statistic.
func NewLogRank() *LogRank {
	return &LogRank{}
}

func (s *LogRank) Name() string {
	return "logrank"
}

func (s *LogRank) Description() string {
	return "Log-rank test comparing right-censored time-to-event distributions"
}

// Compare returns the p-value for the survival observations of two
// groups. Data without any event, or with a risk profile carrying no
// information, yields 1.
func (s *LogRank) Compare(a, b []stats.Survival) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, core.ValidationError("log-rank needs observations in both groups, got %d and %d", len(a), len(b))
	}
	for _, obs := range a {
		if err := checkObservation(obs); err != nil {
			return 0, err
		}
	}
	for _, obs := range b {
		if err := checkObservation(obs); err != nil {
			return 0, err
		}
	}

	eventTimes := collectEventTimes(a, b)
	observedMinusExpected := 0.0
	variance := 0.0
	for _, t := range eventTimes {
		n1 := atRisk(a, t)
		n2 := atRisk(b, t)
		n := float64(n1 + n2)
		d1 := eventsAt(a, t)
		d2 := eventsAt(b, t)
		d := float64(d1 + d2)

		p1 := float64(n1) / n
		observedMinusExpected += float64(d1) - d*p1
		if n > 1 {
			variance += d * p1 * (1 - p1) * (n - d) / (n - 1)
		}
	}
	if variance == 0 {
		return 1, nil
	}

	chi2 := observedMinusExpected * observedMinusExpected / variance
	dist := distuv.ChiSquared{K: 1}
	return dist.Survival(chi2), nil
}

func checkObservation(obs stats.Survival) error {
	if math.IsNaN(obs.Value) || obs.Value < 0 {
		return core.ValidationError("survival time %v is not a non-negative number", obs.Value)
	}
	return nil
}

// collectEventTimes returns the sorted distinct times with at least
// one uncensored event in either group.
func collectEventTimes(a, b []stats.Survival) []float64 {
	seen := make(map[float64]bool)
	for _, obs := range a {
		if !obs.Censored {
			seen[obs.Value] = true
		}
	}
	for _, obs := range b {
		if !obs.Censored {
			seen[obs.Value] = true
		}
	}
	times := make([]float64, 0, len(seen))
	for t := range seen {
		times = append(times, t)
	}
	sort.Float64s(times)
	return times
}

func atRisk(group []stats.Survival, t float64) int {
	n := 0
	for _, obs := range group {
		if obs.Value >= t {
			n++
		}
	}
	return n
}

func eventsAt(group []stats.Survival, t float64) int {
	n := 0
	for _, obs := range group {
		if !obs.Censored && obs.Value == t {
			n++
		}
	}
	return n
}
