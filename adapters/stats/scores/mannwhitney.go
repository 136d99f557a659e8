// Package scores provides statistics comparing continuous phenotype
// scores between two genotype groups.
package scores

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"gpcorr/domain/core"
)

// MannWhitneyU is the two-sided rank-sum test with the normal
// approximation, tie correction and continuity correction. NaN scores
// are dropped before ranking.
type MannWhitneyU struct{}

// NewMannWhitneyU creates the statistic.
func NewMannWhitneyU() *MannWhitneyU {
	return &MannWhitneyU{}
}

func (s *MannWhitneyU) Name() string {
	return "mann_whitney_u"
}

func (s *MannWhitneyU) Description() string {
	return "Two-sided Mann-Whitney U rank-sum test with tie and continuity corrections"
}

// Compare returns the two-sided p-value for the scores of two groups.
func (s *MannWhitneyU) Compare(a, b []float64) (float64, error) {
	a = dropNaN(a)
	b = dropNaN(b)
	if len(a) == 0 || len(b) == 0 {
		return 0, core.ValidationError("mann-whitney needs scores in both groups, got %d and %d", len(a), len(b))
	}

	n1 := float64(len(a))
	n2 := float64(len(b))
	n := n1 + n2

	ranks, tieTerm := averageRanks(a, b)
	rankSumA := 0.0
	for i := range a {
		rankSumA += ranks[i]
	}

	u1 := rankSumA - n1*(n1+1)/2
	u2 := n1*n2 - u1
	u := math.Max(u1, u2)

	mean := n1 * n2 / 2
	variance := n1 * n2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if variance <= 0 {
		// Every observation is tied with every other; the ranking
		// carries no information.
		return 1, nil
	}

	z := (u - mean - 0.5) / math.Sqrt(variance)
	p := 2 * distuv.UnitNormal.Survival(z)
	if p > 1 {
		p = 1
	}
	return p, nil
}

// averageRanks assigns midranks to the concatenation of a and b, in
// that order, and returns the tie correction term sum(t^3 - t) over
// the tie groups.
func averageRanks(a, b []float64) ([]float64, float64) {
	values := make([]float64, 0, len(a)+len(b))
	values = append(values, a...)
	values = append(values, b...)

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return values[order[i]] < values[order[j]] })

	ranks := make([]float64, len(values))
	tieTerm := 0.0
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && values[order[j]] == values[order[i]] {
			j++
		}
		// Positions i..j-1 hold a tie group; all get the midrank.
		midrank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = midrank
		}
		t := float64(j - i)
		tieTerm += t*t*t - t
		i = j
	}
	return ranks, tieTerm
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
