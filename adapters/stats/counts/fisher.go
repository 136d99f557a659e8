// Package counts provides statistics over contingency tables of
// genotype and phenotype class counts.
package counts

import (
	"math"

	fet "github.com/glycerine/golang-fisher-exact"
	"gonum.org/v1/gonum/stat/combin"

	"gpcorr/domain/core"
	"gpcorr/domain/stats"
)

// FisherExact is the exact conditional test of independence on a 2x2
// or 2xk contingency table, two-sided: the p-value sums the
// probabilities of all tables with the observed margins that are at
// most as probable as the observed one.
type FisherExact struct{}

// NewFisherExact creates the statistic.
func NewFisherExact() *FisherExact {
	return &FisherExact{}
}

func (s *FisherExact) Name() string {
	return "fisher_exact"
}

func (s *FisherExact) Description() string {
	return "Two-sided Fisher exact test on a 2xk contingency table"
}

// PValue computes the two-sided p-value. Degenerate tables, with a
// row or column summing to zero, are an error rather than a coerced
// p-value.
func (s *FisherExact) PValue(table *stats.ContingencyTable) (float64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	counts := table.Counts
	if table.Rows() != 2 {
		if table.Cols() != 2 {
			return 0, core.ValidationError("fisher exact test supports 2xk tables, got %dx%d", table.Rows(), table.Cols())
		}
		counts = table.Transposed().Counts
	}
	if len(counts[0]) == 2 {
		_, _, _, twoSided := fet.FisherExactTest(
			counts[0][0], counts[0][1],
			counts[1][0], counts[1][1],
		)
		return clampP(twoSided), nil
	}
	return s.twoByK(counts), nil
}

// twoByK enumerates every table with the observed margins and sums the
// probabilities not exceeding the observed table's, with a small
// relative tolerance against roundoff. Probabilities follow the
// multivariate hypergeometric distribution conditional on the margins.
func (s *FisherExact) twoByK(counts [][]int) float64 {
	k := len(counts[0])
	colSums := make([]int, k)
	rowSum := 0
	total := 0
	for j := 0; j < k; j++ {
		colSums[j] = counts[0][j] + counts[1][j]
		rowSum += counts[0][j]
		total += colSums[j]
	}
	logDenom := combin.LogGeneralizedBinomial(float64(total), float64(rowSum))

	logObs := -logDenom
	for j := 0; j < k; j++ {
		logObs += combin.LogGeneralizedBinomial(float64(colSums[j]), float64(counts[0][j]))
	}
	// Accept tables up to a 1e-7 relative slack above the observed
	// probability, matching the usual guard against floating roundoff.
	threshold := logObs + math.Log1p(1e-7)

	pValue := 0.0
	var walk func(col, remaining int, logAcc float64)
	walk = func(col, remaining int, logAcc float64) {
		if col == k-1 {
			if remaining > colSums[col] {
				return
			}
			logP := logAcc + combin.LogGeneralizedBinomial(float64(colSums[col]), float64(remaining)) - logDenom
			if logP <= threshold {
				pValue += math.Exp(logP)
			}
			return
		}
		limit := remaining
		if colSums[col] < limit {
			limit = colSums[col]
		}
		for v := 0; v <= limit; v++ {
			walk(col+1, remaining-v, logAcc+combin.LogGeneralizedBinomial(float64(colSums[col]), float64(v)))
		}
	}
	walk(0, rowSum, 0)
	return clampP(pValue)
}

// ChiSquared is the chi-squared test of independence on a 2x2 table,
// an asymptotic alternative to the exact test for large cohorts.
type ChiSquared struct {
	// YatesCorrection applies the continuity correction, recommended
	// for small cell counts.
	YatesCorrection bool
}

// NewChiSquared creates the statistic with the continuity correction
// enabled.
func NewChiSquared() *ChiSquared {
	return &ChiSquared{YatesCorrection: true}
}

func (s *ChiSquared) Name() string {
	return "chi_squared"
}

func (s *ChiSquared) Description() string {
	return "Chi-squared test of independence on a 2x2 contingency table"
}

func (s *ChiSquared) PValue(table *stats.ContingencyTable) (float64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	if table.Rows() != 2 || table.Cols() != 2 {
		return 0, core.ValidationError("chi-squared test supports 2x2 tables, got %dx%d", table.Rows(), table.Cols())
	}
	_, p := fet.ChiSquareTest(
		table.Counts[0][0], table.Counts[0][1],
		table.Counts[1][0], table.Counts[1][1],
		s.YatesCorrection,
	)
	return clampP(p), nil
}

func checkTable(table *stats.ContingencyTable) error {
	if table == nil {
		return core.ValidationError("contingency table is nil")
	}
	for row := range table.RowLabels {
		if table.RowTotal(row) == 0 {
			return core.DegenerateTable("phenotype class %q has no individuals", table.RowLabels[row])
		}
	}
	for col := range table.ColLabels {
		if table.ColTotal(col) == 0 {
			return core.DegenerateTable("genotype class %q has no individuals", table.ColLabels[col])
		}
	}
	return nil
}

func clampP(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
