package scores

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gpcorr/domain/core"
)

// StudentTTest is the two-sided two-sample t-test with pooled
// variance. NaN scores are dropped before testing.
type StudentTTest struct{}

// NewStudentTTest creates the statistic.
func NewStudentTTest() *StudentTTest {
	return &StudentTTest{}
}

func (s *StudentTTest) Name() string {
	return "student_ttest"
}

func (s *StudentTTest) Description() string {
	return "Two-sided Student t-test on group means with pooled variance"
}

// Compare returns the two-sided p-value for the scores of two groups.
// Each group needs at least two scores to estimate its variance.
func (s *StudentTTest) Compare(a, b []float64) (float64, error) {
	a = dropNaN(a)
	b = dropNaN(b)
	if len(a) < 2 || len(b) < 2 {
		return 0, core.ValidationError("t-test needs at least 2 scores per group, got %d and %d", len(a), len(b))
	}

	meanA, err := stats.Mean(a)
	if err != nil {
		return 0, core.Wrap(err, "group A mean")
	}
	meanB, err := stats.Mean(b)
	if err != nil {
		return 0, core.Wrap(err, "group B mean")
	}
	varA, err := stats.SampleVariance(a)
	if err != nil {
		return 0, core.Wrap(err, "group A variance")
	}
	varB, err := stats.SampleVariance(b)
	if err != nil {
		return 0, core.Wrap(err, "group B variance")
	}

	n1 := float64(len(a))
	n2 := float64(len(b))
	df := n1 + n2 - 2
	pooled := ((n1-1)*varA + (n2-1)*varB) / df
	if pooled == 0 {
		if meanA == meanB {
			return 1, nil
		}
		return 0, nil
	}

	t := (meanA - meanB) / math.Sqrt(pooled*(1/n1+1/n2))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	if p > 1 {
		p = 1
	}
	return p, nil
}
