// Package correction provides multiple-testing correction procedures.
// Each procedure maps a vector of nominal p-values to corrected
// p-values of the same length and order; the family-wise procedures
// and the false-discovery-rate procedures reproduce the adjusted
// p-values of the statsmodels multipletests reference implementation.
package correction

import (
	"math"
	"sort"

	"gpcorr/domain/core"
)

// DefaultAlpha parameterizes the two-stage procedures.
const DefaultAlpha = 0.05

// DefaultProcedure is used when no correction is configured.
const DefaultProcedure = "fdr_bh"

// Procedure is one correction method.
type Procedure struct {
	name        string
	description string
	adjust      func(pvalues []float64) []float64
}

func (proc *Procedure) Name() string        { return proc.name }
func (proc *Procedure) Description() string { return proc.description }

// Adjust validates the nominal p-values and returns the corrected
// vector, same length and order. The input is not modified.
func (proc *Procedure) Adjust(pvalues []float64) ([]float64, error) {
	for i, p := range pvalues {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, core.ValidationError("p-value %v at index %d is outside [0, 1]", p, i)
		}
	}
	if len(pvalues) == 0 {
		return []float64{}, nil
	}
	return proc.adjust(append([]float64(nil), pvalues...)), nil
}

// NewBonferroni multiplies each p-value by the number of tests.
func NewBonferroni() *Procedure {
	return &Procedure{
		name:        "bonferroni",
		description: "One-step Bonferroni family-wise error control",
		adjust: func(pvalues []float64) []float64 {
			n := float64(len(pvalues))
			for i, p := range pvalues {
				pvalues[i] = p * n
			}
			clip(pvalues)
			return pvalues
		},
	}
}

// NewSidak applies the one-step Sidak correction 1-(1-p)^n.
func NewSidak() *Procedure {
	return &Procedure{
		name:        "sidak",
		description: "One-step Sidak family-wise error control",
		adjust: func(pvalues []float64) []float64 {
			n := float64(len(pvalues))
			for i, p := range pvalues {
				pvalues[i] = 1 - math.Pow(1-p, n)
			}
			clip(pvalues)
			return pvalues
		},
	}
}

// NewHolm applies the step-down Holm correction.
func NewHolm() *Procedure {
	return &Procedure{
		name:        "holm",
		description: "Step-down Holm family-wise error control",
		adjust: sorted(func(p []float64) []float64 {
			n := len(p)
			for k := range p {
				p[k] *= float64(n - k)
			}
			prefixCummax(p)
			return p
		}),
	}
}

// NewHolmSidak applies the step-down Holm correction with Sidak
// factors.
func NewHolmSidak() *Procedure {
	return &Procedure{
		name:        "holm-sidak",
		description: "Step-down Holm-Sidak family-wise error control",
		adjust: sorted(func(p []float64) []float64 {
			n := len(p)
			for k := range p {
				p[k] = 1 - math.Pow(1-p[k], float64(n-k))
			}
			prefixCummax(p)
			return p
		}),
	}
}

// NewSimesHochberg applies the step-up Simes-Hochberg correction.
func NewSimesHochberg() *Procedure {
	return &Procedure{
		name:        "simes-hochberg",
		description: "Step-up Simes-Hochberg family-wise error control",
		adjust: sorted(func(p []float64) []float64 {
			n := len(p)
			for k := range p {
				p[k] *= float64(n - k)
			}
			suffixCummin(p)
			return p
		}),
	}
}

// NewHommel applies Hommel's closed testing procedure.
func NewHommel() *Procedure {
	return &Procedure{
		name:        "hommel",
		description: "Hommel closed-test family-wise error control",
		adjust: sorted(func(p []float64) []float64 {
			n := len(p)
			a := append([]float64(nil), p...)
			for m := n; m > 1; m-- {
				cim := math.Inf(1)
				for j := 0; j < m; j++ {
					c := float64(m) * p[n-m+j] / float64(j+1)
					if c < cim {
						cim = c
					}
				}
				for i := n - m; i < n; i++ {
					if cim > a[i] {
						a[i] = cim
					}
				}
				// Hypotheses before the tail block are bounded by the
				// tail minimum.
				for i := 0; i < n-m; i++ {
					if c := math.Min(cim, float64(m)*p[i]); c > a[i] {
						a[i] = c
					}
				}
			}
			return a
		}),
	}
}

// NewBenjaminiHochberg controls the false discovery rate under
// independence.
func NewBenjaminiHochberg() *Procedure {
	return &Procedure{
		name:        "fdr_bh",
		description: "Benjamini-Hochberg false discovery rate control",
		adjust: sorted(func(p []float64) []float64 {
			benjaminiHochberg(p)
			return p
		}),
	}
}

// NewBenjaminiYekutieli controls the false discovery rate under
// arbitrary dependence.
func NewBenjaminiYekutieli() *Procedure {
	return &Procedure{
		name:        "fdr_by",
		description: "Benjamini-Yekutieli false discovery rate control under dependence",
		adjust: sorted(func(p []float64) []float64 {
			n := len(p)
			cm := 0.0
			for i := 1; i <= n; i++ {
				cm += 1 / float64(i)
			}
			for k := range p {
				p[k] *= cm * float64(n) / float64(k+1)
			}
			suffixCummin(p)
			return p
		}),
	}
}

// NewTwoStageBH is the two-stage Benjamini-Hochberg procedure: a first
// pass at level alpha estimates the number of true null hypotheses,
// which then shrinks the correction factor.
func NewTwoStageBH(alpha float64) *Procedure {
	return &Procedure{
		name:        "fdr_tsbh",
		description: "Two-stage Benjamini-Hochberg false discovery rate control",
		adjust:      twoStage(alpha, false),
	}
}

// NewTwoStageBKY is the two-stage procedure of Benjamini, Krieger and
// Yekutieli, running the first pass at level alpha/(1+alpha).
func NewTwoStageBKY(alpha float64) *Procedure {
	return &Procedure{
		name:        "fdr_tsbky",
		description: "Two-stage Benjamini-Krieger-Yekutieli false discovery rate control",
		adjust:      twoStage(alpha, true),
	}
}

// NewGavrilovBenjaminiSarkar applies the adaptive step-down procedure
// of Gavrilov, Benjamini and Sarkar.
func NewGavrilovBenjaminiSarkar() *Procedure {
	return &Procedure{
		name:        "fdr_gbs",
		description: "Gavrilov-Benjamini-Sarkar adaptive false discovery rate control",
		adjust: sorted(func(p []float64) []float64 {
			n := len(p)
			for k := range p {
				if p[k] >= 1 {
					p[k] = math.Inf(1)
					continue
				}
				p[k] = float64(n-k) / float64(k+1) * p[k] / (1 - p[k])
			}
			prefixCummax(p)
			suffixCummin(p)
			return p
		}),
	}
}

// benjaminiHochberg adjusts an ascending p-value slice in place,
// without the final clip.
func benjaminiHochberg(p []float64) {
	n := len(p)
	for k := range p {
		p[k] *= float64(n) / float64(k+1)
	}
	suffixCummin(p)
}

func twoStage(alpha float64, bky bool) func([]float64) []float64 {
	return func(pvalues []float64) []float64 {
		order := argsort(pvalues)
		p := make([]float64, len(pvalues))
		for k, idx := range order {
			p[k] = pvalues[idx]
		}

		alphaPrime := alpha
		factor := 1.0
		if bky {
			factor = 1 + alpha
			alphaPrime = alpha / factor
		}

		benjaminiHochberg(p)
		rejected := 0
		for _, q := range p {
			if q <= alphaPrime {
				rejected++
			}
		}

		n := len(p)
		if rejected > 0 && rejected < n {
			// Scale by the estimated share of true null hypotheses.
			scale := float64(n-rejected) / float64(n)
			for k := range p {
				p[k] *= scale
			}
		}
		for k := range p {
			p[k] *= factor
		}

		clip(p)
		return restore(p, order)
	}
}

var procedures = map[string]func() *Procedure{
	"bonferroni":     NewBonferroni,
	"sidak":          NewSidak,
	"holm":           NewHolm,
	"holm-sidak":     NewHolmSidak,
	"simes-hochberg": NewSimesHochberg,
	"hommel":         NewHommel,
	"fdr_bh":         NewBenjaminiHochberg,
	"fdr_by":         NewBenjaminiYekutieli,
	"fdr_tsbh":       func() *Procedure { return NewTwoStageBH(DefaultAlpha) },
	"fdr_tsbky":      func() *Procedure { return NewTwoStageBKY(DefaultAlpha) },
	"fdr_gbs":        NewGavrilovBenjaminiSarkar,
}

// ByName resolves a procedure by its configuration name. The
// two-stage procedures use DefaultAlpha.
func ByName(name string) (*Procedure, error) {
	build, ok := procedures[name]
	if !ok {
		return nil, core.ConfigurationError("unknown correction procedure %q, expected one of %v", name, Names())
	}
	return build(), nil
}

// Names lists the available procedure names in ascending order.
func Names() []string {
	names := make([]string, 0, len(procedures))
	for name := range procedures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sorted wraps an adjustment over ascending p-values with the
// sort/restore/clip boilerplate shared by the step procedures.
func sorted(adjust func(p []float64) []float64) func([]float64) []float64 {
	return func(pvalues []float64) []float64 {
		order := argsort(pvalues)
		p := make([]float64, len(pvalues))
		for k, idx := range order {
			p[k] = pvalues[idx]
		}
		p = adjust(p)
		clip(p)
		return restore(p, order)
	}
}

func argsort(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return values[order[i]] < values[order[j]] })
	return order
}

func restore(sorted []float64, order []int) []float64 {
	out := make([]float64, len(sorted))
	for k, idx := range order {
		out[idx] = sorted[k]
	}
	return out
}

func prefixCummax(values []float64) {
	for i := 1; i < len(values); i++ {
		if values[i-1] > values[i] {
			values[i] = values[i-1]
		}
	}
}

func suffixCummin(values []float64) {
	for i := len(values) - 2; i >= 0; i-- {
		if values[i+1] < values[i] {
			values[i] = values[i+1]
		}
	}
}

func clip(values []float64) {
	for i, v := range values {
		if v > 1 {
			values[i] = 1
		}
	}
}
