// Package app orchestrates genotype-phenotype comparisons: it wires
// classifiers, count statistics, multiple-testing filters and
// correction procedures into complete analysis runs over a cohort.
package app

import (
	"context"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gpcorr/adapters/stats/correction"
	"gpcorr/adapters/stats/counts"
	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/domain/run"
	"gpcorr/domain/stats"
	"gpcorr/internal/log"
	"gpcorr/ports"
)

// Analyzer runs genotype-phenotype association sweeps. It is safe for
// concurrent use; each comparison produces an independent result.
type Analyzer struct {
	filter    ports.MTCFilter
	statistic ports.CountStatistic
	procedure *correction.Procedure
	workers   int
	log       *logrus.Entry
}

// AnalyzerConfig tunes an Analyzer. The zero value selects the
// defaults.
type AnalyzerConfig struct {
	// Statistic computes per-term nominal p-values. Defaults to the
	// Fisher exact test.
	Statistic ports.CountStatistic
	// Procedure adjusts nominal p-values for multiple testing.
	// Defaults to Benjamini-Hochberg.
	Procedure *correction.Procedure
	// Workers bounds how many terms are processed concurrently.
	// Defaults to the number of CPUs.
	Workers int
	// Logger receives run summaries. Defaults to a quiet logger.
	Logger *logrus.Logger
}

// NewAnalyzer builds an analyzer around a multiple-testing filter.
func NewAnalyzer(filter ports.MTCFilter, config *AnalyzerConfig) (*Analyzer, error) {
	if filter == nil {
		return nil, core.ConfigurationError("analyzer needs a multiple-testing filter")
	}
	if config == nil {
		config = &AnalyzerConfig{}
	}
	if config.Workers < 0 {
		return nil, core.ConfigurationError("worker count %d is negative", config.Workers)
	}

	statistic := config.Statistic
	if statistic == nil {
		statistic = counts.NewFisherExact()
	}
	procedure := config.Procedure
	if procedure == nil {
		procedure = correction.NewBenjaminiHochberg()
	}
	workers := config.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Quiet()
	}
	return &Analyzer{
		filter:    filter,
		statistic: statistic,
		procedure: procedure,
		workers:   workers,
		log:       logger.WithField("component", "analysis"),
	}, nil
}

// CompareGenotypeVsPhenotypes cross-tabulates each phenotype term
// against the genotype classifier, filters the term family, tests the
// surviving terms and corrects their p-values. Records come back in
// input term order.
//
// Per-term failures, such as a table degenerate under the statistic,
// are recorded as FAILED and never abort the run. The error return is
// reserved for invalid configuration, malformed input and context
// cancellation.
func (a *Analyzer) CompareGenotypeVsPhenotypes(ctx context.Context, cohort *model.Cohort, genotype ports.Classifier, phenotypes []ports.TermClassifier) (*stats.AnalysisResult, error) {
	start := time.Now()
	if cohort == nil || cohort.Size() == 0 {
		return nil, core.ValidationError("cohort is empty")
	}
	if genotype == nil {
		return nil, core.ConfigurationError("genotype classifier is nil")
	}
	if len(phenotypes) == 0 {
		return nil, core.ValidationError("no phenotype terms to compare")
	}
	seen := make(map[model.TermID]struct{}, len(phenotypes))
	for _, pheno := range phenotypes {
		id := pheno.Term().ID
		if _, dup := seen[id]; dup {
			return nil, core.ValidationError("term %s appears twice in the comparison", id)
		}
		seen[id] = struct{}{}
	}

	groups, err := classifyGenotypes(cohort, genotype)
	if err != nil {
		return nil, err
	}

	records := make([]stats.TermRecord, len(phenotypes))
	for i, pheno := range phenotypes {
		term := pheno.Term()
		records[i] = stats.TermRecord{Term: term.ID, Label: term.Label}
	}

	// Tabulation is independent per term over the read-only cohort.
	// Each term writes into its preassigned record, so record order
	// does not depend on completion order.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range phenotypes {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			table, excluded, err := tabulateTerm(cohort, groups, phenotypes[i])
			if err != nil {
				records[i].Status = stats.StatusFailed
				records[i].Reason = err.Error()
				records[i].Err = err
				return nil
			}
			records[i].Table = table
			records[i].Excluded = excluded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The filter sees the whole surviving batch at once so heuristics
	// can compare terms against each other.
	batch := make([]stats.TermCounts, 0, len(records))
	batchIdx := make([]int, 0, len(records))
	for i := range records {
		if records[i].Status == stats.StatusFailed {
			continue
		}
		batch = append(batch, stats.TermCounts{Term: records[i].Term, Table: records[i].Table})
		batchIdx = append(batchIdx, i)
	}
	decisions, err := a.filter.Filter(batch, groups.sizes)
	if err != nil {
		return nil, core.Wrapf(err, "filter term family with %s", a.filter.Name())
	}
	if len(decisions) != len(batch) {
		return nil, core.ValidationError("filter %s returned %d decisions for %d terms", a.filter.Name(), len(decisions), len(batch))
	}
	for k, decision := range decisions {
		i := batchIdx[k]
		if decision.Tested {
			records[i].Status = stats.StatusTested
		} else {
			records[i].Status = stats.StatusSkipped
			records[i].Reason = decision.Reason
		}
	}

	tested := make([]int, 0, len(records))
	for i := range records {
		if records[i].Status == stats.StatusTested {
			tested = append(tested, i)
		}
	}
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for _, i := range tested {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := a.statistic.PValue(records[i].Table)
			if err != nil {
				records[i].Status = stats.StatusFailed
				records[i].Reason = err.Error()
				records[i].Err = err
				return nil
			}
			records[i].NominalP = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Correction needs the complete vector of nominal p-values; the
	// step-down and step-up procedures are not separable per term. The
	// vector keeps stable term order.
	survivors := make([]int, 0, len(tested))
	pvalues := make([]float64, 0, len(tested))
	for _, i := range tested {
		if records[i].Status != stats.StatusTested {
			continue
		}
		survivors = append(survivors, i)
		pvalues = append(pvalues, records[i].NominalP)
	}
	corrected, err := a.procedure.Adjust(pvalues)
	if err != nil {
		return nil, core.Wrapf(err, "adjust p-values with %s", a.procedure.Name())
	}
	for k, i := range survivors {
		records[i].CorrectedP = corrected[k]
	}

	result := &stats.AnalysisResult{
		RunID:            core.NewRunID(),
		CohortHash:       cohort.Hash(),
		Question:         genotype.Question(),
		ColLabels:        groups.labels,
		Statistic:        a.statistic.Name(),
		Filter:           a.filter.Name(),
		Procedure:        a.procedure.Name(),
		GenotypeExcluded: groups.excluded,
		Records:          records,
	}

	skipped, failed := 0, 0
	for i := range records {
		switch records[i].Status {
		case stats.StatusSkipped:
			skipped++
		case stats.StatusFailed:
			failed++
		}
	}
	manifest := run.ManifestFor(result)
	a.log.WithFields(logrus.Fields{
		"run_id":      result.RunID,
		"fingerprint": manifest.Fingerprint.Value,
		"terms":       result.TermsConsidered(),
		"tested":      len(survivors),
		"skipped":     skipped,
		"failed":      failed,
		"duration":    time.Since(start),
	}).Info("genotype-phenotype comparison finished")
	return result, nil
}
