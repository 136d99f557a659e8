package ports

import "gpcorr/domain/stats"

// MTCFilter decides which phenotype terms enter the tested family
// before multiple-testing correction. The filter sees the whole batch
// at once so that heuristics may compare terms against each other,
// e.g. a parent term against its children.
//
// Filter returns one decision per input term, in input order.
// groupSizes holds the number of assignable individuals per genotype
// class, indexed like the table columns.
type MTCFilter interface {
	Name() string
	Filter(terms []stats.TermCounts, groupSizes []int) ([]stats.FilterDecision, error)
}
