package genotype

import (
	"gpcorr/domain/core"
	"gpcorr/domain/model"
)

// Unassigned marks an individual the frozen classifier leaves out of
// every class.
const Unassigned = -1

// FrozenClassifier carries precomputed class codes for one cohort
// snapshot, e.g. assignments imported from an external clustering or
// curated by hand. It is bound to the cohort it was built from:
// classifying an individual outside the snapshot is a lookup error,
// not an unassignable outcome, since it signals the classifier is
// being applied to the wrong cohort.
type FrozenClassifier struct {
	question string
	labels   []string
	codes    map[model.SampleID]int
	cohort   core.CohortHash
}

// NewFrozen builds the classifier from a cohort and a parallel slice
// of class codes in cohort iteration order. A code is either an index
// into labels or Unassigned.
func NewFrozen(cohort *model.Cohort, codes []int, labels []string, question string) (*FrozenClassifier, error) {
	if cohort == nil || cohort.Size() == 0 {
		return nil, core.ConfigurationError("frozen classifier needs a non-empty cohort")
	}
	if len(codes) != cohort.Size() {
		return nil, core.ConfigurationError("got %d codes for a cohort of %d individuals", len(codes), cohort.Size())
	}
	if len(labels) < 2 {
		return nil, core.ConfigurationError("need at least 2 class labels, got %d", len(labels))
	}
	if question == "" {
		question = "Predefined genotype group"
	}

	byID := make(map[model.SampleID]int, len(codes))
	for i, member := range cohort.Members() {
		code := codes[i]
		if code != Unassigned && (code < 0 || code >= len(labels)) {
			return nil, core.ConfigurationError("code %d of individual %s is outside the %d classes", code, member.ID(), len(labels))
		}
		byID[member.ID()] = code
	}
	return &FrozenClassifier{
		question: question,
		labels:   append([]string(nil), labels...),
		codes:    byID,
		cohort:   cohort.Hash(),
	}, nil
}

func (c *FrozenClassifier) Question() string { return c.question }
func (c *FrozenClassifier) Labels() []string { return c.labels }

// CohortHash identifies the cohort snapshot the classifier is bound to.
func (c *FrozenClassifier) CohortHash() core.CohortHash { return c.cohort }

func (c *FrozenClassifier) Classify(individual *model.Individual) (int, bool, error) {
	code, ok := c.codes[individual.ID()]
	if !ok {
		return 0, false, core.LookupFailed("individual %s is not in the classifier's cohort snapshot", individual.ID())
	}
	if code == Unassigned {
		return 0, false, nil
	}
	return code, true, nil
}
