package genotype

import (
	"fmt"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
)

// MonoallelicClassifier bins individuals carrying exactly one allele
// from one of two allele groups. An individual belongs to class A when
// its allele counts over (A, B) are (1, 0), to class B when (0, 1).
// Any other combination, including compound or biallelic carriers, is
// unassignable.
type MonoallelicClassifier struct {
	a      *AlleleCounter
	b      *AlleleCounter
	labels []string
}

// NewMonoallelic builds the classifier. Passing nil for b compares
// carriers of a against carriers of anything else, i.e. b = NOT a.
// Empty labels default to "A" and "B".
func NewMonoallelic(a, b VariantPredicate, aLabel, bLabel string) (*MonoallelicClassifier, error) {
	if a == nil {
		return nil, core.ValidationError("allele group A predicate is required")
	}
	if b == nil {
		b = Not(a)
	}
	if aLabel == "" {
		aLabel = "A"
	}
	if bLabel == "" {
		bLabel = "B"
	}
	if aLabel == bLabel {
		return nil, core.ValidationError("allele group labels must differ, both are %q", aLabel)
	}
	return &MonoallelicClassifier{
		a:      NewAlleleCounter(a),
		b:      NewAlleleCounter(b),
		labels: []string{aLabel, bLabel},
	}, nil
}

func (c *MonoallelicClassifier) Question() string { return "Allele group" }
func (c *MonoallelicClassifier) Labels() []string { return c.labels }

func (c *MonoallelicClassifier) Classify(individual *model.Individual) (int, bool, error) {
	countA := c.a.Count(individual)
	countB := c.b.Count(individual)
	switch {
	case countA == 1 && countB == 0:
		return 0, true, nil
	case countA == 0 && countB == 1:
		return 1, true, nil
	default:
		return 0, false, nil
	}
}

// BiallelicClassifier bins individuals carrying exactly two alleles
// from two allele groups into A/A, A/B and B/B classes by their
// (A, B) allele counts: (2, 0), (1, 1) and (0, 2). Any other
// combination is unassignable.
type BiallelicClassifier struct {
	a      *AlleleCounter
	b      *AlleleCounter
	labels []string
}

// NewBiallelic builds the classifier. Passing nil for b compares
// carriers of a against carriers of anything else. Empty labels
// default to "A" and "B"; class labels compose as "A/A", "A/B", "B/B".
func NewBiallelic(a, b VariantPredicate, aLabel, bLabel string) (*BiallelicClassifier, error) {
	if a == nil {
		return nil, core.ValidationError("allele group A predicate is required")
	}
	if b == nil {
		b = Not(a)
	}
	if aLabel == "" {
		aLabel = "A"
	}
	if bLabel == "" {
		bLabel = "B"
	}
	if aLabel == bLabel {
		return nil, core.ValidationError("allele group labels must differ, both are %q", aLabel)
	}
	return &BiallelicClassifier{
		a: NewAlleleCounter(a),
		b: NewAlleleCounter(b),
		labels: []string{
			fmt.Sprintf("%s/%s", aLabel, aLabel),
			fmt.Sprintf("%s/%s", aLabel, bLabel),
			fmt.Sprintf("%s/%s", bLabel, bLabel),
		},
	}, nil
}

func (c *BiallelicClassifier) Question() string { return "Allele group" }
func (c *BiallelicClassifier) Labels() []string { return c.labels }

func (c *BiallelicClassifier) Classify(individual *model.Individual) (int, bool, error) {
	countA := c.a.Count(individual)
	countB := c.b.Count(individual)
	switch {
	case countA == 2 && countB == 0:
		return 0, true, nil
	case countA == 1 && countB == 1:
		return 1, true, nil
	case countA == 0 && countB == 2:
		return 2, true, nil
	default:
		return 0, false, nil
	}
}

// GroupsClassifier bins individuals by which one of n allele groups
// they carry. An individual is assigned to class i when it carries at
// least one allele matching predicate i and none matching any other
// predicate; individuals matching several groups, or none, are
// unassignable.
type GroupsClassifier struct {
	counters []*AlleleCounter
	labels   []string
}

// NewGroups builds the classifier from parallel predicate and label
// slices.
func NewGroups(predicates []VariantPredicate, labels []string) (*GroupsClassifier, error) {
	if len(predicates) < 2 {
		return nil, core.ValidationError("need at least 2 genotype groups, got %d", len(predicates))
	}
	if len(predicates) != len(labels) {
		return nil, core.ValidationError("%d predicates but %d labels", len(predicates), len(labels))
	}
	seen := make(map[string]bool, len(labels))
	counters := make([]*AlleleCounter, len(predicates))
	for i, p := range predicates {
		if p == nil {
			return nil, core.ValidationError("genotype group %d has no predicate", i)
		}
		if labels[i] == "" {
			return nil, core.ValidationError("genotype group %d has an empty label", i)
		}
		if seen[labels[i]] {
			return nil, core.ValidationError("duplicate genotype group label %q", labels[i])
		}
		seen[labels[i]] = true
		counters[i] = NewAlleleCounter(p)
	}
	return &GroupsClassifier{
		counters: counters,
		labels:   append([]string(nil), labels...),
	}, nil
}

func (c *GroupsClassifier) Question() string { return "Genotype group" }
func (c *GroupsClassifier) Labels() []string { return c.labels }

func (c *GroupsClassifier) Classify(individual *model.Individual) (int, bool, error) {
	matched := -1
	for i, counter := range c.counters {
		if counter.Count(individual) == 0 {
			continue
		}
		if matched >= 0 {
			return 0, false, nil
		}
		matched = i
	}
	if matched < 0 {
		return 0, false, nil
	}
	return matched, true, nil
}

// SexClassifier bins individuals by phenotypic sex. Individuals of
// unknown sex are unassignable.
type SexClassifier struct{}

func NewSexClassifier() *SexClassifier { return &SexClassifier{} }

func (c *SexClassifier) Question() string { return "Sex of the individual" }

func (c *SexClassifier) Labels() []string {
	return []string{model.SexFemale.String(), model.SexMale.String()}
}

func (c *SexClassifier) Classify(individual *model.Individual) (int, bool, error) {
	switch individual.Sex() {
	case model.SexFemale:
		return 0, true, nil
	case model.SexMale:
		return 1, true, nil
	default:
		return 0, false, nil
	}
}
