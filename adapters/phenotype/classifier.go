package phenotype

import (
	"fmt"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/ports"
)

// Class indices of a term classifier.
const (
	ClassObserved = 0
	ClassExcluded = 1
)

var termClassLabels = []string{"Yes", "No"}

// TermClassifier asks whether one HPO term is observed or excluded in
// an individual, applying the annotation propagation rule: a term
// counts as observed when the individual carries it or any of its
// descendants as a present annotation, and as excluded when the
// individual carries it or any of its ancestors as an excluded
// annotation. An observed match takes precedence.
//
// Individuals matching neither way are unassignable unless the
// classifier was built with missingImpliesExcluded, in which case they
// fall into the excluded class.
type TermClassifier struct {
	ontology               ports.Ontology
	term                   model.Term
	missingImpliesExcluded bool
}

// NewTermClassifier builds a classifier for one term. The term must
// exist in the ontology; alternative identifiers are normalized to the
// primary one.
func NewTermClassifier(ontology ports.Ontology, term model.TermID, missingImpliesExcluded bool) (*TermClassifier, error) {
	record, ok := ontology.Term(term)
	if !ok {
		return nil, core.ValidationError("term %s is not in the ontology", term)
	}
	return &TermClassifier{
		ontology:               ontology,
		term:                   record,
		missingImpliesExcluded: missingImpliesExcluded,
	}, nil
}

// ClassifiersForTerms builds one classifier per term, in input order.
func ClassifiersForTerms(ontology ports.Ontology, terms []model.TermID, missingImpliesExcluded bool) ([]ports.TermClassifier, error) {
	out := make([]ports.TermClassifier, 0, len(terms))
	for _, term := range terms {
		c, err := NewTermClassifier(ontology, term, missingImpliesExcluded)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Term returns the classified term under its primary identifier.
func (c *TermClassifier) Term() model.Term { return c.term }

func (c *TermClassifier) Question() string {
	return fmt.Sprintf("Is %s present", c.term.Name())
}

func (c *TermClassifier) Labels() []string { return termClassLabels }

func (c *TermClassifier) Classify(individual *model.Individual) (int, bool, error) {
	excluded := false
	for _, p := range individual.Phenotypes() {
		annotated := c.normalize(p.Term())
		if p.IsObserved() {
			if annotated == c.term.ID || c.ontology.IsAncestorOf(c.term.ID, annotated) {
				return ClassObserved, true, nil
			}
		} else {
			if annotated == c.term.ID || c.ontology.IsAncestorOf(annotated, c.term.ID) {
				excluded = true
			}
		}
	}
	if excluded || c.missingImpliesExcluded {
		return ClassExcluded, true, nil
	}
	return 0, false, nil
}

// normalize maps alternative identifiers onto their primary term so
// that annotations using retired identifiers still propagate. Terms
// unknown to the ontology pass through and can only match by identity.
func (c *TermClassifier) normalize(id model.TermID) model.TermID {
	if record, ok := c.ontology.Term(id); ok {
		return record.ID
	}
	return id
}
