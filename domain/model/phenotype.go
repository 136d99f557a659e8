package model

import (
	"strings"

	"gpcorr/domain/core"
)

// TermID is a curie-like ontology term identifier, e.g. "HP:0001250".
type TermID string

// ParseTermID validates the curie shape of an identifier.
func ParseTermID(value string) (TermID, error) {
	s := strings.TrimSpace(value)
	prefix, id, found := strings.Cut(s, ":")
	if !found || prefix == "" || id == "" {
		return "", core.ValidationError("term id %q is not a curie", value)
	}
	return TermID(s), nil
}

func (t TermID) String() string { return string(t) }

func (t TermID) IsEmpty() bool { return t == "" }

// Prefix returns the curie namespace, e.g. "HP".
func (t TermID) Prefix() string {
	prefix, _, _ := strings.Cut(string(t), ":")
	return prefix
}

// Term is the minimal ontology term view the analysis needs: identity
// and a display label. Hierarchy queries go through the ontology port.
type Term struct {
	ID    TermID
	Label string
}

// Name returns the label when one is known, the identifier otherwise.
func (t Term) Name() string {
	if t.Label != "" {
		return t.Label
	}
	return t.ID.String()
}

// Phenotype is one phenotypic feature annotation of an individual: the
// term, whether the feature was observed or explicitly excluded, and an
// optional onset age.
type Phenotype struct {
	term     TermID
	observed bool
	onset    *core.Age
}

// NewObservedPhenotype annotates a term as present.
func NewObservedPhenotype(term TermID) Phenotype {
	return Phenotype{term: term, observed: true}
}

// NewObservedPhenotypeAt annotates a term as present with an onset age.
func NewObservedPhenotypeAt(term TermID, onset core.Age) Phenotype {
	return Phenotype{term: term, observed: true, onset: &onset}
}

// NewExcludedPhenotype annotates a term as investigated and absent.
func NewExcludedPhenotype(term TermID) Phenotype {
	return Phenotype{term: term}
}

// Term returns the annotated term id.
func (p Phenotype) Term() TermID { return p.term }

// IsObserved reports whether the feature was present.
func (p Phenotype) IsObserved() bool { return p.observed }

// IsExcluded reports whether the feature was investigated and absent.
func (p Phenotype) IsExcluded() bool { return !p.observed }

// Onset returns the onset age, if known. Only observed features carry
// an onset.
func (p Phenotype) Onset() (core.Age, bool) {
	if p.onset == nil {
		return core.Age{}, false
	}
	return *p.onset, true
}

// Disease is a diagnosis statement: a disease identifier (e.g. an OMIM
// or MONDO curie), a label, and whether the diagnosis was affirmed or
// ruled out.
type Disease struct {
	id      TermID
	label   string
	present bool
}

// NewDisease creates a diagnosis statement.
func NewDisease(id TermID, label string, present bool) Disease {
	return Disease{id: id, label: label, present: present}
}

func (d Disease) ID() TermID      { return d.id }
func (d Disease) Label() string   { return d.label }
func (d Disease) IsPresent() bool { return d.present }
