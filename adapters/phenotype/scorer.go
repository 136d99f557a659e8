package phenotype

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/ports"
)

// CountingScorer scores an individual by the number of query branches
// in which it has at least one present annotation. With query terms
// drawn from the top of the phenotypic abnormality hierarchy this is
// an organ-system involvement count.
//
// Individuals without any phenotype annotation score NaN and are
// dropped from score comparisons.
type CountingScorer struct {
	ontology ports.Ontology
	query    []model.TermID
}

// NewCountingScorer builds a scorer over the given query terms. The
// terms must exist in the ontology and must not overlap, i.e. no query
// term may be an ancestor of another, since an annotation under both
// would be counted twice.
func NewCountingScorer(ontology ports.Ontology, query []model.TermID) (*CountingScorer, error) {
	if len(query) == 0 {
		return nil, core.ValidationError("counting scorer needs at least one query term")
	}
	normalized := make([]model.TermID, 0, len(query))
	seen := make(map[model.TermID]bool, len(query))
	for _, q := range query {
		record, ok := ontology.Term(q)
		if !ok {
			return nil, core.ValidationError("query term %s is not in the ontology", q)
		}
		if seen[record.ID] {
			return nil, core.ValidationError("duplicate query term %s", record.ID)
		}
		seen[record.ID] = true
		normalized = append(normalized, record.ID)
	}
	for _, a := range normalized {
		for _, b := range normalized {
			if a != b && ontology.IsAncestorOf(a, b) {
				return nil, core.ValidationError("query terms overlap: %s is an ancestor of %s", a, b)
			}
		}
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i] < normalized[j] })
	return &CountingScorer{ontology: ontology, query: normalized}, nil
}

func (s *CountingScorer) Name() string { return "Phenotype group count" }

func (s *CountingScorer) Description() string {
	ids := make([]string, len(s.query))
	for i, q := range s.query {
		ids[i] = q.String()
	}
	return fmt.Sprintf("Number of query branches with at least one present phenotype (%s)", strings.Join(ids, ", "))
}

func (s *CountingScorer) Score(individual *model.Individual) float64 {
	if len(individual.Phenotypes()) == 0 {
		return math.NaN()
	}
	count := 0
	for _, q := range s.query {
		for _, p := range individual.PresentPhenotypes() {
			annotated := p.Term()
			if record, ok := s.ontology.Term(annotated); ok {
				annotated = record.ID
			}
			if annotated == q || s.ontology.IsAncestorOf(q, annotated) {
				count++
				break
			}
		}
	}
	return float64(count)
}
