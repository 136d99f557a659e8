// Package mtcfilter decides which phenotype terms enter the tested
// family before multiple-testing correction. Shrinking the family is
// the cheapest way to preserve power: every term that cannot possibly
// yield a finding still pays its share of the correction if it is
// tested.
package mtcfilter

import (
	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/domain/stats"
)

// ReasonNotSpecified marks terms outside a Specified filter's
// allow-list.
const ReasonNotSpecified = "not in specified set"

// UseAll admits every term. Results then carry the full correction
// burden of the whole term set.
type UseAll struct{}

func NewUseAll() *UseAll { return &UseAll{} }

func (*UseAll) Name() string { return "use-all" }

func (*UseAll) Filter(terms []stats.TermCounts, groupSizes []int) ([]stats.FilterDecision, error) {
	decisions := make([]stats.FilterDecision, len(terms))
	for i := range decisions {
		decisions[i] = stats.FilterDecision{Tested: true}
	}
	return decisions, nil
}

// Specified admits exactly the terms on an allow-list and skips the
// rest. Terms are matched by identifier; callers resolve alternative
// identifiers to primary ones beforehand.
type Specified struct {
	allowed map[model.TermID]struct{}
}

func NewSpecified(terms []model.TermID) (*Specified, error) {
	if len(terms) == 0 {
		return nil, core.ConfigurationError("specified-terms filter needs at least one term")
	}
	allowed := make(map[model.TermID]struct{}, len(terms))
	for _, term := range terms {
		if term.IsEmpty() {
			return nil, core.ConfigurationError("specified-terms filter got an empty term id")
		}
		allowed[term] = struct{}{}
	}
	return &Specified{allowed: allowed}, nil
}

func (*Specified) Name() string { return "specified-terms" }

func (s *Specified) Filter(terms []stats.TermCounts, groupSizes []int) ([]stats.FilterDecision, error) {
	decisions := make([]stats.FilterDecision, len(terms))
	for i, term := range terms {
		if _, ok := s.allowed[term.Term]; ok {
			decisions[i] = stats.FilterDecision{Tested: true}
		} else {
			decisions[i] = stats.FilterDecision{Reason: ReasonNotSpecified}
		}
	}
	return decisions, nil
}
