package mtcfilter

import (
	"fmt"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/domain/stats"
	"gpcorr/ports"
)

// DefaultFrequencyThreshold is the minimum share of a genotype group
// that must carry a term annotation for the term to stay testable.
const DefaultFrequencyThreshold = 0.4

// DefaultPhenotypicAbnormality roots the phenotypic branch of the HPO.
var DefaultPhenotypicAbnormality = model.TermID("HP:0000118")

// Fixed skip reasons. The rare-on-cohort reason is built per filter
// because it names the configured threshold.
const (
	ReasonNonPhenotypic = "not a descendant of Phenotypic abnormality"
	ReasonGeneralTerm   = "general term directly below Phenotypic abnormality"
	ReasonRedundant     = "count vector identical to an immediate child"
	ReasonEmptyGroup    = "a genotype group has no annotation"
	ReasonUnderpowered  = "too few annotations for the table shape"
)

// HeuristicConfig tunes the heuristic chain. The zero value of every
// field selects its default.
type HeuristicConfig struct {
	// FrequencyThreshold replaces DefaultFrequencyThreshold; must lie
	// in (0, 1].
	FrequencyThreshold float64
	// PhenotypicAbnormality replaces DefaultPhenotypicAbnormality for
	// ontologies rooted elsewhere.
	PhenotypicAbnormality model.TermID
}

// HeuristicFilter runs each term through an ordered chain of skip
// heuristics. The first matching heuristic records its reason and
// short-circuits the rest; a term that survives the whole chain is
// tested. The heuristics are independent predicates over the same
// inputs, so the order only decides which reason gets reported.
type HeuristicFilter struct {
	ontology   ports.Ontology
	branchRoot model.TermID
	threshold  float64
	rareReason string
}

func NewHeuristicFilter(ontology ports.Ontology, config *HeuristicConfig) (*HeuristicFilter, error) {
	if ontology == nil {
		return nil, core.ConfigurationError("heuristic filter needs an ontology")
	}
	threshold := DefaultFrequencyThreshold
	branchRoot := DefaultPhenotypicAbnormality
	if config != nil {
		if config.FrequencyThreshold != 0 {
			threshold = config.FrequencyThreshold
		}
		if !config.PhenotypicAbnormality.IsEmpty() {
			branchRoot = config.PhenotypicAbnormality
		}
	}
	if threshold < 0 || threshold > 1 {
		return nil, core.ConfigurationError("frequency threshold %v is outside [0, 1]", threshold)
	}
	if _, ok := ontology.Term(branchRoot); !ok {
		return nil, core.ConfigurationError("ontology does not contain branch root %s", branchRoot)
	}
	return &HeuristicFilter{
		ontology:   ontology,
		branchRoot: branchRoot,
		threshold:  threshold,
		rareReason: fmt.Sprintf("annotated in less than %g%% of every genotype group", threshold*100),
	}, nil
}

func (*HeuristicFilter) Name() string { return "hpo-heuristic-filter" }

// heuristic pairs a skip predicate with the reason it records.
type heuristic struct {
	reason string
	skip   func(term stats.TermCounts) bool
}

func (f *HeuristicFilter) Filter(terms []stats.TermCounts, groupSizes []int) ([]stats.FilterDecision, error) {
	if err := checkBatch(terms, groupSizes); err != nil {
		return nil, err
	}

	tables := make(map[model.TermID]*stats.ContingencyTable, len(terms))
	for _, term := range terms {
		tables[term.Term] = term.Table
	}

	chain := []heuristic{
		{ReasonNonPhenotypic, f.outsidePhenotypicBranch},
		{ReasonGeneralTerm, f.generalTerm},
		{ReasonRedundant, f.redundantWithChild(tables)},
		{ReasonEmptyGroup, emptyGroup},
		{ReasonUnderpowered, underpowered},
		{f.rareReason, f.rareOnCohort(groupSizes)},
	}

	decisions := make([]stats.FilterDecision, len(terms))
	for i, term := range terms {
		decisions[i] = stats.FilterDecision{Tested: true}
		for _, h := range chain {
			if h.skip(term) {
				decisions[i] = stats.FilterDecision{Reason: h.reason}
				break
			}
		}
	}
	return decisions, nil
}

func checkBatch(terms []stats.TermCounts, groupSizes []int) error {
	if len(groupSizes) < 2 {
		return core.ValidationError("filtering needs at least two genotype groups, got %d", len(groupSizes))
	}
	for j, size := range groupSizes {
		if size < 0 {
			return core.ValidationError("genotype group %d has negative size %d", j, size)
		}
	}
	for _, term := range terms {
		if term.Table == nil {
			return core.ValidationError("term %s has no contingency table", term.Term)
		}
		if term.Table.Cols() != len(groupSizes) {
			return core.ValidationError("term %s table has %d genotype columns, expected %d",
				term.Term, term.Table.Cols(), len(groupSizes))
		}
		for j, size := range groupSizes {
			if total := term.Table.ColTotal(j); total > size {
				return core.ValidationError("term %s counts %d annotated in group %d of size %d",
					term.Term, total, j, size)
			}
		}
	}
	return nil
}

// outsidePhenotypicBranch skips terms that do not descend from the
// phenotypic branch root. Inheritance modes, clinical modifiers and
// family-history terms all live on sibling branches; the branch root
// itself is not its own descendant and is skipped too.
func (f *HeuristicFilter) outsidePhenotypicBranch(term stats.TermCounts) bool {
	return !f.ontology.IsAncestorOf(f.branchRoot, term.Term)
}

// generalTerm skips direct children of the branch root; terms at that
// level ("Abnormality of the nervous system") are too unspecific to
// interpret.
func (f *HeuristicFilter) generalTerm(term stats.TermCounts) bool {
	for _, parent := range f.ontology.Parents(term.Term) {
		if parent == f.branchRoot {
			return true
		}
	}
	return false
}

// redundantWithChild skips a parent whose counts match an immediate
// child cell for cell: annotations have propagated up without change,
// so the parent repeats the child's evidence at lower specificity.
// Only children present in the batch take part.
func (f *HeuristicFilter) redundantWithChild(tables map[model.TermID]*stats.ContingencyTable) func(stats.TermCounts) bool {
	return func(term stats.TermCounts) bool {
		for _, child := range f.ontology.Children(term.Term) {
			if childTable, ok := tables[child]; ok && term.Table.EqualCounts(childTable) {
				return true
			}
		}
		return false
	}
}

func emptyGroup(term stats.TermCounts) bool {
	for j := 0; j < term.Table.Cols(); j++ {
		if term.Table.ColTotal(j) == 0 {
			return true
		}
	}
	return false
}

// underpowered skips tables whose grand total cannot reach a two-sided
// Fisher p-value near the usual alpha no matter how the counts fall:
// below 7 for a 2x2 table and below 6 for a 2x3 table. Other shapes
// pass unexamined.
func underpowered(term stats.TermCounts) bool {
	if term.Table.Rows() != 2 {
		return false
	}
	switch term.Table.Cols() {
	case 2:
		return term.Table.Total() < 7
	case 3:
		return term.Table.Total() < 6
	default:
		return false
	}
}

// rareOnCohort skips a term annotated, observed or excluded, in less
// than the threshold share of every genotype group. One group at or
// above the threshold keeps the term.
func (f *HeuristicFilter) rareOnCohort(groupSizes []int) func(stats.TermCounts) bool {
	return func(term stats.TermCounts) bool {
		for j, size := range groupSizes {
			if size == 0 {
				continue
			}
			if float64(term.Table.ColTotal(j))/float64(size) >= f.threshold {
				return false
			}
		}
		return true
	}
}
