package app

import (
	"sort"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/domain/stats"
	"gpcorr/ports"
)

// unassigned marks cohort members the genotype classifier left out of
// every class.
const unassigned = -1

// TermsOfInterest enumerates the candidate phenotype terms of a
// cohort: every directly annotated term plus, for observed
// annotations, all of their ancestors, since an individual annotated
// with a term implicitly carries every ancestor of it. The ontology
// root is left out; every individual trivially carries it.
// Annotations the ontology does not know are skipped.
func TermsOfInterest(cohort *model.Cohort, ontology ports.Ontology) []model.TermID {
	seen := make(map[model.TermID]struct{})
	for _, member := range cohort.Members() {
		for _, p := range member.Phenotypes() {
			record, ok := ontology.Term(p.Term())
			if !ok {
				continue
			}
			seen[record.ID] = struct{}{}
			if !p.IsObserved() {
				continue
			}
			for _, ancestor := range ontology.AncestorsOf(record.ID) {
				seen[ancestor] = struct{}{}
			}
		}
	}
	delete(seen, ontology.Root())

	out := make([]model.TermID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// genotypeGroups is a cohort's genotype classification, hoisted out of
// the per-term loop: one class code per member in cohort order, the
// number of assignable members per class, and the number left out of
// every class.
type genotypeGroups struct {
	labels   []string
	codes    []int
	sizes    []int
	excluded int
}

func classifyGenotypes(cohort *model.Cohort, classifier ports.Classifier) (*genotypeGroups, error) {
	labels := classifier.Labels()
	if len(labels) < 2 {
		return nil, core.ConfigurationError("genotype classifier has %d classes, need at least 2", len(labels))
	}
	groups := &genotypeGroups{
		labels: append([]string(nil), labels...),
		codes:  make([]int, cohort.Size()),
		sizes:  make([]int, len(labels)),
	}
	for i, member := range cohort.Members() {
		class, assigned, err := classifier.Classify(member)
		if err != nil {
			return nil, core.Wrapf(err, "classify genotype of %s", member.ID())
		}
		if !assigned {
			groups.codes[i] = unassigned
			groups.excluded++
			continue
		}
		if class < 0 || class >= len(labels) {
			return nil, core.ValidationError("genotype class %d of %s is outside the %d classes", class, member.ID(), len(labels))
		}
		groups.codes[i] = class
		groups.sizes[class]++
	}
	return groups, nil
}

// tabulateTerm cross-tabulates one phenotype classifier against the
// precomputed genotype classes. Individuals unassignable on either
// axis stay out of the table; the second return value counts those
// the phenotype classifier dropped.
func tabulateTerm(cohort *model.Cohort, groups *genotypeGroups, pheno ports.TermClassifier) (*stats.ContingencyTable, int, error) {
	pairs := make([]stats.ClassPair, 0, cohort.Size())
	excluded := 0
	for i, member := range cohort.Members() {
		col := groups.codes[i]
		if col == unassigned {
			continue
		}
		row, assigned, err := pheno.Classify(member)
		if err != nil {
			return nil, 0, core.Wrapf(err, "classify %s for term %s", member.ID(), pheno.Term().ID)
		}
		if !assigned {
			excluded++
			continue
		}
		pairs = append(pairs, stats.ClassPair{Row: row, Col: col})
	}
	table, err := stats.Tabulate(pheno.Labels(), groups.labels, pairs)
	if err != nil {
		return nil, 0, err
	}
	return table, excluded, nil
}
