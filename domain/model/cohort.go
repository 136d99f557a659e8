package model

import (
	"sort"

	"gpcorr/domain/core"
)

// Cohort is an ordered, deduplicated collection of individuals. Sample
// identifiers are unique within a cohort; iteration order is insertion
// order and is stable for the lifetime of the value.
type Cohort struct {
	members []*Individual
	index   map[SampleID]int
}

// NewCohort builds a cohort from members, rejecting nil entries and
// duplicate sample identifiers.
func NewCohort(members ...*Individual) (*Cohort, error) {
	cohort := &Cohort{
		members: make([]*Individual, 0, len(members)),
		index:   make(map[SampleID]int, len(members)),
	}
	for i, m := range members {
		if m == nil {
			return nil, core.ValidationError("cohort member %d is nil", i)
		}
		if _, dup := cohort.index[m.ID()]; dup {
			return nil, core.ValidationError("duplicate sample id %q", m.ID())
		}
		cohort.index[m.ID()] = len(cohort.members)
		cohort.members = append(cohort.members, m)
	}
	return cohort, nil
}

// Size returns the number of members.
func (c *Cohort) Size() int { return len(c.members) }

// Members returns the members in insertion order. Read-only.
func (c *Cohort) Members() []*Individual { return c.members }

// Member returns the i-th member.
func (c *Cohort) Member(i int) *Individual { return c.members[i] }

// IndexOf returns the position of a sample in iteration order.
func (c *Cohort) IndexOf(id SampleID) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Contains reports whether the sample belongs to the cohort.
func (c *Cohort) Contains(id SampleID) bool {
	_, ok := c.index[id]
	return ok
}

// SampleIDs returns the member identifiers in iteration order.
func (c *Cohort) SampleIDs() []SampleID {
	ids := make([]SampleID, len(c.members))
	for i, m := range c.members {
		ids[i] = m.ID()
	}
	return ids
}

// Hash fingerprints the cohort membership.
func (c *Cohort) Hash() core.CohortHash {
	raw := make([]string, len(c.members))
	for i, m := range c.members {
		raw[i] = string(m.ID())
	}
	return core.ComputeCohortHash(raw)
}

// AnnotatedTermIDs returns the distinct directly annotated phenotype
// terms across all members, sorted by term id. This is the default
// term-of-interest set for a phenotype association sweep.
func (c *Cohort) AnnotatedTermIDs() []TermID {
	seen := map[TermID]bool{}
	var terms []TermID
	for _, m := range c.members {
		for _, p := range m.Phenotypes() {
			if !seen[p.Term()] {
				seen[p.Term()] = true
				terms = append(terms, p.Term())
			}
		}
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })
	return terms
}

// TermCount is a per-term annotation tally across the cohort.
type TermCount struct {
	Term     TermID `json:"term"`
	Present  int    `json:"present"`
	Excluded int    `json:"excluded"`
}

// CountPhenotypes tallies direct annotations per term, most frequently
// present first, ties broken by term id.
func (c *Cohort) CountPhenotypes() []TermCount {
	counts := map[TermID]*TermCount{}
	for _, m := range c.members {
		for _, p := range m.Phenotypes() {
			tc, ok := counts[p.Term()]
			if !ok {
				tc = &TermCount{Term: p.Term()}
				counts[p.Term()] = tc
			}
			if p.IsObserved() {
				tc.Present++
			} else {
				tc.Excluded++
			}
		}
	}
	out := make([]TermCount, 0, len(counts))
	for _, tc := range counts {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Present != out[j].Present {
			return out[i].Present > out[j].Present
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// VariantCount is a per-allele carrier tally across the cohort.
type VariantCount struct {
	Key      string `json:"key"`
	Carriers int    `json:"carriers"`
}

// CountVariants tallies how many members carry at least one alternate
// allele of each variant, most frequent first, ties broken by key.
func (c *Cohort) CountVariants() []VariantCount {
	counts := map[string]int{}
	for _, m := range c.members {
		for _, v := range m.Variants() {
			if v.GenotypeOf(m.ID()).AlleleCount() > 0 {
				counts[v.Key()]++
			}
		}
	}
	out := make([]VariantCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, VariantCount{Key: key, Carriers: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Carriers != out[j].Carriers {
			return out[i].Carriers > out[j].Carriers
		}
		return out[i].Key < out[j].Key
	})
	return out
}
