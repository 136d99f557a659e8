package genotype

import "gpcorr/domain/model"

// AlleleCounter sums the alternate allele count of an individual over
// the variants matching a target predicate. Heterozygous and
// hemizygous calls contribute one allele, homozygous alternate calls
// two.
type AlleleCounter struct {
	target VariantPredicate
}

// NewAlleleCounter builds a counter for the target allele group.
func NewAlleleCounter(target VariantPredicate) *AlleleCounter {
	return &AlleleCounter{target: target}
}

// Description describes the counted allele group.
func (c *AlleleCounter) Description() string {
	return c.target.Description()
}

// Count returns the number of matching alleles the individual carries.
func (c *AlleleCounter) Count(individual *model.Individual) int {
	total := 0
	for _, v := range individual.Variants() {
		if !c.target.Test(v) {
			continue
		}
		total += v.GenotypeOf(individual.ID()).AlleleCount()
	}
	return total
}
