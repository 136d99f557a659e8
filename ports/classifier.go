package ports

import "gpcorr/domain/model"

// Classifier assigns an individual to exactly one of a fixed set of
// classes, or declares it unassignable.
//
// Classify returns the class index into Labels and true when the
// individual is assignable. Unassignable individuals are an expected
// outcome, not an error; they return (0, false, nil) and are left out
// of downstream counts. The error return is reserved for failures such
// as classifying an individual a frozen classifier has never seen.
type Classifier interface {
	// Question is a human-readable statement of what is being asked,
	// e.g. "What is the genotype group".
	Question() string

	// Labels returns the class display names. Classify indexes into
	// this slice. At least two labels.
	Labels() []string

	Classify(individual *model.Individual) (int, bool, error)
}

// TermClassifier is a phenotype classifier driven by a single HPO
// term: class 0 when the term is observed, class 1 when excluded.
type TermClassifier interface {
	Classifier

	// Term returns the HPO term the classifier asks about, with its
	// primary identifier and label.
	Term() model.Term
}
