package ports

import "gpcorr/domain/model"

// Ontology exposes the HPO term hierarchy. Implementations must
// present a rooted directed acyclic graph; edges point from child to
// parent (is-a).
type Ontology interface {
	// Root returns the root term, HP:0000001 for the HPO.
	Root() model.TermID

	// Term resolves a term to its current record. Obsolete identifiers
	// resolve to their replacement. The second return is false for
	// unknown identifiers.
	Term(id model.TermID) (model.Term, bool)

	// Parents returns the direct parents of a term.
	Parents(id model.TermID) []model.TermID

	// Children returns the direct children of a term.
	Children(id model.TermID) []model.TermID

	// AncestorsOf returns the transitive parents of a term, excluding
	// the term itself.
	AncestorsOf(id model.TermID) []model.TermID

	// DescendantsOf returns the transitive children of a term,
	// excluding the term itself.
	DescendantsOf(id model.TermID) []model.TermID

	// IsAncestorOf reports whether ancestor lies on some path from
	// descendant to the root. A term is not its own ancestor.
	IsAncestorOf(ancestor, descendant model.TermID) bool
}
