// Package testkit provides fixtures and synthetic cohorts for
// exercising analysis runs without external ontology or cohort files.
package testkit

import (
	"gpcorr/adapters/hpo"
	"gpcorr/adapters/mtcfilter"
	"gpcorr/adapters/phenotype"
	"gpcorr/app"
	"gpcorr/domain/model"
	"gpcorr/ports"
)

// Kit bundles the fixture ontology with convenience constructors for
// the pieces an analysis run needs.
type Kit struct {
	ontology *hpo.Graph
}

// NewKit creates a kit around the fixture ontology.
func NewKit() (*Kit, error) {
	ontology, err := FixtureOntology()
	if err != nil {
		return nil, err
	}
	return &Kit{ontology: ontology}, nil
}

// Ontology returns the fixture ontology.
func (k *Kit) Ontology() *hpo.Graph { return k.ontology }

// TermClassifiers builds true-path classifiers over the fixture
// ontology, one per term, missing annotations left unassigned.
func (k *Kit) TermClassifiers(terms ...model.TermID) ([]ports.TermClassifier, error) {
	return phenotype.ClassifiersForTerms(k.ontology, terms, false)
}

// Analyzer builds an analyzer with the multiple-testing heuristics
// bound to the fixture ontology and defaults everywhere else.
func (k *Kit) Analyzer() (*app.Analyzer, error) {
	filter, err := mtcfilter.NewHeuristicFilter(k.ontology, nil)
	if err != nil {
		return nil, err
	}
	return app.NewAnalyzer(filter, nil)
}

// FixtureOntology builds a compact phenotype ontology: three organ
// systems under Phenotypic abnormality, a seizure branch three levels
// deep, and a Mode of inheritance branch outside the phenotypic
// subtree for filter tests.
func FixtureOntology() (*hpo.Graph, error) {
	defs := []hpo.TermDef{
		{Term: model.Term{ID: "HP:0000001", Label: "All"}},
		{Term: model.Term{ID: "HP:0000118", Label: "Phenotypic abnormality"}, Parents: []model.TermID{"HP:0000001"}},
		{Term: model.Term{ID: "HP:0000005", Label: "Mode of inheritance"}, Parents: []model.TermID{"HP:0000001"}},
		{Term: model.Term{ID: "HP:0000007", Label: "Autosomal recessive inheritance"}, Parents: []model.TermID{"HP:0000005"}},
		{Term: model.Term{ID: "HP:0000707", Label: "Abnormality of the nervous system"}, Parents: []model.TermID{"HP:0000118"}},
		{Term: model.Term{ID: "HP:0012638", Label: "Abnormal nervous system physiology"}, Parents: []model.TermID{"HP:0000707"}},
		{Term: model.Term{ID: "HP:0001250", Label: "Seizure"}, Parents: []model.TermID{"HP:0012638"}, AltIDs: []model.TermID{"HP:0001275"}},
		{Term: model.Term{ID: "HP:0032792", Label: "Tonic seizure"}, Parents: []model.TermID{"HP:0001250"}},
		{Term: model.Term{ID: "HP:0002197", Label: "Generalized-onset seizure"}, Parents: []model.TermID{"HP:0001250"}},
		{Term: model.Term{ID: "HP:0001249", Label: "Intellectual disability"}, Parents: []model.TermID{"HP:0000707"}},
		{Term: model.Term{ID: "HP:0000924", Label: "Abnormality of the skeletal system"}, Parents: []model.TermID{"HP:0000118"}},
		{Term: model.Term{ID: "HP:0001166", Label: "Arachnodactyly"}, Parents: []model.TermID{"HP:0000924"}},
		{Term: model.Term{ID: "HP:0000478", Label: "Abnormality of the eye"}, Parents: []model.TermID{"HP:0000118"}},
		{Term: model.Term{ID: "HP:0000486", Label: "Strabismus"}, Parents: []model.TermID{"HP:0000478"}},
	}
	return hpo.NewGraph("HP:0000001", defs, nil)
}
