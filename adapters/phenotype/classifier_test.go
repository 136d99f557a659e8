package phenotype

import (
	"testing"

	"gpcorr/adapters/hpo"
	"gpcorr/domain/core"
	"gpcorr/domain/model"
)

// testOntology builds the seizure branch used across the package
// tests:
//
//	HP:0000001 All
//	└── HP:0000118 Phenotypic abnormality
//	    ├── HP:0000707 Abnormality of the nervous system
//	    │   └── HP:0012638 Abnormal nervous system physiology
//	    │       └── HP:0001250 Seizure (alt: HP:0001275)
//	    │           └── HP:0032792 Tonic seizure
//	    └── HP:0000924 Abnormality of the skeletal system
func testOntology(t *testing.T) *hpo.Graph {
	t.Helper()
	defs := []hpo.TermDef{
		{Term: model.Term{ID: "HP:0000001", Label: "All"}},
		{Term: model.Term{ID: "HP:0000118", Label: "Phenotypic abnormality"}, Parents: []model.TermID{"HP:0000001"}},
		{Term: model.Term{ID: "HP:0000707", Label: "Abnormality of the nervous system"}, Parents: []model.TermID{"HP:0000118"}},
		{Term: model.Term{ID: "HP:0012638", Label: "Abnormal nervous system physiology"}, Parents: []model.TermID{"HP:0000707"}},
		{Term: model.Term{ID: "HP:0001250", Label: "Seizure"}, Parents: []model.TermID{"HP:0012638"}, AltIDs: []model.TermID{"HP:0001275"}},
		{Term: model.Term{ID: "HP:0032792", Label: "Tonic seizure"}, Parents: []model.TermID{"HP:0001250"}},
		{Term: model.Term{ID: "HP:0000924", Label: "Abnormality of the skeletal system"}, Parents: []model.TermID{"HP:0000118"}},
	}
	g, err := hpo.NewGraph("HP:0000001", defs, nil)
	if err != nil {
		t.Fatalf("NewGraph failed: %v", err)
	}
	return g
}

func testIndividual(t *testing.T, id string, phenotypes ...model.Phenotype) *model.Individual {
	t.Helper()
	ind, err := model.NewIndividual(model.SampleID(id), model.SexUnknown, nil, phenotypes, nil, nil)
	if err != nil {
		t.Fatalf("NewIndividual(%s) failed: %v", id, err)
	}
	return ind
}

func TestTermClassifierPropagation(t *testing.T) {
	onto := testOntology(t)

	tests := []struct {
		name         string
		term         model.TermID
		phenotypes   []model.Phenotype
		wantClass    int
		wantAssigned bool
	}{
		{
			"direct observation",
			"HP:0001250",
			[]model.Phenotype{model.NewObservedPhenotype("HP:0001250")},
			ClassObserved, true,
		},
		{
			"observed descendant propagates up",
			"HP:0012638",
			[]model.Phenotype{model.NewObservedPhenotype("HP:0032792")},
			ClassObserved, true,
		},
		{
			"observed ancestor does not propagate down",
			"HP:0001250",
			[]model.Phenotype{model.NewObservedPhenotype("HP:0012638")},
			0, false,
		},
		{
			"direct exclusion",
			"HP:0001250",
			[]model.Phenotype{model.NewExcludedPhenotype("HP:0001250")},
			ClassExcluded, true,
		},
		{
			"excluded ancestor propagates down",
			"HP:0001250",
			[]model.Phenotype{model.NewExcludedPhenotype("HP:0012638")},
			ClassExcluded, true,
		},
		{
			"excluded descendant does not propagate up",
			"HP:0001250",
			[]model.Phenotype{model.NewExcludedPhenotype("HP:0032792")},
			0, false,
		},
		{
			"observation wins over exclusion",
			"HP:0001250",
			[]model.Phenotype{
				model.NewExcludedPhenotype("HP:0012638"),
				model.NewObservedPhenotype("HP:0032792"),
			},
			ClassObserved, true,
		},
		{
			"unrelated branch is unassignable",
			"HP:0000924",
			[]model.Phenotype{model.NewObservedPhenotype("HP:0001250")},
			0, false,
		},
		{
			"alternative id annotation propagates",
			"HP:0012638",
			[]model.Phenotype{model.NewObservedPhenotype("HP:0001275")},
			ClassObserved, true,
		},
		{
			"no annotations is unassignable",
			"HP:0001250",
			nil,
			0, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier, err := NewTermClassifier(onto, tt.term, false)
			if err != nil {
				t.Fatalf("NewTermClassifier failed: %v", err)
			}
			ind := testIndividual(t, "proband", tt.phenotypes...)
			class, assigned, err := classifier.Classify(ind)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if assigned != tt.wantAssigned || (assigned && class != tt.wantClass) {
				t.Errorf("Classify() = (%d, %v), want (%d, %v)", class, assigned, tt.wantClass, tt.wantAssigned)
			}
		})
	}
}

func TestTermClassifierMissingImpliesExcluded(t *testing.T) {
	onto := testOntology(t)
	classifier, err := NewTermClassifier(onto, "HP:0001250", true)
	if err != nil {
		t.Fatalf("NewTermClassifier failed: %v", err)
	}

	// No statement about the seizure branch at all.
	ind := testIndividual(t, "proband", model.NewObservedPhenotype("HP:0000924"))
	class, assigned, err := classifier.Classify(ind)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !assigned || class != ClassExcluded {
		t.Errorf("Classify() = (%d, %v), want excluded and assigned", class, assigned)
	}

	// An observation still wins.
	ind = testIndividual(t, "proband2", model.NewObservedPhenotype("HP:0032792"))
	class, assigned, _ = classifier.Classify(ind)
	if !assigned || class != ClassObserved {
		t.Errorf("Classify() = (%d, %v), want observed and assigned", class, assigned)
	}
}

func TestTermClassifierMetadata(t *testing.T) {
	onto := testOntology(t)
	classifier, err := NewTermClassifier(onto, "HP:0001275", false)
	if err != nil {
		t.Fatalf("NewTermClassifier failed: %v", err)
	}

	// The alternative id is normalized to the primary term.
	if term := classifier.Term(); term.ID != "HP:0001250" || term.Label != "Seizure" {
		t.Errorf("Term() = %+v, want HP:0001250 Seizure", term)
	}
	if got := classifier.Question(); got != "Is Seizure present" {
		t.Errorf("Question() = %q", got)
	}
	labels := classifier.Labels()
	if len(labels) != 2 || labels[0] != "Yes" || labels[1] != "No" {
		t.Errorf("Labels() = %v", labels)
	}
}

func TestNewTermClassifierRejectsUnknownTerm(t *testing.T) {
	onto := testOntology(t)
	_, err := NewTermClassifier(onto, "HP:9999999", false)
	if !core.IsValidation(err) {
		t.Errorf("expected VALIDATION error, got %v", err)
	}
}

func TestClassifiersForTerms(t *testing.T) {
	onto := testOntology(t)
	classifiers, err := ClassifiersForTerms(onto, []model.TermID{"HP:0001250", "HP:0000924"}, false)
	if err != nil {
		t.Fatalf("ClassifiersForTerms failed: %v", err)
	}
	if len(classifiers) != 2 {
		t.Fatalf("got %d classifiers, want 2", len(classifiers))
	}
	if classifiers[0].Term().ID != "HP:0001250" || classifiers[1].Term().ID != "HP:0000924" {
		t.Errorf("classifier order not preserved: %s, %s", classifiers[0].Term().ID, classifiers[1].Term().ID)
	}

	if _, err := ClassifiersForTerms(onto, []model.TermID{"HP:0001250", "HP:9999999"}, false); err == nil {
		t.Error("expected error for unknown term in the list")
	}
}

func TestDiseaseClassifier(t *testing.T) {
	marfan := model.TermID("OMIM:154700")
	classifier, err := NewDiseaseClassifier(marfan, "Marfan syndrome")
	if err != nil {
		t.Fatalf("NewDiseaseClassifier failed: %v", err)
	}
	if got := classifier.Question(); got != "Was Marfan syndrome diagnosed" {
		t.Errorf("Question() = %q", got)
	}

	affected, err := model.NewIndividual("affected", model.SexUnknown, nil, nil,
		[]model.Disease{model.NewDisease(marfan, "Marfan syndrome", true)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ruledOut, err := model.NewIndividual("ruled-out", model.SexUnknown, nil, nil,
		[]model.Disease{model.NewDisease(marfan, "Marfan syndrome", false)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	unstated, err := model.NewIndividual("unstated", model.SexUnknown, nil, nil,
		[]model.Disease{model.NewDisease("OMIM:129600", "other", true)}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if class, assigned, _ := classifier.Classify(affected); !assigned || class != ClassObserved {
		t.Errorf("affected: got (%d, %v)", class, assigned)
	}
	if class, assigned, _ := classifier.Classify(ruledOut); !assigned || class != ClassExcluded {
		t.Errorf("ruled out: got (%d, %v)", class, assigned)
	}
	if _, assigned, _ := classifier.Classify(unstated); assigned {
		t.Error("individual without a statement should be unassignable")
	}

	if _, err := NewDiseaseClassifier("", "nameless"); !core.IsValidation(err) {
		t.Errorf("expected VALIDATION error for empty id, got %v", err)
	}
}
