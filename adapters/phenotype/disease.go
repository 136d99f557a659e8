package phenotype

import (
	"fmt"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
)

// DiseaseClassifier splits a cohort by the diagnosis of one disease.
// Individuals without any statement about the disease are
// unassignable.
type DiseaseClassifier struct {
	disease model.TermID
	label   string
}

// NewDiseaseClassifier builds a classifier for one disease identifier,
// e.g. an OMIM or MONDO curie. The label is used in the question and
// may be empty.
func NewDiseaseClassifier(disease model.TermID, label string) (*DiseaseClassifier, error) {
	if disease.IsEmpty() {
		return nil, core.ValidationError("disease identifier must not be empty")
	}
	return &DiseaseClassifier{disease: disease, label: label}, nil
}

func (c *DiseaseClassifier) Question() string {
	name := c.label
	if name == "" {
		name = c.disease.String()
	}
	return fmt.Sprintf("Was %s diagnosed", name)
}

func (c *DiseaseClassifier) Labels() []string { return termClassLabels }

func (c *DiseaseClassifier) Classify(individual *model.Individual) (int, bool, error) {
	statement, ok := individual.DiseaseByID(c.disease)
	if !ok {
		return 0, false, nil
	}
	if statement.IsPresent() {
		return ClassObserved, true, nil
	}
	return ClassExcluded, true, nil
}
