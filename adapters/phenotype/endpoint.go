package phenotype

import (
	"fmt"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/domain/stats"
	"gpcorr/ports"
)

// DeathEndpoint maps individuals to their survival with death as the
// event. Deceased individuals contribute an event at the age of death;
// living individuals are censored at the age of last encounter.
// Individuals without a vital status or without an age contribute
// nothing.
type DeathEndpoint struct{}

func NewDeathEndpoint() *DeathEndpoint { return &DeathEndpoint{} }

func (e *DeathEndpoint) Name() string        { return "Death" }
func (e *DeathEndpoint) Description() string { return "Age at death, censored at last encounter" }

func (e *DeathEndpoint) Outcome(individual *model.Individual) (stats.Survival, bool) {
	vital, ok := individual.VitalStatus()
	if !ok || vital.Age == nil {
		return stats.Survival{}, false
	}
	switch vital.Status {
	case model.StatusDeceased:
		return stats.Survival{Value: vital.Age.Days()}, true
	case model.StatusAlive:
		return stats.Survival{Value: vital.Age.Days(), Censored: true}, true
	default:
		return stats.Survival{}, false
	}
}

// OnsetEndpoint maps individuals to the age of onset of one phenotype,
// the term itself or any descendant. The earliest matching onset is
// the event. Individuals in whom the phenotype is excluded are
// censored at the age of last encounter. Individuals with the
// phenotype but no onset record, or with no age information at all,
// contribute nothing.
type OnsetEndpoint struct {
	classifier *TermClassifier
}

// NewOnsetEndpoint builds an endpoint for the onset of one term.
func NewOnsetEndpoint(ontology ports.Ontology, term model.TermID) (*OnsetEndpoint, error) {
	classifier, err := NewTermClassifier(ontology, term, false)
	if err != nil {
		return nil, core.Wrap(err, "build onset endpoint")
	}
	return &OnsetEndpoint{classifier: classifier}, nil
}

func (e *OnsetEndpoint) Name() string {
	return fmt.Sprintf("Onset of %s", e.classifier.Term().Name())
}

func (e *OnsetEndpoint) Description() string {
	return fmt.Sprintf("Age at onset of %s or a descendant, censored at last encounter", e.classifier.Term().Name())
}

func (e *OnsetEndpoint) Outcome(individual *model.Individual) (stats.Survival, bool) {
	class, assigned, err := e.classifier.Classify(individual)
	if err != nil || !assigned {
		return stats.Survival{}, false
	}
	if class == ClassExcluded {
		vital, ok := individual.VitalStatus()
		if !ok || vital.Age == nil {
			return stats.Survival{}, false
		}
		return stats.Survival{Value: vital.Age.Days(), Censored: true}, true
	}

	target := e.classifier.Term().ID
	var earliest *core.Age
	for _, p := range individual.PresentPhenotypes() {
		annotated := e.classifier.normalize(p.Term())
		if annotated != target && !e.classifier.ontology.IsAncestorOf(target, annotated) {
			continue
		}
		onset, ok := p.Onset()
		if !ok {
			continue
		}
		if earliest == nil || onset.Before(*earliest) {
			earliest = &onset
		}
	}
	if earliest == nil {
		return stats.Survival{}, false
	}
	return stats.Survival{Value: earliest.Days()}, true
}
