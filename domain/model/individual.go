package model

import (
	"strings"

	"gpcorr/domain/core"
)

// SampleID is the stable identifier of an individual within a cohort.
type SampleID string

// ParseSampleID validates an identifier.
func ParseSampleID(value string) (SampleID, error) {
	if strings.TrimSpace(value) == "" {
		return "", core.ValidationError("sample id cannot be empty")
	}
	return SampleID(value), nil
}

func (id SampleID) String() string { return string(id) }

// Sex is the phenotypic sex of an individual.
type Sex int

const (
	SexUnknown Sex = iota
	SexFemale
	SexMale
)

func (s Sex) String() string {
	switch s {
	case SexFemale:
		return "FEMALE"
	case SexMale:
		return "MALE"
	default:
		return "UNKNOWN"
	}
}

// Status is the vital status of an individual at last encounter.
type Status int

const (
	StatusUnknown Status = iota
	StatusAlive
	StatusDeceased
)

func (s Status) String() string {
	switch s {
	case StatusAlive:
		return "ALIVE"
	case StatusDeceased:
		return "DECEASED"
	default:
		return "UNKNOWN"
	}
}

// VitalStatus couples the vital status with the age at which it was
// recorded: age of death for the deceased, age at last encounter
// otherwise. Survival endpoints censor at this age.
type VitalStatus struct {
	Status Status
	Age    *core.Age
}

// Individual is one cohort member: identity, demographic metadata,
// phenotypic annotations, diagnoses and genomic variants. Immutable
// once constructed; accessors return the internal slices, which callers
// must treat as read-only.
type Individual struct {
	id         SampleID
	sex        Sex
	vital      *VitalStatus
	phenotypes []Phenotype
	diseases   []Disease
	variants   []Variant
}

// NewIndividual constructs an individual. Duplicate phenotype
// annotations of the same term are rejected; the remaining inputs are
// copied as given.
func NewIndividual(id SampleID, sex Sex, vital *VitalStatus, phenotypes []Phenotype, diseases []Disease, variants []Variant) (*Individual, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, core.ValidationError("sample id cannot be empty")
	}
	seen := make(map[TermID]bool, len(phenotypes))
	for _, p := range phenotypes {
		if seen[p.Term()] {
			return nil, core.ValidationError("individual %q annotates term %s twice", id, p.Term())
		}
		seen[p.Term()] = true
	}
	ind := &Individual{
		id:         id,
		sex:        sex,
		phenotypes: append([]Phenotype(nil), phenotypes...),
		diseases:   append([]Disease(nil), diseases...),
		variants:   append([]Variant(nil), variants...),
	}
	if vital != nil {
		v := *vital
		ind.vital = &v
	}
	return ind, nil
}

// ID returns the sample identifier.
func (i *Individual) ID() SampleID { return i.id }

// Sex returns the phenotypic sex.
func (i *Individual) Sex() Sex { return i.sex }

// VitalStatus returns the vital status, if recorded.
func (i *Individual) VitalStatus() (VitalStatus, bool) {
	if i.vital == nil {
		return VitalStatus{}, false
	}
	return *i.vital, true
}

// Phenotypes returns all phenotype annotations.
func (i *Individual) Phenotypes() []Phenotype { return i.phenotypes }

// PresentPhenotypes returns the observed annotations.
func (i *Individual) PresentPhenotypes() []Phenotype {
	var present []Phenotype
	for _, p := range i.phenotypes {
		if p.IsObserved() {
			present = append(present, p)
		}
	}
	return present
}

// ExcludedPhenotypes returns the investigated-and-absent annotations.
func (i *Individual) ExcludedPhenotypes() []Phenotype {
	var excluded []Phenotype
	for _, p := range i.phenotypes {
		if p.IsExcluded() {
			excluded = append(excluded, p)
		}
	}
	return excluded
}

// Diseases returns the diagnosis statements.
func (i *Individual) Diseases() []Disease { return i.diseases }

// DiseaseByID returns the statement about one disease, if present.
func (i *Individual) DiseaseByID(id TermID) (Disease, bool) {
	for _, d := range i.diseases {
		if d.ID() == id {
			return d, true
		}
	}
	return Disease{}, false
}

// Variants returns the genomic variants.
func (i *Individual) Variants() []Variant { return i.variants }
