package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
)

// PlantedTerm is a phenotype signal baked into the synthetic cohort:
// the term is observed with a different penetrance in each genotype
// group, so an association sweep over the cohort must recover it.
type PlantedTerm struct {
	Term       model.TermID `json:"term"`
	Truncating float64      `json:"truncating"`
	Missense   float64      `json:"missense"`
}

// NoiseTerm is observed at the same rate in both genotype groups, so
// a sweep must not flag it.
type NoiseTerm struct {
	Term model.TermID `json:"term"`
	Rate float64      `json:"rate"`
}

// CohortGeneratorConfig configures the synthetic cohort generator.
// Every member carries one heterozygous variant in GeneSymbol: the
// first TruncatingShare of the cohort a frameshift allele, the rest a
// missense allele, so effect predicates split the cohort cleanly.
type CohortGeneratorConfig struct {
	MemberCount     int           `json:"member_count"`
	TruncatingShare float64       `json:"truncating_share"`
	GeneSymbol      string        `json:"gene_symbol"`
	TranscriptID    string        `json:"transcript_id"`
	Associated      []PlantedTerm `json:"associated"`
	Noise           []NoiseTerm   `json:"noise"`
	// MissingRate is the chance any annotation is omitted entirely
	// rather than recorded as observed or excluded.
	MissingRate float64 `json:"missing_rate"`
	// DeceasedTruncating and DeceasedMissense plant a survival signal:
	// deceased truncating carriers die in years 2-12, deceased missense
	// carriers in years 20-60.
	DeceasedTruncating float64 `json:"deceased_truncating"`
	DeceasedMissense   float64 `json:"deceased_missense"`
	Seed               int64   `json:"seed"`
}

// DefaultCohortConfig returns a cohort with one strongly associated
// seizure signal and one indifferent skeletal term, sized so the
// default heuristics keep both terms testable.
func DefaultCohortConfig() CohortGeneratorConfig {
	return CohortGeneratorConfig{
		MemberCount:     160,
		TruncatingShare: 0.5,
		GeneSymbol:      "SCN2A",
		TranscriptID:    "NM_021007.3",
		Associated: []PlantedTerm{
			{Term: "HP:0001250", Truncating: 0.9, Missense: 0.25},
		},
		Noise: []NoiseTerm{
			{Term: "HP:0001166", Rate: 0.5},
		},
		MissingRate:        0.05,
		DeceasedTruncating: 0.6,
		DeceasedMissense:   0.15,
		Seed:               42,
	}
}

// CohortGenerator produces deterministic synthetic cohorts.
type CohortGenerator struct {
	config CohortGeneratorConfig
	rng    *rand.Rand
}

// NewCohortGenerator creates a generator; the same config always
// produces the same cohort.
func NewCohortGenerator(config CohortGeneratorConfig) *CohortGenerator {
	return &CohortGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the cohort.
func (g *CohortGenerator) Generate() (*model.Cohort, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	truncating := int(math.Round(float64(g.config.MemberCount) * g.config.TruncatingShare))
	members := make([]*model.Individual, 0, g.config.MemberCount)
	for i := 0; i < g.config.MemberCount; i++ {
		member, err := g.generateMember(i, i < truncating)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return model.NewCohort(members...)
}

func (g *CohortGenerator) validate() error {
	if g.config.MemberCount <= 0 {
		return core.ConfigurationError("member count %d is not positive", g.config.MemberCount)
	}
	if g.config.TruncatingShare < 0 || g.config.TruncatingShare > 1 {
		return core.ConfigurationError("truncating share %g is outside [0, 1]", g.config.TruncatingShare)
	}
	if g.config.GeneSymbol == "" || g.config.TranscriptID == "" {
		return core.ConfigurationError("generator needs a gene symbol and a transcript id")
	}
	for _, planted := range g.config.Associated {
		if planted.Truncating < 0 || planted.Truncating > 1 || planted.Missense < 0 || planted.Missense > 1 {
			return core.ConfigurationError("penetrance of %s is outside [0, 1]", planted.Term)
		}
	}
	for _, noise := range g.config.Noise {
		if noise.Rate < 0 || noise.Rate > 1 {
			return core.ConfigurationError("noise rate of %s is outside [0, 1]", noise.Term)
		}
	}
	if g.config.MissingRate < 0 || g.config.MissingRate > 1 {
		return core.ConfigurationError("missing rate %g is outside [0, 1]", g.config.MissingRate)
	}
	return nil
}

// generateMember builds one individual: a sex, a vital status, one
// variant and an annotation per configured term.
func (g *CohortGenerator) generateMember(index int, truncating bool) (*model.Individual, error) {
	id := model.SampleID(fmt.Sprintf("proband_%04d", index+1))

	sex := model.SexFemale
	if g.rng.Float64() < 0.5 {
		sex = model.SexMale
	}

	var phenotypes []model.Phenotype
	for _, planted := range g.config.Associated {
		penetrance := planted.Missense
		if truncating {
			penetrance = planted.Truncating
		}
		phenotypes = g.appendAnnotation(phenotypes, planted.Term, penetrance)
	}
	for _, noise := range g.config.Noise {
		phenotypes = g.appendAnnotation(phenotypes, noise.Term, noise.Rate)
	}

	vital, err := g.generateVitalStatus(truncating)
	if err != nil {
		return nil, err
	}

	variant := g.generateVariant(id, index, truncating)
	return model.NewIndividual(id, sex, vital, phenotypes, nil, []model.Variant{variant})
}

// appendAnnotation rolls the term once: omitted at MissingRate,
// otherwise observed at the given rate and excluded at the remainder.
func (g *CohortGenerator) appendAnnotation(phenotypes []model.Phenotype, term model.TermID, rate float64) []model.Phenotype {
	observed := g.rng.Float64() < rate
	if g.rng.Float64() < g.config.MissingRate {
		return phenotypes
	}
	if observed {
		return append(phenotypes, model.NewObservedPhenotype(term))
	}
	return append(phenotypes, model.NewExcludedPhenotype(term))
}

func (g *CohortGenerator) generateVitalStatus(truncating bool) (*model.VitalStatus, error) {
	deceasedRate := g.config.DeceasedMissense
	if truncating {
		deceasedRate = g.config.DeceasedTruncating
	}
	deceased := g.rng.Float64() < deceasedRate

	var years float64
	status := model.StatusAlive
	switch {
	case deceased && truncating:
		status = model.StatusDeceased
		years = 2 + g.rng.Float64()*10
	case deceased:
		status = model.StatusDeceased
		years = 20 + g.rng.Float64()*40
	default:
		years = 5 + g.rng.Float64()*45
	}
	age, err := core.AgeFromYears(years)
	if err != nil {
		return nil, err
	}
	return &model.VitalStatus{Status: status, Age: &age}, nil
}

// generateVariant gives each member a private heterozygous allele at a
// distinct position, annotated as frameshift or missense on the
// configured transcript.
func (g *CohortGenerator) generateVariant(id model.SampleID, index int, truncating bool) model.Variant {
	effect := model.MissenseVariant
	coordinates := model.VariantCoordinates{
		Contig:       "2",
		Start:        166000000 + index*10,
		End:          166000001 + index*10,
		Ref:          "C",
		Alt:          "T",
		ChangeLength: 0,
	}
	if truncating {
		effect = model.FrameshiftVariant
		coordinates.Ref = "CT"
		coordinates.Alt = "C"
		coordinates.End = coordinates.Start + 2
		coordinates.ChangeLength = -1
	}

	annotation := model.TranscriptAnnotation{
		GeneSymbol:       g.config.GeneSymbol,
		TranscriptID:     g.config.TranscriptID,
		Effects:          []model.VariantEffect{effect},
		OverlappingExons: []int{5},
	}
	genotypes := map[model.SampleID]model.Genotype{id: model.GenotypeHeterozygous}
	return model.NewVariant(coordinates, []model.TranscriptAnnotation{annotation}, genotypes)
}
