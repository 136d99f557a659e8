package app

import (
	"context"
	"testing"

	"gpcorr/adapters/phenotype"
	"gpcorr/adapters/stats/survival"
	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/domain/stats"
)

func vitalMember(t *testing.T, id string, status model.Status, years float64) *model.Individual {
	t.Helper()
	age, err := core.AgeFromYears(years)
	if err != nil {
		t.Fatalf("age %v years: %v", years, err)
	}
	vital := &model.VitalStatus{Status: status, Age: &age}
	ind, err := model.NewIndividual(model.SampleID(id), model.SexUnknown, vital, nil, nil, nil)
	if err != nil {
		t.Fatalf("build individual %s: %v", id, err)
	}
	return ind
}

func TestCompareGenotypeVsSurvival(t *testing.T) {
	// The biallelic class dies early; the monoallelic class dies late
	// or is still alive. One member per class has no vital record.
	members := []*model.Individual{
		vitalMember(t, "v0", model.StatusDeceased, 10),
		vitalMember(t, "v1", model.StatusDeceased, 12),
		vitalMember(t, "v2", model.StatusDeceased, 14),
		vitalMember(t, "v3", model.StatusDeceased, 16),
		testMember(t, "v4"),
		vitalMember(t, "v5", model.StatusDeceased, 60),
		vitalMember(t, "v6", model.StatusDeceased, 70),
		vitalMember(t, "v7", model.StatusAlive, 80),
		vitalMember(t, "v8", model.StatusAlive, 80),
		testMember(t, "v9"),
	}
	cohort := testCohort(t, members...)
	gt := frozenGenotype(t, cohort, []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1})

	result, err := CompareGenotypeVsSurvival(context.Background(), cohort, gt, phenotype.NewDeathEndpoint(), nil)
	if err != nil {
		t.Fatalf("CompareGenotypeVsSurvival failed: %v", err)
	}

	if result.Statistic != "logrank" {
		t.Errorf("default statistic = %s", result.Statistic)
	}
	if result.Endpoint != "Death" {
		t.Errorf("endpoint = %s", result.Endpoint)
	}
	if result.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", result.Dropped)
	}
	if result.GenotypeExcluded != 0 {
		t.Errorf("GenotypeExcluded = %d, want 0", result.GenotypeExcluded)
	}
	if len(result.Groups) != 2 || len(result.Groups[0].Data) != 4 || len(result.Groups[1].Data) != 4 {
		t.Fatalf("groups = %+v", result.Groups)
	}
	for _, obs := range result.Groups[0].Data {
		if obs.Censored {
			t.Errorf("biallelic observation unexpectedly censored: %+v", obs)
		}
	}
	censored := 0
	for _, obs := range result.Groups[1].Data {
		if obs.Censored {
			censored++
		}
	}
	if censored != 2 {
		t.Errorf("monoallelic class has %d censored observations, want 2", censored)
	}

	direct, err := survival.NewLogRank().Compare(result.Groups[0].Data, result.Groups[1].Data)
	if err != nil {
		t.Fatalf("direct comparison failed: %v", err)
	}
	if result.PValue != direct {
		t.Errorf("PValue = %v, want %v from the statistic itself", result.PValue, direct)
	}
	if result.PValue <= 0 || result.PValue >= 0.05 {
		t.Errorf("PValue = %v, want a clear separation below 0.05", result.PValue)
	}
}

func TestCompareGenotypeVsSurvivalIdenticalGroups(t *testing.T) {
	members := []*model.Individual{
		vitalMember(t, "v0", model.StatusDeceased, 10),
		vitalMember(t, "v1", model.StatusDeceased, 20),
		vitalMember(t, "v2", model.StatusAlive, 30),
		vitalMember(t, "v3", model.StatusDeceased, 10),
		vitalMember(t, "v4", model.StatusDeceased, 20),
		vitalMember(t, "v5", model.StatusAlive, 30),
	}
	cohort := testCohort(t, members...)
	gt := frozenGenotype(t, cohort, []int{0, 0, 0, 1, 1, 1})

	result, err := CompareGenotypeVsSurvival(context.Background(), cohort, gt, phenotype.NewDeathEndpoint(), nil)
	if err != nil {
		t.Fatalf("CompareGenotypeVsSurvival failed: %v", err)
	}
	if result.PValue != 1 {
		t.Errorf("PValue = %v for identical groups, want 1", result.PValue)
	}
	if result.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0", result.Dropped)
	}
}

type stubEndpoint struct{}

func (stubEndpoint) Name() string        { return "stub" }
func (stubEndpoint) Description() string { return "stub endpoint" }
func (stubEndpoint) Outcome(*model.Individual) (stats.Survival, bool) {
	return stats.Survival{}, false
}

func TestCompareGenotypeVsSurvivalValidation(t *testing.T) {
	cohort := testCohort(t,
		vitalMember(t, "v0", model.StatusDeceased, 10),
		vitalMember(t, "v1", model.StatusDeceased, 20),
	)
	gt := frozenGenotype(t, cohort, []int{0, 1})
	ctx := context.Background()

	if _, err := CompareGenotypeVsSurvival(ctx, nil, gt, phenotype.NewDeathEndpoint(), nil); !core.IsValidation(err) {
		t.Errorf("nil cohort error = %v, want VALIDATION", err)
	}
	if _, err := CompareGenotypeVsSurvival(ctx, cohort, gt, nil, nil); !core.IsConfiguration(err) {
		t.Errorf("nil endpoint error = %v, want CONFIGURATION", err)
	}
	// An endpoint that never yields an observation empties both groups.
	if _, err := CompareGenotypeVsSurvival(ctx, cohort, gt, stubEndpoint{}, nil); !core.IsValidation(err) {
		t.Errorf("empty groups error = %v, want VALIDATION", err)
	}
}
