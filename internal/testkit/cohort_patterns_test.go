package testkit

import (
	"context"
	"testing"

	"gpcorr/adapters/genotype"
	"gpcorr/adapters/phenotype"
	"gpcorr/app"
	"gpcorr/domain/core"
	"gpcorr/domain/model"
	"gpcorr/domain/stats"
)

// TestSyntheticCohort_Patterns verifies the generated cohort carries
// the planted relationships all the way through an analysis run.
func TestSyntheticCohort_Patterns(t *testing.T) {
	kit, err := NewKit()
	if err != nil {
		t.Fatalf("NewKit failed: %v", err)
	}
	config := DefaultCohortConfig()
	config.Seed = 12345 // fixed seed for reproducible tests

	cohort, err := NewCohortGenerator(config).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	truncating := genotype.AllOf(
		genotype.AffectsGene(config.GeneSymbol),
		genotype.EffectOnTranscript(model.FrameshiftVariant, config.TranscriptID),
	)
	missense := genotype.AllOf(
		genotype.AffectsGene(config.GeneSymbol),
		genotype.EffectOnTranscript(model.MissenseVariant, config.TranscriptID),
	)
	gt, err := genotype.NewMonoallelic(truncating, missense, "Truncating", "Missense")
	if err != nil {
		t.Fatalf("build genotype classifier: %v", err)
	}
	ctx := context.Background()

	t.Run("planted_association_recovered", func(t *testing.T) {
		terms := app.TermsOfInterest(cohort, kit.Ontology())
		classifiers, err := kit.TermClassifiers(terms...)
		if err != nil {
			t.Fatalf("build classifiers: %v", err)
		}
		analyzer, err := kit.Analyzer()
		if err != nil {
			t.Fatalf("build analyzer: %v", err)
		}

		result, err := analyzer.CompareGenotypeVsPhenotypes(ctx, cohort, gt, classifiers)
		if err != nil {
			t.Fatalf("CompareGenotypeVsPhenotypes failed: %v", err)
		}

		// Annotated terms plus ancestors of the observed ones: the two
		// annotated terms, the seizure lineage, the skeletal system and
		// the branch root.
		if result.TermsConsidered() != 6 {
			t.Errorf("TermsConsidered() = %d, want 6", result.TermsConsidered())
		}
		if result.TestsPerformed() != 2 {
			t.Errorf("TestsPerformed() = %d, want 2", result.TestsPerformed())
		}

		seizure, ok := result.Record("HP:0001250")
		if !ok || seizure.Status != stats.StatusTested {
			t.Fatalf("seizure record = %+v, want TESTED", seizure)
		}
		if seizure.CorrectedP >= 1e-6 {
			t.Errorf("seizure corrected p = %v, want far below alpha", seizure.CorrectedP)
		}
		// The planted direction: seizure enriched among truncating
		// carriers.
		obsTruncating := float64(seizure.Table.Counts[0][0]) / float64(seizure.Table.ColTotal(0))
		obsMissense := float64(seizure.Table.Counts[0][1]) / float64(seizure.Table.ColTotal(1))
		t.Logf("seizure observed share: truncating %.2f, missense %.2f", obsTruncating, obsMissense)
		if obsTruncating <= obsMissense {
			t.Errorf("planted signal lost: %v <= %v", obsTruncating, obsMissense)
		}

		skeletal, ok := result.Record("HP:0001166")
		if !ok || skeletal.Status != stats.StatusTested {
			t.Fatalf("skeletal record = %+v, want TESTED", skeletal)
		}
		significant := result.Significant(1e-6)
		if len(significant) != 1 || significant[0].Term != "HP:0001250" {
			t.Errorf("Significant(1e-6) = %+v, want exactly the planted term", significant)
		}

		// The seizure ancestors carry observed propagation but no
		// exclusions, so they are filtered or fail as degenerate.
		physiology, ok := result.Record("HP:0012638")
		if !ok {
			t.Fatal("no record for HP:0012638")
		}
		if physiology.Status != stats.StatusFailed || !core.IsDegenerateTable(physiology.Err) {
			t.Errorf("physiology record = %+v, want FAILED on a degenerate table", physiology)
		}
		for _, general := range []model.TermID{"HP:0000707", "HP:0000924"} {
			rec, ok := result.Record(general)
			if !ok {
				t.Fatalf("no record for %s", general)
			}
			if rec.Status != stats.StatusSkipped {
				t.Errorf("%s record = %+v, want SKIPPED as a general term", general, rec)
			}
		}
		branchRoot, ok := result.Record("HP:0000118")
		if !ok {
			t.Fatal("no record for HP:0000118")
		}
		if branchRoot.Status != stats.StatusSkipped {
			t.Errorf("branch root record = %+v, want SKIPPED", branchRoot)
		}
	})

	t.Run("survival_separation", func(t *testing.T) {
		result, err := app.CompareGenotypeVsSurvival(ctx, cohort, gt, phenotype.NewDeathEndpoint(), nil)
		if err != nil {
			t.Fatalf("CompareGenotypeVsSurvival failed: %v", err)
		}
		if result.GenotypeExcluded != 0 || result.Dropped != 0 {
			t.Errorf("excluded %d dropped %d, want none", result.GenotypeExcluded, result.Dropped)
		}
		t.Logf("log-rank p = %v", result.PValue)
		if result.PValue >= 0.01 {
			t.Errorf("planted survival gap not recovered: p = %v", result.PValue)
		}
	})

	t.Run("score_separation", func(t *testing.T) {
		scorer, err := phenotype.NewCountingScorer(kit.Ontology(), []model.TermID{"HP:0012638", "HP:0000924"})
		if err != nil {
			t.Fatalf("build scorer: %v", err)
		}
		result, err := app.CompareGenotypeVsScore(ctx, cohort, gt, scorer, nil)
		if err != nil {
			t.Fatalf("CompareGenotypeVsScore failed: %v", err)
		}
		if result.GenotypeExcluded != 0 {
			t.Errorf("GenotypeExcluded = %d, want 0", result.GenotypeExcluded)
		}
		t.Logf("score means: truncating %.2f, missense %.2f, p = %v",
			result.Summaries[0].Mean, result.Summaries[1].Mean, result.PValue)
		if result.Summaries[0].Mean <= result.Summaries[1].Mean {
			t.Errorf("planted involvement gap lost: %v <= %v",
				result.Summaries[0].Mean, result.Summaries[1].Mean)
		}
		if result.PValue >= 0.01 {
			t.Errorf("planted score gap not recovered: p = %v", result.PValue)
		}
	})
}
