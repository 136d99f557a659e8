package scores

import (
	"math"
	"testing"

	"gpcorr/domain/core"
)

func TestMannWhitneyUReferenceValues(t *testing.T) {
	mwu := NewMannWhitneyU()

	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{
			"identical distributions",
			[]float64{1, 2, 3},
			[]float64{1, 2, 3},
			1.0,
		},
		{
			"shifted groups with a tie",
			[]float64{11, 15, 8, 12},
			[]float64{4, 2, 3, 3.5, 4},
			0.01945103333136247,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := mwu.Compare(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Compare failed: %v", err)
			}
			if math.Abs(p-tt.want) > 1e-9 {
				t.Errorf("p = %v, want %v", p, tt.want)
			}
		})
	}
}

func TestMannWhitneyUDropsNaN(t *testing.T) {
	mwu := NewMannWhitneyU()

	withNaN, err := mwu.Compare(
		[]float64{11, math.NaN(), 15, 8, 12},
		[]float64{4, 2, 3, math.NaN(), 3.5, 4},
	)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	clean, err := mwu.Compare(
		[]float64{11, 15, 8, 12},
		[]float64{4, 2, 3, 3.5, 4},
	)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if withNaN != clean {
		t.Errorf("NaN scores changed the result: %v vs %v", withNaN, clean)
	}
}

func TestMannWhitneyUAllTied(t *testing.T) {
	mwu := NewMannWhitneyU()
	p, err := mwu.Compare([]float64{2, 2, 2}, []float64{2, 2})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if p != 1 {
		t.Errorf("fully tied data: p = %v, want 1", p)
	}
}

func TestMannWhitneyUEmptyGroup(t *testing.T) {
	mwu := NewMannWhitneyU()
	if _, err := mwu.Compare([]float64{1, 2}, nil); !core.IsValidation(err) {
		t.Errorf("expected VALIDATION error, got %v", err)
	}
	// A group of only-NaN scores is empty after dropping.
	if _, err := mwu.Compare([]float64{1, 2}, []float64{math.NaN()}); !core.IsValidation(err) {
		t.Errorf("expected VALIDATION error, got %v", err)
	}
}

func TestStudentTTestReferenceValues(t *testing.T) {
	tt := NewStudentTTest()

	p, err := tt.Compare([]float64{1, 2, 3}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if math.Abs(p-1.0) > 1e-12 {
		t.Errorf("identical groups: p = %v, want 1", p)
	}

	p, err = tt.Compare([]float64{11, 15, 8, 12}, []float64{4, 2, 3, 3.5, 4})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if want := 0.0004749950471148506; math.Abs(p-want) > 1e-9 {
		t.Errorf("p = %v, want %v", p, want)
	}
}

func TestStudentTTestDegenerateVariance(t *testing.T) {
	tt := NewStudentTTest()

	same, err := tt.Compare([]float64{5, 5, 5}, []float64{5, 5})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if same != 1 {
		t.Errorf("identical constants: p = %v, want 1", same)
	}

	apart, err := tt.Compare([]float64{5, 5, 5}, []float64{7, 7})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if apart != 0 {
		t.Errorf("separated constants: p = %v, want 0", apart)
	}
}

func TestStudentTTestSmallGroups(t *testing.T) {
	tt := NewStudentTTest()
	if _, err := tt.Compare([]float64{1}, []float64{2, 3}); !core.IsValidation(err) {
		t.Errorf("expected VALIDATION error, got %v", err)
	}
	if _, err := tt.Compare([]float64{1, 2, math.NaN()}, []float64{3, math.NaN()}); !core.IsValidation(err) {
		t.Errorf("expected VALIDATION error after NaN removal, got %v", err)
	}
}
