package hpo

import (
	"reflect"
	"testing"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
)

func term(id, label string) model.Term {
	return model.Term{ID: model.TermID(id), Label: label}
}

// testOntology builds a small HPO-like hierarchy with a diamond:
// tonic seizure is a child of both seizure and abnormal nervous system
// physiology, which seizure also descends from.
func testOntology(t *testing.T) *Graph {
	t.Helper()
	defs := []TermDef{
		{Term: term("HP:0000001", "All")},
		{Term: term("HP:0000118", "Phenotypic abnormality"), Parents: []model.TermID{"HP:0000001"}},
		{Term: term("HP:0000005", "Mode of inheritance"), Parents: []model.TermID{"HP:0000001"}},
		{Term: term("HP:0000006", "Autosomal dominant inheritance"), Parents: []model.TermID{"HP:0000005"}},
		{Term: term("HP:0000707", "Abnormality of the nervous system"), Parents: []model.TermID{"HP:0000118"}},
		{Term: term("HP:0012638", "Abnormal nervous system physiology"), Parents: []model.TermID{"HP:0000707"}},
		{
			Term:    term("HP:0001250", "Seizure"),
			Parents: []model.TermID{"HP:0012638"},
			AltIDs:  []model.TermID{"HP:0001275"},
		},
		{Term: term("HP:0032792", "Tonic seizure"), Parents: []model.TermID{"HP:0001250", "HP:0012638"}},
		{Term: term("HP:0000924", "Abnormality of the skeletal system"), Parents: []model.TermID{"HP:0000118"}},
	}
	g, err := NewGraph("HP:0000001", defs, nil)
	if err != nil {
		t.Fatalf("NewGraph failed: %v", err)
	}
	return g
}

func TestGraphNavigation(t *testing.T) {
	g := testOntology(t)

	if g.Root() != "HP:0000001" {
		t.Errorf("Root() = %s, want HP:0000001", g.Root())
	}
	if g.Len() != 9 {
		t.Errorf("Len() = %d, want 9", g.Len())
	}

	wantParents := []model.TermID{"HP:0001250", "HP:0012638"}
	if got := g.Parents("HP:0032792"); !reflect.DeepEqual(got, wantParents) {
		t.Errorf("Parents(tonic seizure) = %v, want %v", got, wantParents)
	}

	wantChildren := []model.TermID{"HP:0000707", "HP:0000924"}
	if got := g.Children("HP:0000118"); !reflect.DeepEqual(got, wantChildren) {
		t.Errorf("Children(phenotypic abnormality) = %v, want %v", got, wantChildren)
	}

	if got := g.Parents("HP:9999999"); got != nil {
		t.Errorf("Parents(unknown) = %v, want nil", got)
	}
}

func TestAncestorsOfDeduplicatesDiamond(t *testing.T) {
	g := testOntology(t)

	want := []model.TermID{"HP:0000001", "HP:0000118", "HP:0000707", "HP:0001250", "HP:0012638"}
	got := g.AncestorsOf("HP:0032792")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AncestorsOf(tonic seizure) = %v, want %v", got, want)
	}

	// Second call is served from the cache and must agree.
	if again := g.AncestorsOf("HP:0032792"); !reflect.DeepEqual(again, want) {
		t.Errorf("cached AncestorsOf = %v, want %v", again, want)
	}
}

func TestDescendantsOf(t *testing.T) {
	g := testOntology(t)

	want := []model.TermID{"HP:0000707", "HP:0000924", "HP:0001250", "HP:0012638", "HP:0032792"}
	got := g.DescendantsOf("HP:0000118")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DescendantsOf(phenotypic abnormality) = %v, want %v", got, want)
	}

	if got := g.DescendantsOf("HP:0032792"); len(got) != 0 {
		t.Errorf("DescendantsOf(leaf) = %v, want empty", got)
	}
}

func TestIsAncestorOf(t *testing.T) {
	g := testOntology(t)

	tests := []struct {
		name       string
		ancestor   model.TermID
		descendant model.TermID
		want       bool
	}{
		{"direct parent", "HP:0001250", "HP:0032792", true},
		{"transitive", "HP:0000001", "HP:0032792", true},
		{"branch root", "HP:0000118", "HP:0001250", true},
		{"reversed", "HP:0032792", "HP:0001250", false},
		{"sibling branches", "HP:0000924", "HP:0001250", false},
		{"self", "HP:0001250", "HP:0001250", false},
		{"unknown ancestor", "HP:9999999", "HP:0001250", false},
		{"unknown descendant", "HP:0001250", "HP:9999999", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsAncestorOf(tt.ancestor, tt.descendant); got != tt.want {
				t.Errorf("IsAncestorOf(%s, %s) = %v, want %v", tt.ancestor, tt.descendant, got, tt.want)
			}
		})
	}
}

func TestTermResolvesAlternativeID(t *testing.T) {
	g := testOntology(t)

	primary, ok := g.Term("HP:0001250")
	if !ok || primary.Label != "Seizure" {
		t.Fatalf("Term(primary) = %v, %v", primary, ok)
	}

	viaAlt, ok := g.Term("HP:0001275")
	if !ok {
		t.Fatal("alternative id did not resolve")
	}
	if viaAlt.ID != "HP:0001250" {
		t.Errorf("alternative id resolved to %s, want HP:0001250", viaAlt.ID)
	}

	// Navigation through an alternative id lands on the primary term.
	if !g.IsAncestorOf("HP:0000118", "HP:0001275") {
		t.Error("IsAncestorOf should follow the alternative id to the primary term")
	}

	if _, ok := g.Term("HP:7777777"); ok {
		t.Error("unknown term should not resolve")
	}
}

func TestNewGraphValidation(t *testing.T) {
	root := term("HP:0000001", "All")

	tests := []struct {
		name string
		root model.TermID
		defs []TermDef
	}{
		{
			"missing root",
			"HP:0000001",
			[]TermDef{{Term: term("HP:0000118", "PA")}},
		},
		{
			"dangling parent",
			"HP:0000001",
			[]TermDef{
				{Term: root},
				{Term: term("HP:0000118", "PA"), Parents: []model.TermID{"HP:0000404"}},
			},
		},
		{
			"duplicate term",
			"HP:0000001",
			[]TermDef{
				{Term: root},
				{Term: term("HP:0000118", "PA"), Parents: []model.TermID{"HP:0000001"}},
				{Term: term("HP:0000118", "PA again"), Parents: []model.TermID{"HP:0000001"}},
			},
		},
		{
			"self parent",
			"HP:0000001",
			[]TermDef{
				{Term: root},
				{Term: term("HP:0000118", "PA"), Parents: []model.TermID{"HP:0000118"}},
			},
		},
		{
			"cycle",
			"HP:0000001",
			[]TermDef{
				{Term: root},
				{Term: term("HP:0000002", "a"), Parents: []model.TermID{"HP:0000001", "HP:0000003"}},
				{Term: term("HP:0000003", "b"), Parents: []model.TermID{"HP:0000002"}},
			},
		},
		{
			"disconnected term",
			"HP:0000001",
			[]TermDef{
				{Term: root},
				{Term: term("HP:0000002", "island a"), Parents: []model.TermID{"HP:0000003"}},
				{Term: term("HP:0000003", "island b")},
			},
		},
		{
			"alt id clashes with term",
			"HP:0000001",
			[]TermDef{
				{Term: root},
				{Term: term("HP:0000118", "PA"), Parents: []model.TermID{"HP:0000001"}, AltIDs: []model.TermID{"HP:0000001"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(tt.root, tt.defs, nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !core.IsValidation(err) {
				t.Errorf("expected VALIDATION error, got %v", err)
			}
		})
	}
}

func TestClosureCacheBounds(t *testing.T) {
	defs := []TermDef{
		{Term: term("HP:0000001", "All")},
		{Term: term("HP:0000118", "PA"), Parents: []model.TermID{"HP:0000001"}},
		{Term: term("HP:0000924", "Skeletal"), Parents: []model.TermID{"HP:0000118"}},
	}
	g, err := NewGraph("HP:0000001", defs, &GraphConfig{ClosureCacheSize: 1})
	if err != nil {
		t.Fatalf("NewGraph failed: %v", err)
	}

	// With a single cache slot, queries evict each other but stay correct.
	first := g.AncestorsOf("HP:0000924")
	_ = g.AncestorsOf("HP:0000118")
	second := g.AncestorsOf("HP:0000924")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("answers changed across eviction: %v vs %v", first, second)
	}
}
