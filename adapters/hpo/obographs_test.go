package hpo

import (
	"strings"
	"testing"
)

const obographsFixture = `{
  "graphs": [
    {
      "id": "http://purl.obolibrary.org/obo/hp.json",
      "meta": {"version": "http://purl.obolibrary.org/obo/hp/releases/2024-04-26/hp.json"},
      "nodes": [
        {"id": "http://purl.obolibrary.org/obo/HP_0000001", "lbl": "All", "type": "CLASS"},
        {"id": "http://purl.obolibrary.org/obo/HP_0000118", "lbl": "Phenotypic abnormality", "type": "CLASS"},
        {
          "id": "http://purl.obolibrary.org/obo/HP_0001250",
          "lbl": "Seizure",
          "type": "CLASS",
          "meta": {
            "basicPropertyValues": [
              {"pred": "http://www.geneontology.org/formats/oboInOwl#hasAlternativeId", "val": "HP:0001275"}
            ]
          }
        },
        {
          "id": "http://purl.obolibrary.org/obo/HP_0002279",
          "lbl": "obsolete catalepsy",
          "type": "CLASS",
          "meta": {
            "deprecated": true,
            "basicPropertyValues": [
              {"pred": "http://purl.obolibrary.org/obo/IAO_0100001", "val": "http://purl.obolibrary.org/obo/HP_0001250"}
            ]
          }
        },
        {
          "id": "http://purl.obolibrary.org/obo/HP_0044999",
          "lbl": "obsolete orphan",
          "type": "CLASS",
          "meta": {"deprecated": true}
        },
        {"id": "http://purl.obolibrary.org/obo/MONDO_0005071", "lbl": "nervous system disorder", "type": "CLASS"},
        {"id": "http://purl.obolibrary.org/obo/RO_0002200", "lbl": "has phenotype", "type": "PROPERTY"}
      ],
      "edges": [
        {"sub": "http://purl.obolibrary.org/obo/HP_0000118", "pred": "is_a", "obj": "http://purl.obolibrary.org/obo/HP_0000001"},
        {"sub": "http://purl.obolibrary.org/obo/HP_0001250", "pred": "is_a", "obj": "http://purl.obolibrary.org/obo/HP_0000118"},
        {"sub": "http://purl.obolibrary.org/obo/HP_0001250", "pred": "http://purl.obolibrary.org/obo/RO_0002200", "obj": "http://purl.obolibrary.org/obo/HP_0000001"},
        {"sub": "http://purl.obolibrary.org/obo/MONDO_0005071", "pred": "is_a", "obj": "http://purl.obolibrary.org/obo/HP_0000118"}
      ]
    }
  ]
}`

func TestLoadJSON(t *testing.T) {
	g, err := LoadJSON(strings.NewReader(obographsFixture), nil)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}

	if g.Root() != "HP:0000001" {
		t.Errorf("Root() = %s, want HP:0000001", g.Root())
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3 primary terms", g.Len())
	}
	if g.Version() != "http://purl.obolibrary.org/obo/hp/releases/2024-04-26/hp.json" {
		t.Errorf("Version() = %q", g.Version())
	}

	seizure, ok := g.Term("HP:0001250")
	if !ok || seizure.Label != "Seizure" {
		t.Fatalf("Term(HP:0001250) = %v, %v", seizure, ok)
	}
	if !g.IsAncestorOf("HP:0000118", "HP:0001250") {
		t.Error("is_a edge missing: HP:0000118 should be an ancestor of HP:0001250")
	}

	// Non-HP nodes and non-is_a edges are dropped.
	if _, ok := g.Term("MONDO:0005071"); ok {
		t.Error("non-HP node should not be loaded")
	}

	// The obsolete term resolves to its replacement.
	viaObsolete, ok := g.Term("HP:0002279")
	if !ok {
		t.Fatal("obsolete id with replacement did not resolve")
	}
	if viaObsolete.ID != "HP:0001250" {
		t.Errorf("obsolete id resolved to %s, want HP:0001250", viaObsolete.ID)
	}

	// The declared alternative id resolves as well.
	viaAlt, ok := g.Term("HP:0001275")
	if !ok || viaAlt.ID != "HP:0001250" {
		t.Errorf("alternative id resolved to %v, %v", viaAlt, ok)
	}

	// An obsolete term without replacement is dropped entirely.
	if _, ok := g.Term("HP:0044999"); ok {
		t.Error("obsolete id without replacement should not resolve")
	}
}

func TestLoadJSONRejectsGarbage(t *testing.T) {
	if _, err := LoadJSON(strings.NewReader("not json"), nil); err == nil {
		t.Error("expected decode error")
	}
	if _, err := LoadJSON(strings.NewReader(`{"graphs": []}`), nil); err == nil {
		t.Error("expected error for empty graphs")
	}
	// A document without the HPO root cannot serve as an ontology.
	noRoot := `{"graphs": [{"nodes": [{"id": "http://purl.obolibrary.org/obo/HP_0000118", "lbl": "PA", "type": "CLASS"}], "edges": []}]}`
	if _, err := LoadJSON(strings.NewReader(noRoot), nil); err == nil {
		t.Error("expected error for missing root")
	}
}
