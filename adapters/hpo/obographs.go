package hpo

import (
	"encoding/json"
	"io"
	"strings"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
)

// HPORoot is the root term of the Human Phenotype Ontology, "All".
var HPORoot = model.TermID("HP:0000001")

const (
	predIsA          = "is_a"
	predReplacedBy   = "http://purl.obolibrary.org/obo/IAO_0100001"
	predAlternateID  = "http://www.geneontology.org/formats/oboInOwl#hasAlternativeId"
	classNodeType    = "CLASS"
	obolibraryPrefix = "http://purl.obolibrary.org/obo/"
)

// Obographs document structure, as released in hp.json. Only the
// fields the loader consumes are declared.
type obographsDocument struct {
	Graphs []obographsGraph `json:"graphs"`
}

type obographsGraph struct {
	Nodes []obographsNode `json:"nodes"`
	Edges []obographsEdge `json:"edges"`
	Meta  *obographsMeta  `json:"meta,omitempty"`
}

type obographsNode struct {
	ID   string         `json:"id"`
	Lbl  string         `json:"lbl,omitempty"`
	Type string         `json:"type,omitempty"`
	Meta *obographsMeta `json:"meta,omitempty"`
}

type obographsEdge struct {
	Sub  string `json:"sub"`
	Pred string `json:"pred"`
	Obj  string `json:"obj"`
}

type obographsMeta struct {
	Deprecated          bool                 `json:"deprecated,omitempty"`
	Version             string               `json:"version,omitempty"`
	BasicPropertyValues []obographsBasicProp `json:"basicPropertyValues,omitempty"`
}

type obographsBasicProp struct {
	Pred string `json:"pred"`
	Val  string `json:"val"`
}

// LoadJSON reads an HPO release in obographs JSON format and builds
// the in-memory ontology. Deprecated terms with a replacement become
// alternative identifiers of the replacement; deprecated terms without
// one are dropped. Non-HP nodes and non-is_a edges are ignored.
func LoadJSON(r io.Reader, config *GraphConfig) (*Graph, error) {
	var doc obographsDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, core.Wrap(err, "decode obographs document")
	}
	if len(doc.Graphs) == 0 {
		return nil, core.ValidationError("obographs document has no graphs")
	}
	og := doc.Graphs[0]

	defIdx := make(map[model.TermID]int)
	var defs []TermDef
	replaced := make(map[model.TermID]model.TermID)
	seenAlt := make(map[model.TermID]bool)
	// Releases occasionally record the same retired id both as a
	// replacement source and as an alternative id; register it once.
	addAlt := func(idx int, alt model.TermID) {
		if seenAlt[alt] {
			return
		}
		if _, primary := defIdx[alt]; primary {
			return
		}
		seenAlt[alt] = true
		defs[idx].AltIDs = append(defs[idx].AltIDs, alt)
	}

	for _, node := range og.Nodes {
		if node.Type != classNodeType {
			continue
		}
		id, ok := curieFromIRI(node.ID)
		if !ok || id.Prefix() != "HP" {
			continue
		}
		if node.Meta != nil && node.Meta.Deprecated {
			if repl, ok := replacementOf(node.Meta); ok {
				replaced[id] = repl
			}
			continue
		}
		if _, dup := defIdx[id]; dup {
			return nil, core.ValidationError("duplicate node %s in obographs document", id)
		}
		defIdx[id] = len(defs)
		defs = append(defs, TermDef{Term: model.Term{ID: id, Label: node.Lbl}})
	}

	for _, node := range og.Nodes {
		if node.Type != classNodeType || node.Meta == nil {
			continue
		}
		id, ok := curieFromIRI(node.ID)
		if !ok || id.Prefix() != "HP" {
			continue
		}
		idx, primary := defIdx[id]
		if !primary {
			continue
		}
		for _, prop := range node.Meta.BasicPropertyValues {
			if prop.Pred != predAlternateID {
				continue
			}
			if alt, err := model.ParseTermID(prop.Val); err == nil && alt.Prefix() == "HP" {
				addAlt(idx, alt)
			}
		}
	}
	for obsolete, repl := range replaced {
		if idx, ok := defIdx[repl]; ok {
			addAlt(idx, obsolete)
		}
	}

	for _, edge := range og.Edges {
		if edge.Pred != predIsA {
			continue
		}
		child, okc := curieFromIRI(edge.Sub)
		parent, okp := curieFromIRI(edge.Obj)
		if !okc || !okp {
			continue
		}
		idx, ok := defIdx[child]
		if !ok {
			continue
		}
		if _, ok := defIdx[parent]; !ok {
			continue
		}
		defs[idx].Parents = append(defs[idx].Parents, parent)
	}

	g, err := NewGraph(HPORoot, defs, config)
	if err != nil {
		return nil, err
	}
	if og.Meta != nil {
		g.version = og.Meta.Version
	}
	return g, nil
}

// curieFromIRI turns an OBO class IRI such as
// http://purl.obolibrary.org/obo/HP_0000118 into the compact HP:0000118
// form. Inputs already in compact form pass through.
func curieFromIRI(iri string) (model.TermID, bool) {
	s := iri
	if strings.HasPrefix(s, obolibraryPrefix) {
		s = strings.TrimPrefix(s, obolibraryPrefix)
	} else if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Replace(s, "_", ":", 1)
	id, err := model.ParseTermID(s)
	if err != nil {
		return "", false
	}
	return id, true
}

func replacementOf(meta *obographsMeta) (model.TermID, bool) {
	for _, prop := range meta.BasicPropertyValues {
		if prop.Pred != predReplacedBy {
			continue
		}
		if repl, ok := curieFromIRI(prop.Val); ok {
			return repl, true
		}
	}
	return "", false
}
