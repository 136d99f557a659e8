package hpo

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
)

// PhenotypicAbnormality is the root of the phenotypic abnormality
// branch of the HPO. Terms outside this branch describe inheritance,
// clinical modifiers and the like, not phenotypic features.
var PhenotypicAbnormality = model.TermID("HP:0000118")

// DefaultClosureCacheSize bounds the per-direction LRU caches of
// transitive closures.
const DefaultClosureCacheSize = 8192

// GraphConfig tunes the in-memory ontology. A nil config selects the
// defaults.
type GraphConfig struct {
	ClosureCacheSize int
}

// TermDef is one term of an ontology under construction.
type TermDef struct {
	Term model.Term
	// Parents lists the direct is-a parents. Empty only for the root.
	Parents []model.TermID
	// AltIDs are alternative or obsolete identifiers that resolve to
	// this term.
	AltIDs []model.TermID
}

// Graph is an in-memory ontology over a rooted directed acyclic graph
// of terms. It keeps two edge directions, child to parent and parent
// to child, so that both closure directions are plain forward
// traversals. Closure queries are memoized in LRU caches; all methods
// are safe for concurrent readers once built.
type Graph struct {
	root    model.TermID
	version string
	terms   []model.Term
	index   map[model.TermID]int64

	up   *simple.DirectedGraph
	down *simple.DirectedGraph

	ancestors   *lru.Cache[model.TermID, []model.TermID]
	descendants *lru.Cache[model.TermID, []model.TermID]
}

// NewGraph builds an ontology from term definitions. It rejects
// duplicate identifiers, dangling parent references, cycles, and terms
// unreachable from the root.
func NewGraph(root model.TermID, defs []TermDef, config *GraphConfig) (*Graph, error) {
	if config == nil {
		config = &GraphConfig{}
	}
	cacheSize := config.ClosureCacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultClosureCacheSize
	}

	g := &Graph{
		root:  root,
		terms: make([]model.Term, len(defs)),
		index: make(map[model.TermID]int64, len(defs)),
		up:    simple.NewDirectedGraph(),
		down:  simple.NewDirectedGraph(),
	}

	for i, def := range defs {
		id := def.Term.ID
		if id.IsEmpty() {
			return nil, core.ValidationError("term %d has an empty identifier", i)
		}
		if _, dup := g.index[id]; dup {
			return nil, core.ValidationError("duplicate term %s", id)
		}
		g.terms[i] = def.Term
		g.index[id] = int64(i)
		g.up.AddNode(simple.Node(i))
		g.down.AddNode(simple.Node(i))
	}
	for _, def := range defs {
		for _, alt := range def.AltIDs {
			if _, clash := g.index[alt]; clash {
				return nil, core.ValidationError("alternative id %s of %s clashes with an existing term", alt, def.Term.ID)
			}
			g.index[alt] = g.index[def.Term.ID]
		}
	}

	if _, ok := g.index[root]; !ok {
		return nil, core.ValidationError("root %s is not among the terms", root)
	}

	for _, def := range defs {
		child := g.index[def.Term.ID]
		for _, parent := range def.Parents {
			parentIdx, ok := g.index[parent]
			if !ok {
				return nil, core.ValidationError("term %s names unknown parent %s", def.Term.ID, parent)
			}
			if parentIdx == child {
				return nil, core.ValidationError("term %s is its own parent", def.Term.ID)
			}
			g.up.SetEdge(simple.Edge{F: simple.Node(child), T: simple.Node(parentIdx)})
			g.down.SetEdge(simple.Edge{F: simple.Node(parentIdx), T: simple.Node(child)})
		}
	}

	if _, err := topo.Sort(g.up); err != nil {
		return nil, core.ValidationError("ontology contains a cycle: %v", err)
	}
	if err := g.checkConnected(); err != nil {
		return nil, err
	}

	var err error
	g.ancestors, err = lru.New[model.TermID, []model.TermID](cacheSize)
	if err != nil {
		return nil, core.Wrap(err, "create ancestor cache")
	}
	g.descendants, err = lru.New[model.TermID, []model.TermID](cacheSize)
	if err != nil {
		return nil, core.Wrap(err, "create descendant cache")
	}
	return g, nil
}

func (g *Graph) checkConnected() error {
	reached := make([]bool, len(g.terms))
	rootIdx := g.index[g.root]
	reached[rootIdx] = true
	df := traverse.DepthFirst{}
	df.Walk(g.down, simple.Node(rootIdx), func(n graph.Node) bool {
		reached[n.ID()] = true
		return false
	})
	for i, ok := range reached {
		if !ok {
			return core.ValidationError("term %s is not connected to root %s", g.terms[i].ID, g.root)
		}
	}
	return nil
}

// Root returns the root term identifier.
func (g *Graph) Root() model.TermID { return g.root }

// Version returns the ontology release version when known, e.g. the
// release IRI of the loaded obographs document.
func (g *Graph) Version() string { return g.version }

// Len returns the number of primary terms.
func (g *Graph) Len() int { return len(g.terms) }

// Term resolves an identifier to its term record. Alternative and
// obsolete identifiers resolve to the current primary term.
func (g *Graph) Term(id model.TermID) (model.Term, bool) {
	idx, ok := g.index[id]
	if !ok {
		return model.Term{}, false
	}
	return g.terms[idx], true
}

func (g *Graph) resolve(id model.TermID) (int64, bool) {
	idx, ok := g.index[id]
	return idx, ok
}

func (g *Graph) neighbors(dg *simple.DirectedGraph, idx int64) []model.TermID {
	it := dg.From(idx)
	out := make([]model.TermID, 0, it.Len())
	for it.Next() {
		out = append(out, g.terms[it.Node().ID()].ID)
	}
	sortTermIDs(out)
	return out
}

// Parents returns the direct parents of a term, nil for unknown terms.
func (g *Graph) Parents(id model.TermID) []model.TermID {
	idx, ok := g.resolve(id)
	if !ok {
		return nil
	}
	return g.neighbors(g.up, idx)
}

// Children returns the direct children of a term, nil for unknown terms.
func (g *Graph) Children(id model.TermID) []model.TermID {
	idx, ok := g.resolve(id)
	if !ok {
		return nil
	}
	return g.neighbors(g.down, idx)
}

func (g *Graph) closure(dg *simple.DirectedGraph, cache *lru.Cache[model.TermID, []model.TermID], id model.TermID) []model.TermID {
	idx, ok := g.resolve(id)
	if !ok {
		return nil
	}
	primary := g.terms[idx].ID
	if cached, hit := cache.Get(primary); hit {
		return cached
	}
	var out []model.TermID
	df := traverse.DepthFirst{}
	df.Walk(dg, simple.Node(idx), func(n graph.Node) bool {
		if n.ID() != idx {
			out = append(out, g.terms[n.ID()].ID)
		}
		return false
	})
	sortTermIDs(out)
	cache.Add(primary, out)
	return out
}

// AncestorsOf returns the transitive parents of a term in ascending
// identifier order, excluding the term itself.
func (g *Graph) AncestorsOf(id model.TermID) []model.TermID {
	return g.closure(g.up, g.ancestors, id)
}

// DescendantsOf returns the transitive children of a term in ascending
// identifier order, excluding the term itself.
func (g *Graph) DescendantsOf(id model.TermID) []model.TermID {
	return g.closure(g.down, g.descendants, id)
}

// IsAncestorOf reports whether ancestor lies above descendant. A term
// is not its own ancestor.
func (g *Graph) IsAncestorOf(ancestor, descendant model.TermID) bool {
	ancIdx, ok := g.resolve(ancestor)
	if !ok {
		return false
	}
	closure := g.AncestorsOf(descendant)
	target := g.terms[ancIdx].ID
	i := sort.Search(len(closure), func(i int) bool { return closure[i] >= target })
	return i < len(closure) && closure[i] == target
}

func sortTermIDs(ids []model.TermID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
