package mapping

// Relation identifies why an edge links a reference to a figure.
type Relation int

const (
	RelationIDMatch Relation = iota
	RelationSamePage
	RelationNextPage
	RelationSemantic
)

func (r Relation) String() string {
	switch r {
	case RelationIDMatch:
		return "id_match"
	case RelationSamePage:
		return "same_page"
	case RelationNextPage:
		return "next_page"
	case RelationSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// edge is one weighted relation from a reference to a figure. Multiple
// edges between the same pair are allowed, one per relation, and are summed
// when inferring.
type edge struct {
	weight   float64
	relation Relation
}

// resolutionGraph is a request-scoped adjacency map from reference index to
// figure index. It is built fresh for each document and discarded after
// inference.
type resolutionGraph struct {
	edges map[int]map[int][]edge

	// candidateOrder preserves figure insertion order per reference so tie
	// breaking is deterministic.
	candidateOrder map[int][]int

	edgeCount int
}

func newResolutionGraph() *resolutionGraph {
	return &resolutionGraph{
		edges:          make(map[int]map[int][]edge),
		candidateOrder: make(map[int][]int),
	}
}

// addEdge records a weighted relation from reference ri to figure fi.
func (g *resolutionGraph) addEdge(ri, fi int, weight float64, relation Relation) {
	if weight <= 0 {
		return
	}
	figs, ok := g.edges[ri]
	if !ok {
		figs = make(map[int][]edge)
		g.edges[ri] = figs
	}
	if _, seen := figs[fi]; !seen {
		g.candidateOrder[ri] = append(g.candidateOrder[ri], fi)
	}
	figs[fi] = append(figs[fi], edge{weight: weight, relation: relation})
	g.edgeCount++
}

// totalWeight sums all edge weights between a reference and a figure.
func (g *resolutionGraph) totalWeight(ri, fi int) float64 {
	sum := 0.0
	for _, e := range g.edges[ri][fi] {
		sum += e.weight
	}
	return sum
}

// candidates returns the figure indices connected to a reference, in edge
// insertion order.
func (g *resolutionGraph) candidates(ri int) []int {
	return g.candidateOrder[ri]
}

// Stats describes a constructed resolution graph.
type Stats struct {
	References int `json:"references"`
	Figures    int `json:"figures"`
	Edges      int `json:"edges"`
}
