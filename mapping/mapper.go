package mapping

import (
	"strings"

	"github.com/tsawler/figref/model"
	"github.com/tsawler/figref/refs"
)

// Config holds mapping weights and thresholds. The values are empirically
// calibrated; they are exposed for tuning rather than re-derivation.
type Config struct {
	// IDMatchWeight is the edge weight for an exact or suffix-stripped ID
	// match ("1.2" matches figure "1.2a").
	IDMatchWeight float64

	// IDSubstringWeight is the edge weight when the reference's ID merely
	// appears in the figure's caption text.
	IDSubstringWeight float64

	// CrossTypePenalty is subtracted from ID-match weights when the
	// reference and figure types are compatible but not equal.
	CrossTypePenalty float64

	// SamePageMaxDistance is the center-to-center distance in pixels beyond
	// which no same-page edge is added.
	SamePageMaxDistance float64

	// SamePageWeight scales the same-page proximity score.
	SamePageWeight float64

	// NextPageWeight is the flat weight when the reference sits exactly one
	// page after the figure. The reverse direction is not rewarded.
	NextPageWeight float64

	// SemanticWeight scales the Jaccard word-set similarity.
	SemanticWeight float64

	// SemanticMinSimilarity is the similarity below which no semantic edge
	// is added.
	SemanticMinSimilarity float64

	// AcceptThreshold is the total weight a candidate must strictly exceed
	// to be accepted.
	AcceptThreshold float64
}

// DefaultConfig returns the default mapping configuration.
func DefaultConfig() Config {
	return Config{
		IDMatchWeight:         0.9,
		IDSubstringWeight:     0.8,
		CrossTypePenalty:      0.05,
		SamePageMaxDistance:   500,
		SamePageWeight:        0.5,
		NextPageWeight:        0.3,
		SemanticWeight:        0.4,
		SemanticMinSimilarity: 0.2,
		AcceptThreshold:       0.3,
	}
}

// Mapper resolves in-text references to the figures they point at, by
// building a weighted graph of ID, spatial, and semantic relations and
// picking the best-connected figure per reference. A Mapper holds no state
// between calls; the graph is request-scoped.
type Mapper struct {
	config Config
}

// NewMapper creates a mapper with default configuration.
func NewMapper() *Mapper {
	return NewMapperWithConfig(DefaultConfig())
}

// NewMapperWithConfig creates a mapper with the specified configuration.
func NewMapperWithConfig(config Config) *Mapper {
	return &Mapper{config: config}
}

// Resolve annotates each reference with the figure it resolves to, or marks
// it NotMatched. The output preserves input order and length. Resolve never
// fails: an empty figure or reference list short-circuits to all-unmatched,
// and any internal defect degrades the whole document to all-unmatched
// rather than panicking outward.
func (m *Mapper) Resolve(references []model.Reference, figures []model.Figure) []model.Reference {
	out, _ := m.ResolveWithStats(references, figures)
	return out
}

// ResolveWithStats is Resolve plus statistics about the constructed graph.
func (m *Mapper) ResolveWithStats(references []model.Reference, figures []model.Figure) (resolved []model.Reference, stats Stats) {
	out := make([]model.Reference, len(references))
	copy(out, references)

	stats = Stats{References: len(references), Figures: len(figures)}

	if len(references) == 0 {
		return out, stats
	}
	if len(figures) == 0 {
		for i := range out {
			out[i].NotMatched = true
			out[i].FigureID = ""
		}
		return out, stats
	}

	// Degrade to all-unmatched on any internal defect; a broken mapping
	// must not fail the whole document request.
	defer func() {
		if r := recover(); r != nil {
			for i := range out {
				out[i].NotMatched = true
				out[i].FigureID = ""
			}
			resolved = out
		}
	}()

	graph := m.buildGraph(out, figures)
	stats.Edges = graph.edgeCount

	for ri := range out {
		best := -1
		bestWeight := 0.0
		for _, fi := range graph.candidates(ri) {
			// Strictly greater keeps the first candidate in figure-list
			// order on ties; deterministic, not semantically meaningful.
			if w := graph.totalWeight(ri, fi); w > bestWeight {
				bestWeight, best = w, fi
			}
		}
		if best >= 0 && bestWeight > m.config.AcceptThreshold {
			out[ri].FigureID = figures[best].FigureID
			out[ri].NotMatched = false
		} else {
			out[ri].NotMatched = true
			out[ri].FigureID = ""
		}
	}

	return out, stats
}

// buildGraph adds ID-match, spatial, and semantic edges between every
// type-compatible reference/figure pair.
func (m *Mapper) buildGraph(references []model.Reference, figures []model.Figure) *resolutionGraph {
	graph := newResolutionGraph()

	for ri, ref := range references {
		refID, refType := m.referenceIdentity(ref)
		refWords := wordSet(ref.Text)

		for fi, fig := range figures {
			if !typesCompatible(refType, fig.ReferenceType) {
				continue
			}

			if refID != "" {
				if fig.FigureID == refID || stripAlphaSuffix(fig.FigureID) == refID {
					graph.addEdge(ri, fi, m.idMatchWeight(m.config.IDMatchWeight, refType, fig.ReferenceType), RelationIDMatch)
				} else if strings.Contains(strings.ToLower(fig.Text), refID) {
					graph.addEdge(ri, fi, m.idMatchWeight(m.config.IDSubstringWeight, refType, fig.ReferenceType), RelationIDMatch)
				}
			}

			if ref.PageIndex == fig.PageIndex {
				if d := ref.BBox.CenterDistance(fig.BBox); d < m.config.SamePageMaxDistance {
					w := (1 - d/m.config.SamePageMaxDistance) * m.config.SamePageWeight
					graph.addEdge(ri, fi, w, RelationSamePage)
				}
			} else if ref.PageIndex-fig.PageIndex == 1 {
				// A forward citation rendered on the following page.
				graph.addEdge(ri, fi, m.config.NextPageWeight, RelationNextPage)
			}

			if sim := jaccard(refWords, wordSet(fig.Text)); sim > m.config.SemanticMinSimilarity {
				graph.addEdge(ri, fi, sim*m.config.SemanticWeight, RelationSemantic)
			}
		}
	}

	return graph
}

// referenceIdentity returns the reference's extracted numeric ID and type,
// deriving both from the citation text when the extractor did not supply
// them.
func (m *Mapper) referenceIdentity(ref model.Reference) (string, model.ReferenceType) {
	id, typ := ref.ExtractedID, ref.Type
	if id == "" || typ == model.ReferenceUnknown {
		if dID, dType, ok := refs.FirstID(ref.Text); ok {
			if id == "" {
				id = dID
			}
			if typ == model.ReferenceUnknown {
				typ = dType
			}
		}
	}
	return id, typ
}

// idMatchWeight reduces the base weight slightly when the types are
// compatible but not equal, so exact-type matches rank first.
func (m *Mapper) idMatchWeight(base float64, refType, figType model.ReferenceType) float64 {
	if refType != figType {
		return base - m.config.CrossTypePenalty
	}
	return base
}

// typesCompatible is the fixed compatibility lookup: example and algorithm
// references may also match figure-typed figures (documents often caption
// algorithms as generic figures); every other pair requires exact equality.
func typesCompatible(refType, figType model.ReferenceType) bool {
	if refType == figType {
		return true
	}
	if figType == model.ReferenceFigure {
		return refType == model.ReferenceExample || refType == model.ReferenceAlgorithm
	}
	return false
}

// stripAlphaSuffix removes trailing ASCII letters so "1.2" matches "1.2a".
func stripAlphaSuffix(id string) string {
	end := len(id)
	for end > 0 {
		c := id[end-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			end--
			continue
		}
		break
	}
	return id[:end]
}

// wordSet lowercases and splits text into a set of words.
func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

// jaccard computes word-set Jaccard similarity.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
