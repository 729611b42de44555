package grouping

import (
	"sort"

	"github.com/tsawler/figref/identity"
	"github.com/tsawler/figref/model"
	"github.com/tsawler/figref/refs"
)

// Config holds grouping thresholds. All values are empirically calibrated
// against 150 DPI renders; they scale with page resolution and are exposed
// here for tuning rather than re-derivation.
type Config struct {
	// VerticalThreshold is the maximum vertical gap in pixels between a core
	// element and an attached title or caption.
	VerticalThreshold int

	// HorizontalThreshold is the maximum horizontal gap in pixels between a
	// formula and its trailing number.
	HorizontalThreshold int

	// AlignmentThreshold is the maximum horizontal center deviation in pixels
	// for two elements to count as aligned.
	AlignmentThreshold int

	// MaxAffinityDistance is the distance in pixels at which the affinity
	// distance score reaches zero.
	MaxAffinityDistance float64

	// AffinityThreshold is the minimum affinity score for attaching an
	// element to a core element.
	AffinityThreshold float64

	// GroupAssignThreshold is the minimum score for assigning leftover
	// metadata to an existing group.
	GroupAssignThreshold float64

	// IDGroupAffinity is the minimum mean affinity for pulling an unlabeled
	// element into an ID bucket.
	IDGroupAffinity float64

	// PatternMatchRatio is the fraction of a layout template that must match
	// for the template grouping to accept a run of elements.
	PatternMatchRatio float64
}

// DefaultConfig returns the default grouping configuration.
func DefaultConfig() Config {
	return Config{
		VerticalThreshold:    50,
		HorizontalThreshold:  100,
		AlignmentThreshold:   50,
		MaxAffinityDistance:  300,
		AffinityThreshold:    0.3,
		GroupAssignThreshold: 0.3,
		IDGroupAffinity:      0.5,
		PatternMatchRatio:    0.6,
	}
}

// element wraps a sanitized detection with its extracted ID, if any.
type element struct {
	raw    model.RawElement
	id     string
	idType model.ReferenceType
	hasID  bool
}

// layoutUnknown is the group type when no core element is present.
const layoutUnknown model.LayoutType = "unknown"

// Grouper clusters related layout detections (a picture plus its title,
// caption, and trailing number) into logical Figures. Three independent
// strategies run over the same element list and their outputs are merged:
// ID-based bucketing, layout template matching, and proximity scoring.
type Grouper struct {
	config Config
	ids    *identity.Generator
}

// NewGrouper creates a grouper with default configuration.
func NewGrouper() *Grouper {
	return NewGrouperWithConfig(DefaultConfig())
}

// NewGrouperWithConfig creates a grouper with the specified configuration.
func NewGrouperWithConfig(config Config) *Grouper {
	return &Grouper{
		config: config,
		ids:    identity.NewGenerator(),
	}
}

// Group clusters the page's raw detections into Figures. Elements outside
// the core and metadata vocabularies (plain body text, unknown classes) are
// left alone. Grouping is deterministic: the same element list produces the
// same figures.
func (g *Grouper) Group(raw []model.RawElement, pageIndex int) []model.Figure {
	if pageIndex < 0 {
		pageIndex = 0
	}

	var elems []element
	for _, r := range raw {
		r = r.Sanitize()
		if !r.Type.IsCore() && !r.Type.IsMetadata() {
			continue
		}
		e := element{raw: r}
		if id, typ, ok := refs.FirstID(r.Text); ok {
			e.id, e.idType, e.hasID = id, typ, true
		}
		elems = append(elems, e)
	}
	if len(elems) == 0 {
		return nil
	}

	idGroups := g.groupByIDs(elems)
	patternGroups := g.groupByPatterns(elems)
	proximityGroups := g.groupByProximity(elems)

	merged := mergeGroups(idGroups, patternGroups, proximityGroups)

	var figures []model.Figure
	for _, grp := range merged {
		if fig, ok := g.buildFigure(elems, grp, pageIndex); ok {
			figures = append(figures, fig)
		}
	}
	return figures
}

// groupByIDs buckets elements by their extracted (type, ID) key, then offers
// each unlabeled element to the bucket with the highest mean affinity.
func (g *Grouper) groupByIDs(elems []element) [][]int {
	type bucketKey struct {
		typ model.ReferenceType
		id  string
	}

	var order []bucketKey
	buckets := make(map[bucketKey][]int)

	for i, e := range elems {
		if !e.hasID {
			continue
		}
		k := bucketKey{e.idType, e.id}
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], i)
	}

	for i, e := range elems {
		if e.hasID {
			continue
		}
		bestScore := 0.0
		var bestKey bucketKey
		found := false
		for _, k := range order {
			if score := g.groupAffinity(elems, i, buckets[k]); score > bestScore {
				bestScore, bestKey, found = score, k, true
			}
		}
		if found && bestScore > g.config.IDGroupAffinity {
			buckets[bestKey] = append(buckets[bestKey], i)
		}
	}

	groups := make([][]int, 0, len(order))
	for _, k := range order {
		groups = append(groups, buckets[k])
	}
	return groups
}

// slot is one position in a layout template; any of its types is accepted.
type slot []model.LayoutType

// layoutTemplates are the typical element arrangements around a core
// element, in top-to-bottom order (left-to-right for formula numbers).
var layoutTemplates = [][]slot{
	{{model.LayoutFigureTitle}, {model.LayoutFigure, model.LayoutImage}, {model.LayoutFigureCaption}}, // figure_standard
	{{model.LayoutTableCaption}, {model.LayoutTable}},                                                 // table_standard
	{{model.LayoutFormula}, {model.LayoutNumber}},                                                     // formula_standard
	{{model.LayoutFigureTitle}, {model.LayoutAlgorithm}, {model.LayoutFigureCaption}},                 // algorithm_standard
}

// groupByPatterns sorts elements top to bottom and matches runs of
// spatially-related elements against each known layout template.
func (g *Grouper) groupByPatterns(elems []element) [][]int {
	order := make([]int, len(elems))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return elems[order[a]].raw.BBox.Y < elems[order[b]].raw.BBox.Y
	})

	used := make(map[int]bool)
	var groups [][]int

	for _, tmpl := range layoutTemplates {
		for pos := range order {
			if used[order[pos]] {
				continue
			}
			grp := g.matchTemplate(elems, order, pos, tmpl, used)
			if len(grp) >= 2 {
				groups = append(groups, grp)
				for _, i := range grp {
					used[i] = true
				}
			}
		}
	}
	return groups
}

// matchTemplate attempts to match a template starting at order[startPos].
// A match is accepted when the required fraction of the template's slots
// was filled in order of appearance.
func (g *Grouper) matchTemplate(elems []element, order []int, startPos int, tmpl []slot, used map[int]bool) []int {
	first := order[startPos]
	if !typeInSlot(elems[first].raw.Type, tmpl[0]) {
		return nil
	}

	grp := []int{first}
	matched := 1

	for pos := startPos + 1; pos < len(order); pos++ {
		idx := order[pos]
		if used[idx] || matched >= len(tmpl) {
			break
		}
		if !g.spatiallyRelated(elems[grp[len(grp)-1]], elems[idx]) {
			continue
		}
		if typeInSlot(elems[idx].raw.Type, tmpl[matched]) {
			grp = append(grp, idx)
			matched++
		}
	}

	if float64(matched) < float64(len(tmpl))*g.config.PatternMatchRatio {
		return nil
	}
	return grp
}

// typeInSlot checks whether the element type fills the template slot.
func typeInSlot(t model.LayoutType, s slot) bool {
	for _, accept := range s {
		if t == accept {
			return true
		}
	}
	return false
}

// spatiallyRelated checks whether two elements are close enough to belong to
// the same template run: vertically stacked within the vertical threshold,
// or side by side within the horizontal threshold (formula numbers).
func (g *Grouper) spatiallyRelated(a, b element) bool {
	ab, bb := a.raw.BBox, b.raw.BBox

	if ab.IsAbove(bb, g.config.AlignmentThreshold*2) {
		return bb.Y-ab.Y2() < g.config.VerticalThreshold
	}

	if absInt(ab.CenterY()-bb.CenterY()) < ab.Height {
		return absInt(ab.X-bb.X2()) < g.config.HorizontalThreshold ||
			absInt(bb.X-ab.X2()) < g.config.HorizontalThreshold
	}

	return false
}

// groupByProximity seeds one group per core element, attaches the highest-
// affinity compatible elements to it, and finally offers any unassigned
// metadata element to its best-fitting existing group.
func (g *Grouper) groupByProximity(elems []element) [][]int {
	used := make(map[int]bool)
	var groups [][]int

	for i := range elems {
		if used[i] || !elems[i].raw.Type.IsCore() {
			continue
		}

		grp := []int{i}
		used[i] = true

		type scored struct {
			idx   int
			score float64
		}
		var cands []scored
		for j := range elems {
			if used[j] || j == i {
				continue
			}
			if s := g.affinity(elems[i], elems[j]); s > 0 {
				cands = append(cands, scored{j, s})
			}
		}
		sort.SliceStable(cands, func(a, b int) bool {
			return cands[a].score > cands[b].score
		})

		for _, c := range cands {
			if c.score > g.config.AffinityThreshold && g.shouldGroup(elems[i], elems[c.idx]) {
				grp = append(grp, c.idx)
				used[c.idx] = true
			}
		}

		groups = append(groups, grp)
	}

	// Standalone titles and captions may still belong to a nearby group.
	for i := range elems {
		if used[i] || !elems[i].raw.Type.IsMetadata() {
			continue
		}
		if best, ok := g.bestGroupFor(elems, i, groups); ok {
			groups[best] = append(groups[best], i)
		}
	}

	return groups
}

// mergeGroups unions the strategies' outputs: two groups sharing at least
// half of the smaller group's elements are merged, duplicates removed,
// order preserved.
func mergeGroups(groupLists ...[][]int) [][]int {
	var all [][]int
	membership := make(map[int][]int)

	for _, list := range groupLists {
		for _, grp := range list {
			gid := len(all)
			all = append(all, grp)
			for _, e := range grp {
				membership[e] = append(membership[e], gid)
			}
		}
	}

	usedGroups := make(map[int]bool)
	var merged [][]int

	for gi, grp := range all {
		if usedGroups[gi] {
			continue
		}
		usedGroups[gi] = true

		cur := append([]int(nil), grp...)
		inCur := make(map[int]bool, len(cur))
		for _, e := range cur {
			inCur[e] = true
		}

		for _, e := range grp {
			for _, other := range membership[e] {
				if other == gi || usedGroups[other] {
					continue
				}
				overlap := countOverlap(grp, all[other])
				if overlap*2 >= minInt(len(grp), len(all[other])) {
					for _, oe := range all[other] {
						if !inCur[oe] {
							cur = append(cur, oe)
							inCur[oe] = true
						}
					}
					usedGroups[other] = true
				}
			}
		}

		merged = append(merged, cur)
	}
	return merged
}

// countOverlap counts elements present in both groups.
func countOverlap(a, b []int) int {
	in := make(map[int]bool, len(a))
	for _, e := range a {
		in[e] = true
	}
	n := 0
	for _, e := range b {
		if in[e] {
			n++
		}
	}
	return n
}

// minInt returns the smaller of two int values.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// absInt returns the absolute value of an int.
func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
