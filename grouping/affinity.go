package grouping

import "github.com/tsawler/figref/model"

// Affinity weighting. Calibration constants subject to revision.
const (
	affinityDistanceWeight  = 0.4
	affinityTypeWeight      = 0.3
	affinityAlignmentWeight = 0.2
	affinityIDBonus         = 0.5
)

// metadataCompatibility lists the metadata types accepted for each core
// group type. Titles are sometimes generic, hence figure_title under table.
var metadataCompatibility = map[model.LayoutType][]model.LayoutType{
	model.LayoutFigure:    {model.LayoutFigureTitle, model.LayoutFigureCaption},
	model.LayoutTable:     {model.LayoutTableCaption, model.LayoutFigureTitle},
	model.LayoutFormula:   {model.LayoutNumber, model.LayoutFigureCaption},
	model.LayoutAlgorithm: {model.LayoutFigureTitle, model.LayoutFigureCaption},
	model.LayoutImage:     {model.LayoutFigureTitle, model.LayoutFigureCaption},
}

// isCompatibleMetadata checks whether the element type is an accepted
// metadata type for the group type.
func isCompatibleMetadata(elemType, groupType model.LayoutType) bool {
	for _, t := range metadataCompatibility[groupType] {
		if t == elemType {
			return true
		}
	}
	return false
}

// affinity scores how strongly two elements belong together: distance,
// type compatibility, and alignment are weighted and summed, with an
// additive bonus when both elements carry the same extracted numeric ID.
func (g *Grouper) affinity(a, b element) float64 {
	score := 0.0
	ab, bb := a.raw.BBox, b.raw.BBox

	distScore := 1 - ab.DistanceTo(bb)/g.config.MaxAffinityDistance
	if distScore < 0 {
		distScore = 0
	}
	score += distScore * affinityDistanceWeight

	if isCompatibleMetadata(b.raw.Type, coreTypeOf(a)) {
		score += affinityTypeWeight
	}

	if ab.IsAbove(bb, g.config.AlignmentThreshold) || ab.IsBelow(bb, g.config.AlignmentThreshold) {
		align := 1 - float64(absInt(ab.CenterX()-bb.CenterX()))/float64(g.config.AlignmentThreshold)
		if align < 0 {
			align = 0
		}
		score += align * affinityAlignmentWeight
	} else if ab.HorizontalOverlap(bb) {
		score += affinityAlignmentWeight
	}

	if a.hasID && b.hasID && a.id == b.id {
		score += affinityIDBonus
	}

	return score
}

// groupAffinity is the mean pairwise affinity between an element and every
// member of a group.
func (g *Grouper) groupAffinity(elems []element, i int, grp []int) float64 {
	if len(grp) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range grp {
		sum += g.affinity(elems[i], elems[m])
	}
	return sum / float64(len(grp))
}

// shouldGroup applies the spatial compatibility rule for attaching a
// metadata element to a core element: titles and captions must sit above or
// below within twice the vertical threshold while horizontally overlapping
// or center-aligned; trailing numbers must sit to the right within the
// horizontal threshold while vertically overlapping. Anything else falls
// back to a relaxed proximity check.
func (g *Grouper) shouldGroup(core, e element) bool {
	cb, eb := core.raw.BBox, e.raw.BBox

	if !e.raw.Type.IsMetadata() {
		return false
	}

	switch e.raw.Type {
	case model.LayoutFigureTitle, model.LayoutTableCaption:
		if eb.HorizontalOverlap(cb) || absInt(eb.CenterX()-cb.CenterX()) < g.config.AlignmentThreshold*2 {
			if eb.Y2() < cb.Y {
				return cb.Y-eb.Y2() < g.config.VerticalThreshold*2
			}
			return eb.Y-cb.Y2() < g.config.VerticalThreshold*2
		}

	case model.LayoutNumber:
		if eb.VerticalOverlap(cb) || absInt(eb.CenterY()-cb.CenterY()) < cb.Height/2 {
			return eb.X-cb.X2() < g.config.HorizontalThreshold
		}
	}

	return eb.DistanceTo(cb) < float64(g.config.VerticalThreshold*3)
}

// bestGroupFor scores an unassigned metadata element against every existing
// group: distance to the group's bounding box, type compatibility, best
// alignment with any member, and an ID-match bonus. The best group is
// returned only when its score clears the assignment threshold.
func (g *Grouper) bestGroupFor(elems []element, i int, groups [][]int) (int, bool) {
	e := elems[i]
	best := -1
	bestScore := 0.0

	maxDist := float64(g.config.VerticalThreshold * 3)

	for gi, grp := range groups {
		score := 0.0

		gb := groupBBox(elems, grp)
		distScore := 1 - e.raw.BBox.DistanceTo(gb)/maxDist
		if distScore < 0 {
			distScore = 0
		}
		score += distScore * affinityDistanceWeight

		if isCompatibleMetadata(e.raw.Type, groupLayoutType(elems, grp)) {
			score += affinityTypeWeight
		}

		bestAlign := 0.0
		for _, mi := range grp {
			mb := elems[mi].raw.BBox
			if e.raw.BBox.IsAbove(mb, g.config.AlignmentThreshold) || e.raw.BBox.IsBelow(mb, g.config.AlignmentThreshold) {
				align := 1 - float64(absInt(e.raw.BBox.CenterX()-mb.CenterX()))/float64(g.config.AlignmentThreshold)
				if align > bestAlign {
					bestAlign = align
				}
			}
		}
		score += bestAlign * affinityAlignmentWeight

		if e.hasID {
			for _, mi := range grp {
				if elems[mi].hasID && elems[mi].id == e.id {
					score += affinityIDBonus
					break
				}
			}
		}

		if score > bestScore {
			bestScore, best = score, gi
		}
	}

	if best >= 0 && bestScore > g.config.GroupAssignThreshold {
		return best, true
	}
	return -1, false
}

// coreTypeOf returns the element's type if it is a core type, else unknown.
func coreTypeOf(e element) model.LayoutType {
	if e.raw.Type.IsCore() {
		return e.raw.Type
	}
	return layoutUnknown
}

// groupLayoutType returns the first core member's type, else unknown.
func groupLayoutType(elems []element, grp []int) model.LayoutType {
	for _, i := range grp {
		if elems[i].raw.Type.IsCore() {
			return elems[i].raw.Type
		}
	}
	return layoutUnknown
}

// groupBBox returns the union bounding box of all group members.
func groupBBox(elems []element, grp []int) model.BoundingBox {
	if len(grp) == 0 {
		return model.BoundingBox{}
	}
	bbox := elems[grp[0]].raw.BBox
	for _, i := range grp[1:] {
		bbox = bbox.Union(elems[i].raw.BBox)
	}
	return bbox
}
