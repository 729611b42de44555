package grouping

import (
	"strings"

	"github.com/tsawler/figref/identity"
	"github.com/tsawler/figref/model"
)

// buildFigure converts a merged group into one Figure. The largest-area core
// element is canonical; the longest title, first caption, and first trailing
// number contribute text; the figure bounding box is the union of all
// members and confidence is the member maximum.
func (g *Grouper) buildFigure(elems []element, grp []int, pageIndex int) (model.Figure, bool) {
	if len(grp) == 0 {
		return model.Figure{}, false
	}

	coreIdx, titleIdx, captionIdx, numberIdx := -1, -1, -1, -1
	for _, i := range grp {
		e := elems[i]
		switch {
		case e.raw.Type.IsCore():
			if coreIdx < 0 || e.raw.BBox.Area() > elems[coreIdx].raw.BBox.Area() {
				coreIdx = i
			}
		case e.raw.Type == model.LayoutFigureTitle || e.raw.Type == model.LayoutTableCaption:
			if titleIdx < 0 || len(e.raw.Text) > len(elems[titleIdx].raw.Text) {
				titleIdx = i
			}
		case e.raw.Type == model.LayoutFigureCaption:
			if captionIdx < 0 {
				captionIdx = i
			}
		case e.raw.Type == model.LayoutNumber:
			if numberIdx < 0 {
				numberIdx = i
			}
		}
	}

	canonical := coreIdx
	if canonical < 0 {
		for _, i := range grp {
			if canonical < 0 || elems[i].raw.BBox.Area() > elems[canonical].raw.BBox.Area() {
				canonical = i
			}
		}
	}

	var parts []string
	seen := make(map[int]bool)
	for _, i := range []int{titleIdx, captionIdx, numberIdx, canonical} {
		if i < 0 || seen[i] {
			continue
		}
		seen[i] = true
		if t := strings.TrimSpace(elems[i].raw.Text); t != "" {
			parts = append(parts, t)
		}
	}
	combined := strings.Join(parts, " ")

	groupType := groupLayoutType(elems, grp)

	// Prefer an ID already extracted on a member over re-deriving from the
	// concatenated text.
	var figureID string
	refType := model.ReferenceUnknown
	source := model.IDSourceGenerated
	for _, i := range grp {
		if elems[i].hasID {
			figureID, refType, source = elems[i].id, elems[i].idType, model.IDSourceExtracted
			break
		}
	}
	if figureID == "" {
		if id, typ, ok := g.ids.ExtractTypedID(combined); ok {
			figureID, refType, source = id, typ, model.IDSourceExtracted
		}
	}
	if refType == model.ReferenceUnknown {
		refType = g.ids.ReferenceTypeFor(groupType, combined)
	}
	if figureID == "" {
		figureID = identity.FallbackID(refType, pageIndex, elems[canonical].raw.BBox)
	}

	bbox := elems[grp[0]].raw.BBox
	confidence := elems[grp[0]].raw.Confidence
	members := make([]model.RawElement, 0, len(grp))
	for _, i := range grp {
		bbox = bbox.Union(elems[i].raw.BBox)
		if elems[i].raw.Confidence > confidence {
			confidence = elems[i].raw.Confidence
		}
		members = append(members, elems[i].raw)
	}

	return model.Figure{
		FigureID:      figureID,
		Type:          groupType,
		ReferenceType: refType,
		BBox:          bbox,
		PageIndex:     pageIndex,
		Text:          combined,
		Confidence:    confidence,
		Elements:      members,
		IDSource:      source,
	}, true
}
