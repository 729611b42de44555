package refs

import (
	"regexp"
	"sort"

	"github.com/tsawler/figref/model"
)

// dotted integer sequence: 1, 2.31, 3.4.1
const num = `\d+(?:\.\d+)*`

// refPattern pairs a compiled citation pattern with the reference type it
// implies. The first capture group is the leading numeric ID.
type refPattern struct {
	re  *regexp.Regexp
	typ model.ReferenceType

	// bareParen marks the bare "(N)" pattern, which needs a trailing-context
	// check in code: RE2 has no lookahead.
	bareParen bool
}

// Pattern order matters only when two matches share a start offset and
// length; resolution is otherwise positional (earliest start, then longest).
var citationPatterns = []refPattern{
	{re: regexp.MustCompile(`(?i)\bfigs?\.?\s*(` + num + `)(?:\s*(?:and|&|-|,)\s*` + num + `)*`), typ: model.ReferenceFigure},
	{re: regexp.MustCompile(`(?i)\bfigure\.?\s*(` + num + `)`), typ: model.ReferenceFigure},
	{re: regexp.MustCompile(`(?i)\btables?\.?\s*(` + num + `)(?:\s*(?:and|&|-|,)\s*` + num + `)*`), typ: model.ReferenceTable},
	{re: regexp.MustCompile(`(?i)\btab\.?\s*(` + num + `)`), typ: model.ReferenceTable},
	{re: regexp.MustCompile(`(?i)\beq(?:uation)?\.?\s*\((` + num + `)\)`), typ: model.ReferenceEquation},
	{re: regexp.MustCompile(`(?i)\bex(?:ample)?s?\.?\s*(` + num + `)`), typ: model.ReferenceExample},
	{re: regexp.MustCompile(`(?i)\balg(?:orithm)?s?\.?\s*(` + num + `)`), typ: model.ReferenceAlgorithm},
	{re: regexp.MustCompile(`\((` + num + `)\)`), typ: model.ReferenceEquation, bareParen: true},
}

// Match is one located citation within a text fragment. Offsets are byte
// offsets into the scanned text.
type Match struct {
	Start int
	End   int
	Text  string
	ID    string
	Type  model.ReferenceType
}

// FindAll returns all non-overlapping citation matches in text, ordered by
// start offset. When matches overlap, the earliest-starting, longest match
// wins and the rest are discarded, regardless of which pattern produced them.
func FindAll(text string) []Match {
	var all []Match
	for _, p := range citationPatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			if p.bareParen && !validParenContext(text, end) {
				continue
			}
			m := Match{Start: start, End: end, Text: text[start:end], Type: p.typ}
			if len(loc) > 3 && loc[2] >= 0 {
				m.ID = text[loc[2]:loc[3]]
			}
			all = append(all, m)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].End > all[j].End
	})

	var out []Match
	lastEnd := -1
	for _, m := range all {
		if m.Start < lastEnd {
			continue
		}
		out = append(out, m)
		lastEnd = m.End
	}
	return out
}

// validParenContext checks the byte following a bare "(N)" match. Only
// whitespace, a comma, a period, or end of text may follow; this keeps
// parenthesized page numbers and inline asides from matching.
func validParenContext(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	switch text[end] {
	case ' ', '\t', '\n', '\r', ',', '.':
		return true
	}
	return false
}

// FirstID returns the numeric ID and type of the earliest citation in text,
// or ok == false when text contains none.
func FirstID(text string) (id string, typ model.ReferenceType, ok bool) {
	for _, m := range FindAll(Normalize(text)) {
		if m.ID != "" {
			return m.ID, m.Type, true
		}
	}
	return "", model.ReferenceUnknown, false
}
