// Package refs extracts typed in-text citations ("Fig. 2.1", "Table 5",
// "(3.4)") from positioned OCR text fragments.
//
// The extractor maintains an ordered table of compiled citation patterns
// covering figures, tables, equations, examples, and algorithms, including
// multi-unit forms like "Figs. 1 and 2". Matching is case-insensitive and
// positional: when two patterns overlap, the earliest-starting, longest
// match wins.
//
// Each match becomes a [model.Reference] carrying the reference type, the
// matched numeric ID, and a bounding box estimated by interpolating the
// match's character span across the source fragment's width. Extraction is
// best-effort and never returns an error.
package refs
