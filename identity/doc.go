// Package identity assigns stable identifiers to layout detections.
//
// Given one detection, the generator first searches the element's own text
// for a typed ID pattern (the caption "Figure 2.31: ..." yields ID "2.31"
// and type figure). When no pattern matches, the reference type is derived
// from the layout class via a fixed lookup, and a deterministic fallback ID
// is synthesized from the element's page and vertical position.
package identity
