// Package model provides the shared data model for figure grouping and
// reference resolution.
//
// This package defines the entity types that every other component consumes
// and produces, making them the primary API for working with analysis
// results.
//
// # Geometry
//
// [BoundingBox] is an integer-pixel, top-left-origin rectangle with the
// overlap, distance, and alignment predicates the grouping heuristics rely
// on. Construction clamps negative dimensions, so malformed detections
// degrade to empty boxes instead of propagating negative areas.
//
// # Entities
//
//   - [RawElement] - one detection from the external layout model
//   - [TextBlock] - one positioned OCR text fragment
//   - [Figure] - a consolidated logical figure with a stable identifier
//   - [Reference] - an in-text citation, annotated by mapping with the
//     figure it resolves to (or NotMatched)
//
// [ReferenceType] is the semantic category (figure, table, equation,
// example, algorithm) that gates which figures a reference may match.
// All entity types serialize to the JSON shapes the host service returns.
package model
