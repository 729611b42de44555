// Package grouping consolidates fragmented layout detections into logical
// figures.
//
// Layout models typically emit a figure's image, its title, its caption, and
// a trailing equation number as separate detections. The grouper merges them
// into one [model.Figure] per logical entity while leaving standalone body
// text alone.
//
// Three independent strategies run over the same element list:
//
//   - ID-based: elements whose text yields the same extracted (type, ID)
//     pair are bucketed together; unlabeled elements join the bucket with
//     the highest mean affinity.
//   - Template-based: runs of spatially-related elements are matched against
//     known arrangements (title above figure above caption, caption above
//     table, formula beside number).
//   - Proximity-based: every core element attracts nearby compatible
//     metadata elements by a weighted affinity score.
//
// The strategies' outputs are merged by shared membership, and each merged
// group becomes exactly one Figure. Grouping is pure and deterministic;
// running it twice on the same element list yields the same figures.
package grouping
