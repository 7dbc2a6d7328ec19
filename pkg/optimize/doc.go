// Package optimize improves a resolved schematic by local search over its
// layout configuration.
//
// # Defect Score
//
// [Score] rates a laid-out and routed schematic as a weighted sum of four
// terms:
//
//   - overlap: area shared by items that do not contain one another
//   - crossings: link segments passing through an item unrelated to the link
//   - bends: direction changes along orthogonal links
//   - slack: area added to items by a stretching parent
//
// A score of zero means there is nothing to improve.
//
// # Search
//
// [Run] perturbs only configuration: the order of children within a
// container, Align, Justify and the Wrap threshold of columns and rows. It
// never changes sizes, membership or links. Every candidate of a round is
// evaluated on a clone of the schematic ([Evaluate] reruns layout, anchor
// resolution and routing), so rejected candidates leave the live schematic
// untouched. Candidate evaluation runs in parallel; rounds do not.
//
// Results are deterministic: candidates are generated in tree order and
// ties are broken by edit distance, then by generation order, independently
// of how evaluation is scheduled.
package optimize
