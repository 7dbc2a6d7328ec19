// Package schematic holds the diagram data model: the input [Spec] tree and
// the arena-backed [Schematic] that every resolution stage reads and writes.
//
// # Input
//
// A [Spec] is a plain tree of typed nodes (box, anchor, link, break and the
// four layouts vertical, horizontal, columns, rows) with struct tags for
// JSON, TOML and YAML. Parsers and decoders produce Specs; the resolver never
// assumes a source syntax.
//
// # Arena
//
// [Build] validates a Spec and copies it into a [Schematic], an arena of
// [Node] values addressed by [Handle]. Children are ordered handle lists and
// the global ID table maps IDs to handles. Cross-tree references (link
// endpoints) go through the ID table, never through pointers, so the tree has
// no ownership cycles and is cheap to [Schematic.Clone].
//
// Validation is complete before any geometry is computed: a duplicate ID
// fails with DUPLICATE_ID and a node that contains itself fails with
// CYCLIC_STRUCTURE (see pkg/errors).
//
// # Traversal
//
// [Schematic.Walk] visits nodes in pre-order and passes each node's parent.
// [Schematic.Items], [Schematic.Links] and [Schematic.Containers] return
// handles in the same order, which every downstream stage relies on for
// deterministic output.
package schematic
