// Package io reads input trees and reads and writes resolved output.
//
// # Input Trees
//
// An input tree is a nested [schematic.Spec], usually produced by an
// external parser. It can be written as JSON, TOML or YAML; the field names
// are the same in all three:
//
//	{
//	  "type": "horizontal",
//	  "align": "center",
//	  "children": [
//	    {"type": "box", "id": "a", "width": 40, "height": 20},
//	    {"type": "box", "id": "b", "width": 40, "height": 20},
//	    {"type": "link", "from": "a.right", "to": "b.left", "style": "orthogonal"}
//	  ]
//	}
//
// padding and margin accept a single number, a [v, h] pair, a
// [top, right, bottom, left] quadruple or a {top, right, bottom, left}
// object.
//
// Decoding is strict: unknown fields are rejected with INVALID_FORMAT so
// that a misspelled attribute does not silently fall back to a default.
// Structural validation (IDs, nesting, references) happens later in
// [schematic.Build] and [anchor.ValidateLinks].
//
// Use [Import] to read a file, choosing the codec by extension, or one of
// [ReadJSON], [ReadTOML] and [ReadYAML] for any io.Reader.
//
// # Output
//
// [WriteOutput] and [ReadOutput] encode a [render.Output] as indented JSON.
// The encoding is deterministic, so identical resolutions produce identical
// files.
//
// [schematic.Spec]: github.com/matzehuels/boxarrow/pkg/schematic.Spec
// [schematic.Build]: github.com/matzehuels/boxarrow/pkg/schematic.Build
// [anchor.ValidateLinks]: github.com/matzehuels/boxarrow/pkg/anchor.ValidateLinks
// [render.Output]: github.com/matzehuels/boxarrow/pkg/render.Output
package io
