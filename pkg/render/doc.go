// Package render defines the resolved-output contract handed to renderers
// and the format conversions shared by them.
//
// # Output
//
// [Output] is everything a renderer needs to draw a resolved schematic and
// nothing more: the absolute border box of every item, the absolute
// coordinate of every addressable anchor and the point sequence of every
// link. Identical input trees resolved with identical configuration always
// produce identical Output values, so the JSON encoding doubles as a cache
// entry and as a stable interchange format.
//
// Items and links appear in tree pre-order; anchors are sorted by name.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The sinks in [sink] produce
// the SVG.
//
//	svg := sink.RenderSVG(out)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/boxarrow/pkg/render/sink
package render
