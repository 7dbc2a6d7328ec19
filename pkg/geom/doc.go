// Package geom provides the geometric primitives shared by every stage of
// schematic resolution.
//
// # Coordinate System
//
// All coordinates are float64 user units (pixels in SVG output). The origin is
// the top-left corner of the schematic, X grows to the right and Y grows
// downward, matching SVG conventions.
//
// # Box Model
//
// An item occupies three nested rectangles:
//
//	outer   = border.Outset(margin)   reserved by the item's container
//	border  = the visible box          used for anchors and rendering
//	content = border.Inset(padding)    coordinate space of the item's children
//
// [Rect.Inset] and [Rect.Outset] convert between them given an [Edges] value.
//
// # Segments
//
// Routed links are sequences of [Point] values. [SegmentCrossesInterior]
// reports whether a segment passes through the open interior of a rectangle;
// touching or running along the boundary does not count. This is the
// admissibility test used by the router and the crossing count used by the
// optimizer.
package geom
