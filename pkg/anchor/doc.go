// Package anchor resolves named points on a laid-out schematic.
//
// Every item exposes nine implicit anchors on its border box:
//
//	top-left     top-center     top-right
//	left         center         right
//	bottom-left  bottom-center  bottom-right
//
// addressed as "<item-id>.<position>". Standalone anchor nodes are addressed
// by their own ID and sit at their literal x/y relative to the content box of
// the container that holds them.
//
// Each anchor also carries a preferred exit axis used by the orthogonal
// router: left and right leave horizontally, top-center and bottom-center
// leave vertically, and standalone anchors declare theirs with "direction".
//
// [ValidateLinks] checks every link endpoint against the ID table before
// layout. [Resolve] runs after layout and never changes item geometry.
package anchor
