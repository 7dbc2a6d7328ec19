// Package layout computes the size and absolute position of every box and
// layout container in a schematic.
//
// # Algorithm
//
// Layout is two passes over the arena:
//
//  1. Measure (bottom-up): each container's content size is derived from
//     its measured children. Vertical and horizontal flows form one line:
//     the main-axis size is the sum of children's outer sizes plus gaps and
//     the cross-axis size is the largest child. Columns and rows split their
//     children into groups at breaks and automatic wraps; each group is
//     sized as a line, the container's main size is the largest group and
//     its cross size is the sum of groups plus gaps. The border size is the
//     larger of the explicit size and content plus padding.
//
//  2. Place (top-down): given the outer rectangle allocated by the parent,
//     children are laid end to end along the main axis and positioned on
//     the cross axis by align. Groups are positioned by justify.
//
// # Box Model
//
// Every container has an outer rectangle (what the parent allocates), a
// border box (outer minus margin) and a content box (border minus padding).
// Node.Intrinsic keeps the measured border size so that later stages can
// tell how much a stretched child grew.
//
// # Concurrency
//
// Sibling subtrees have no data dependency during the measure pass. With
// [Engine.Workers] above one, the root's children are measured in parallel
// and the root is sized once all of them are done.
package layout
