// Package route computes link paths over a laid-out schematic.
//
// Straight links are the direct segment between their anchors. Orthogonal
// links are routed on a visibility grid built from obstacle edges, the two
// endpoints and an outer frame, using Dijkstra's algorithm over (node,
// arrival axis) states so that the cost can charge bends as well as length.
// Moves are tried in a fixed order and equal-cost states are expanded in
// discovery order, so routing is reproducible.
//
// Obstacles are the margin-expanded rectangles of all items except those
// that contain an endpoint. An orthogonal link that has no admissible path
// falls back to a straight segment and reports ROUTING_UNREACHABLE as a
// warning rather than failing the schematic.
//
// Routing reads geometry and never writes it; [Router.Route] routes links in
// parallel and returns them in tree order.
package route
