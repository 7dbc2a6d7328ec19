// Package pkg provides the core libraries for boxarrow diagram resolution.
//
// # Overview
//
// Boxarrow turns a tree of nested boxes, layouts, anchors and links into
// exact geometry: a border rectangle for every box, a coordinate for every
// anchor and a polyline for every link. The pkg directory is organized into
// three areas:
//
//  1. Geometry core ([geom], [schematic], [layout], [anchor], [route], [optimize])
//  2. Orchestration and I/O ([pipeline], [io], [render], [render/sink])
//  3. Infrastructure ([cache], [config], [observability], [errors], [buildinfo])
//
// # Architecture
//
// The data flow through boxarrow:
//
//	JSON / TOML / YAML input tree
//	         ↓
//	    [io] package (decode into schematic.Spec)
//	         ↓
//	    [schematic] package (arena tree, ID registry, validation)
//	         ↓
//	    [layout] → [anchor] → [route] (inside [optimize] when enabled)
//	         ↓
//	    [render] Output contract
//	         ↓
//	    [render/sink] SVG / JSON / DOT / Graphviz / PNG / PDF
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/boxarrow/pkg/io"
//	    "github.com/matzehuels/boxarrow/pkg/pipeline"
//	)
//
//	spec, _ := io.Import("diagram.toml")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	exec, _ := runner.Execute(context.Background(), spec, pipeline.DefaultOptions())
//	svg := exec.Artifacts["svg"]
//
// # Main Packages
//
// [schematic] - Input tree ([schematic.Spec]) and the resolved arena
// ([schematic.Schematic]) addressed by handles. Build rejects duplicate IDs
// and cycles before any geometry exists.
//
// [layout] - Two-pass layout: measure bottom-up, place top-down. Vertical,
// horizontal, columns and rows arrangements with align, justify, gap,
// explicit breaks and automatic wrapping.
//
// [anchor] - The nine implicit anchors of every box and standalone anchors,
// addressed as "<id>.<position>" or "<id>".
//
// [route] - Straight and obstacle-avoiding orthogonal paths. Unroutable
// links fall back to straight with a ROUTING_UNREACHABLE warning.
//
// [optimize] - Local search over child order, alignment, justification and
// wrap that accepts only strict improvements of the defect score.
//
// [pipeline] - The Runner that ties the stages together with caching and
// observability hooks; used by both the CLI and the HTTP server.
//
// [cache] - Byte caches (null, file, Redis, MongoDB) keyed by content
// hashes of the input and the options that affect the result.
package pkg
