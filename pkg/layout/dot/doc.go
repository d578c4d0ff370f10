// Package dot implements a layout algorithm backed by Graphviz.
//
// # Overview
//
// The algorithm converts a [layout.Request] to DOT source, lets the
// in-process Graphviz engine (github.com/goccy/go-graphviz) lay it out,
// and reads node positions and edge splines back from the "plain" output
// format. Expanded groups become clusters; their bounds are recomputed from
// the children and padded by the group insets.
//
// # Usage
//
//	alg := dot.New()
//	l, err := layout.Compute(ctx, alg, req)
//
// [ToDOT] is exported so the generated source can be inspected or processed
// with external Graphviz tools.
//
// # Limitations
//
// Graphviz has no notion of incremental placement or grid partitions, so
// hints and grid constraints are ignored. Octilinear routing falls back to
// polylines.
package dot
