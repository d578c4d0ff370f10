// Package graph provides the serialization types for layout requests and
// results.
//
// This package defines the wire format exchanged with layout algorithms and
// out-of-process layout workers, used for JSON messages, caching, and the
// CLI's positioned output.
//
// # Core Types
//
//   - [Graph]: the immutable description of a view graph: nodes with their
//     grouping parent and current bounds, and edges with their bends
//   - [Layout]: computed geometry keyed by node and edge id
//
// A [Graph] is captured from a [fold.View] with [FromView] and never refers
// back to it, so it can cross goroutine and process boundaries safely. The
// resulting [Layout] is written back with [Apply].
//
// # Serialization
//
//	{
//	  "nodes": [{"id": "10", "group": true, "bounds": {"x": 0, "y": 0, "width": 300, "height": 200}},
//	            {"id": "1", "parent": "10", "bounds": {...}}],
//	  "edges": [{"id": "e1", "source": "1", "target": "2"}]
//	}
//
// Common operations:
//
//	g := graph.FromView(view)            // View → Graph
//	data, _ := graph.MarshalGraph(g)     // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)
//	graph.Apply(view, layout)            // Layout → View geometry
//
// # Animation
//
// [Interpolate] blends two layouts, which is how layout results are animated
// from the previous geometry to the new one.
package graph
