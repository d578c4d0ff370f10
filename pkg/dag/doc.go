// Package dag provides the master graph: the authoritative, unfiltered and
// unfolded node/edge set built from supply chain records.
//
// # Overview
//
// Every item becomes exactly one [Node], keyed by its item id. Every
// connection becomes one [Edge]. Parallel connections between the same
// pair of items are kept as parallel edges; [Graph.EdgeBetween] returns the
// first one. Nodes are additionally organized into a grouping forest via
// [Graph.SetParent], which rejects self-parenting and cycles.
//
// Despite the package name, the connection edges are not required to be
// acyclic: supply chains may contain loops, and the layout algorithms break
// them on their own copy of the graph. The acyclic structure enforced here is
// the grouping forest.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "10", Group: true})
//	g.AddNode(dag.Node{ID: "1"})
//	g.SetParent("1", "10")
//	g.AddEdge(dag.Edge{Source: "1", Target: "10"})
//
// # Lookups
//
// Node and edge lookups by id, and edge lookups by (source, target), are
// O(1) through maintained indexes.
//
// # Revisions
//
// Structural mutations (adding or removing nodes and edges, re-parenting)
// advance [Graph.Revision]. Derived structures such as the folded view graph
// compare revisions to decide whether they must be rebuilt. Geometry changes
// do not advance the revision; call [Graph.Touch] after changing tags or
// styles in place.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. The owning model
// serializes access.
package dag
