// Package fold derives the view graph from the master graph.
//
// The view graph is what layout and rendering operate on. It differs from the
// master graph ([dag.Graph]) in two ways:
//
//   - Filtering: master nodes and edges in the hidden set are left out, and so
//     is everything grouped under a hidden node.
//   - Folding: a collapsed group appears as a single folder node and its
//     descendants are left out. Master edges that cross the folded boundary
//     are merged into one folding edge per pair of visible endpoints, carrying
//     a [chain.FoldingConnection] with every contributing connection.
//
// # Identity
//
// Every view node has exactly one master node with the same [chain.ItemID].
// Plain view edges reuse the master edge id; folding edges are named
// "fold:<source>-><target>" after their visible endpoints. The mapping is
// rebuilt lazily whenever the master revision or the view generation changes;
// fold and filter mutations bump the generation.
//
// # Geometry
//
// Plain nodes and edges read and write the geometry of their master
// counterparts. Folders keep their own rectangle, and folding edges their own
// bends, so that a group's expanded bounds survive a collapse.
package fold
