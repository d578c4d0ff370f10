// Package layered implements the built-in hierarchical layout algorithm.
//
// The algorithm follows the Sugiyama framework, applied recursively to
// nested groups:
//
//  1. Each expanded group is laid out on its own and becomes a single box,
//     padded by the group insets, at its parent's level. Connections that
//     cross a group boundary are lifted to the level of their lowest common
//     group.
//  2. Back edges found by a depth-first search are reversed so every level
//     is acyclic.
//  3. Nodes are assigned to layers by longest path. Grid columns act as
//     lower bounds: no node of column c lies in a layer before column c-1
//     ends.
//  4. Long edges are split by dummy nodes, and each layer is ordered by
//     barycenter sweeps. The ordering with the fewest crossings (counted
//     with a Fenwick tree) wins. Grid rows keep their relative order.
//  5. Coordinates are assigned layer by layer with iterative neighbor
//     balancing, and edges are routed through the dummy positions in the
//     requested style.
//
// Everything is computed for a top-to-bottom flow and mapped to the
// requested direction at the end.
//
// # Incremental Mode
//
// In incremental mode nodes without a hint keep the relative order implied
// by their current positions; hinted nodes, and everything inside a group
// hinted with [layout.HintIncrementalGroup], are inserted by barycenter.
// The result is anchored at the previous content origin.
package layered
