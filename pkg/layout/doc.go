// Package layout coordinates layout runs over the view graph.
//
// A layout run captures the view graph as an immutable [Request], hands it
// to an [Executor] (an in-process [Algorithm] or an out-of-process worker),
// and animates the resulting [graph.Layout] onto a [Target].
//
// # Constraints
//
// A [Request] carries the pass-through [Options] (direction, routing, layer
// distance, segment lengths, duration budget) and the per-run [Constraints]:
//
//   - incremental hints: nodes the algorithm should place into the existing
//     arrangement instead of re-deriving everything; groups get
//     [HintIncrementalGroup], other nodes [HintLayerIncrementally]
//   - a row/column partition [Grid] from a [chain.GridPositioner]
//   - a single fixed node whose upper-left corner must not move
//
// # Single Active Run
//
// The [Orchestrator] holds at most one active run. Starting a run first
// neutralizes the previous one: it snapshots the current geometry, cancels
// the previous run with [ErrSuperseded], waits for it to stop, and re-applies
// the snapshot. Two runs can therefore never interleave their geometry.
//
// While a run is active, the edges touching its incremental nodes are
// suppressed (drawn transparent). Suppression is reference counted per edge
// so overlapping runs always release what they took.
//
// # Outcomes
//
// Every run ends in one [Outcome]. A budget overrun ([ErrAborted]) and a
// supersession are expected outcomes and leave the previous geometry in
// place; only [OutcomeFailed] carries an error to the caller.
package layout
