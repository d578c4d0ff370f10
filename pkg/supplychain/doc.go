// Package supplychain is the public facade of the engine.
//
// A [Model] owns one diagram: the graph store built from application data,
// the folded and filtered view, the highlight, the viewport, and the layout
// orchestrator. Every exported operation composes those parts:
//
//	m, err := supplychain.New(supplychain.Options{})
//	if err != nil { ... }
//	if err := m.SetData(ctx, data); err != nil { ... }
//	m.Collapse(ctx, "metals")
//	m.Highlight("copper")
//	svg, err := m.ExportSVG(ctx)
//
// # Data Updates
//
// The first [Model.SetData] runs a full layout and fits the viewport, or
// applies [Options.ShowLevel] when set. Later calls diff the new data
// against the previous records, sync the store, and run an incremental
// layout seeded with the changed items, but only when something changed.
//
// # Layout Runs
//
// Folding operations run incremental layouts that keep the folded or
// unfolded group in place. [Model.ShowLevel], [Model.ShowAll] and the
// genealogy filters run full layouts and refit the viewport. Starting a run
// supersedes the previous one; a superseded or aborted run leaves the last
// committed geometry in place and is not reported as an error.
//
// # Concurrency
//
// Model methods are safe for concurrent use. Bookkeeping happens under the
// model lock; layout runs execute without it and write geometry back through
// the orchestrator's target, so queries stay responsive during a run.
package supplychain
