// Package store keeps the master graph in sync with application data.
//
// A [Store] translates item and connection records into master nodes and
// edges of a [dag.Graph]. Every data update is applied incrementally: nodes
// and edges that survive the update keep their identity and geometry, new
// ones are added, and ones that disappeared are removed.
//
// # Records
//
// [Ingest] separates group items (items named as some other item's parent)
// from plain items. [Store.Sync] then upserts:
//
//   - one node per item id; the first record wins when ids repeat
//   - one edge per connection; connections with the same endpoints become
//     parallel edges matched by occurrence on the next sync
//   - connections naming an unknown item are dropped
//
// # Grouping
//
// Parent links form a forest. A link that would close a cycle is ignored and
// the item is placed at the root. A self-parent is treated as no parent.
//
// # Styles
//
// Edge styles and labels come from the configured providers and are
// recomputed on every sync, so they always reflect the current records.
package store
