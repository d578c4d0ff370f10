// Package pkg provides the libraries behind the supplychain diagram engine.
//
// # Overview
//
// supplychain turns flat item and connection records into an interactive
// supply-chain diagram: items nest into groups, groups fold into single
// folder nodes, and every change to the visible graph is laid out
// incrementally so untouched items keep their positions.
//
// The data flow:
//
//	Source (file, MongoDB, Neo4j)
//	         ↓
//	    [chain] records → [diff] → [store] sync into the master [dag]
//	         ↓
//	    [fold] view (collapse, genealogy filter) + [highlight]
//	         ↓
//	    [layout] orchestrator (local, worker, or cached executor)
//	         ↓
//	    [render] scene → SVG/PNG/PDF/JSON
//
// # Quick Start
//
//	data, _, err := scio.Import("network.json")
//	if err != nil { ... }
//	m, err := supplychain.New(supplychain.Options{})
//	if err != nil { ... }
//	if err := m.SetData(ctx, data); err != nil { ... }
//	m.Collapse(ctx, "metals")
//	svg, err := m.ExportSVG(ctx)
//
// # Main Packages
//
// ## Domain
//
// [chain] - Item and connection records, references, and the provider hooks
// that derive styles, labels and heat from application data.
//
// [dag] - The master graph: nodes, a grouping forest, and parallel edges
// with stable IDs.
//
// [store], [diff] - Synchronization of record sets into the master graph.
//
// [fold], [highlight], [search] - Visible-graph derivation, genealogy, and
// needle matching.
//
// [supplychain] - The [supplychain.Model] facade composing all of the above.
//
// ## Layout
//
// [layout] - Run orchestration, supersession, suppression and write-back.
// [layout/layered] is the built-in compound layered algorithm;
// [layout/dot] delegates to Graphviz.
//
// [worker] - The out-of-process layout protocol over pipes or Redis.
//
// ## Output
//
// [render] - Scene construction, the SVG writer, the heat overlay, and
// PNG/PDF conversion. [graph] holds the JSON scene and layout documents.
//
// ## Infrastructure
//
// [pipeline] - Load, build and render used by the CLI and the worker.
//
// [source] - Data sources: JSON/YAML files, MongoDB collections, Neo4j.
//
// [cache] - Layout and export caches (null, file, Badger, Redis).
//
// [config], [errors], [observability], [httputil], [io] - Configuration,
// error codes, metrics and tracing hooks, image fetching, and file import
// and export.
//
// # Testing
//
//	go test ./...
//	go test -run Example ./pkg/...
//
// [chain]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/chain
// [dag]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/dag
// [store]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/store
// [diff]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/diff
// [fold]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/fold
// [highlight]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/highlight
// [search]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/search
// [supplychain]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/supplychain
// [supplychain.Model]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/supplychain#Model
// [layout]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/layout
// [layout/layered]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/layout/layered
// [layout/dot]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/layout/dot
// [worker]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/worker
// [render]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/render
// [graph]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/pipeline
// [source]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/httputil
// [io]: https://pkg.go.dev/github.com/matzehuels/supplychain/pkg/io
package pkg
