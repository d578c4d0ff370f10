package layout

import (
	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/graph"
)

// Hint marks a node for incremental placement.
type Hint string

const (
	HintLayerIncrementally Hint = "layer-incrementally"
	HintIncrementalGroup   Hint = "incremental-group"
)

// Grid partitions nodes into rows and columns. Rows and Columns are one
// more than the largest index in use.
type Grid struct {
	Rows    int                       `json:"rows"`
	Columns int                       `json:"columns"`
	Cells   map[string]chain.GridCell `json:"cells"`
}

// Constraints are the per-run layout constraints.
type Constraints struct {
	Incremental bool            `json:"incremental,omitempty"`
	Hints       map[string]Hint `json:"hints,omitempty"`
	Grid        *Grid           `json:"grid,omitempty"`

	// Fixed names the node whose upper-left corner must not move.
	Fixed string `json:"fixed,omitempty"`
}

// Request is the immutable input of a layout run.
type Request struct {
	Graph       graph.Graph `json:"graph"`
	Options     Options     `json:"options"`
	Constraints Constraints `json:"constraints"`
}

// Hash returns a content hash of the request.
func (r Request) Hash() string {
	h, _ := cache.HashJSON(r)
	return h
}

// Run describes one layout invocation.
type Run struct {
	// Incremental keeps the current arrangement and only places Nodes.
	Incremental bool

	// Nodes are the incrementally placed nodes. Their edges are suppressed
	// while the run is active.
	Nodes []string

	// Fixed names a node that must stay in place, or "".
	Fixed string

	// Fit asks for a viewport fit after the run.
	Fit bool

	// Options overrides the orchestrator options when non-nil.
	Options *Options
}

// NewRequest builds the request for a run over g. items resolves node ids
// for grid positioning; grid may be nil.
func NewRequest(g graph.Graph, opts Options, run Run, items func(id string) *chain.Item, grid chain.GridPositioner) Request {
	req := Request{Graph: g, Options: opts}
	idx := g.NodeIndex()

	if run.Incremental {
		req.Constraints.Incremental = true
		for _, id := range run.Nodes {
			i, ok := idx[id]
			if !ok {
				continue
			}
			if req.Constraints.Hints == nil {
				req.Constraints.Hints = make(map[string]Hint)
			}
			if g.Nodes[i].Group {
				req.Constraints.Hints[id] = HintIncrementalGroup
			} else {
				req.Constraints.Hints[id] = HintLayerIncrementally
			}
		}
	}

	if grid != nil && items != nil {
		gr := &Grid{Cells: make(map[string]chain.GridCell, len(g.Nodes))}
		for _, n := range g.Nodes {
			it := items(n.ID)
			if it == nil {
				continue
			}
			cell := grid.GridPosition(it)
			gr.Cells[n.ID] = cell
			gr.Rows = max(gr.Rows, cell.Row+1)
			gr.Columns = max(gr.Columns, cell.Column+1)
		}
		req.Constraints.Grid = gr
	}

	if _, ok := idx[run.Fixed]; ok && run.Fixed != "" {
		req.Constraints.Fixed = run.Fixed
	}
	return req
}
