package layered

import (
	"context"

	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/graph"
	"github.com/matzehuels/supplychain/pkg/layout"
)

// Name is the algorithm name used in cache keys and metrics.
const Name = "layered"

// DefaultIterations is the number of barycenter sweeps per level.
const DefaultIterations = 12

// Algorithm is the layered layout algorithm. The zero value is ready to use.
type Algorithm struct {
	// Iterations is the number of ordering sweeps. Zero selects
	// DefaultIterations.
	Iterations int
}

// New returns the algorithm with default settings.
func New() *Algorithm { return &Algorithm{} }

func (a *Algorithm) Name() string { return Name }

// Layout computes geometry for req.
func (a *Algorithm) Layout(ctx context.Context, req layout.Request) (graph.Layout, error) {
	iterations := a.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	opts := req.Options.WithDefaults()
	c := newCompound(req, opts, iterations)
	if _, err := c.layoutLevel(ctx, ""); err != nil {
		return graph.Layout{}, err
	}
	c.place("", geom.Point{})
	out := c.result()

	if req.Constraints.Incremental {
		if prev, ok := req.Graph.Layout().Bounds(); ok {
			if b, ok := out.Bounds(); ok {
				out = out.Translate(prev.X-b.X, prev.Y-b.Y)
			}
		}
	}
	return out, nil
}

var _ layout.Algorithm = (*Algorithm)(nil)
