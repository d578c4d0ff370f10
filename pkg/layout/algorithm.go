package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/supplychain/pkg/graph"
)

var (
	// ErrAborted is returned when a run exceeds its maximum duration.
	ErrAborted = errors.New("layout aborted: maximum duration exceeded")

	// ErrSuperseded is the cancellation cause of a run replaced by a newer one.
	ErrSuperseded = errors.New("layout superseded")
)

// Algorithm computes geometry for a request. Implementations must honor
// ctx and must not retain the request.
type Algorithm interface {
	Name() string
	Layout(ctx context.Context, req Request) (graph.Layout, error)
}

// Compute runs alg under the request's duration budget and pins the fixed
// node. A budget overrun returns [ErrAborted].
func Compute(ctx context.Context, alg Algorithm, req Request) (graph.Layout, error) {
	if d := req.Options.MaximumDuration; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, d, ErrAborted)
		defer cancel()
	}
	l, err := alg.Layout(ctx, req)
	if err != nil {
		if errors.Is(context.Cause(ctx), ErrAborted) {
			return graph.Layout{}, ErrAborted
		}
		return graph.Layout{}, fmt.Errorf("%s: %w", alg.Name(), err)
	}
	if errors.Is(context.Cause(ctx), ErrAborted) {
		return graph.Layout{}, ErrAborted
	}
	return pin(l, req), nil
}

// pin translates l so that the fixed node keeps its upper-left corner.
func pin(l graph.Layout, req Request) graph.Layout {
	id := req.Constraints.Fixed
	if id == "" {
		return l
	}
	i, ok := req.Graph.NodeIndex()[id]
	if !ok {
		return l
	}
	got, ok := l.Nodes[id]
	if !ok {
		return l
	}
	want := req.Graph.Nodes[i].Bounds
	return l.Translate(want.X-got.X, want.Y-got.Y)
}
