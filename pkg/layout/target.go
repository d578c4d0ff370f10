package layout

import (
	"context"
	"time"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/graph"
)

// Target is the live diagram a run writes to. Every method must be safe
// to call from the run's goroutine, and Apply must be atomic with respect
// to readers of the diagram.
type Target interface {
	// Describe captures the current view graph.
	Describe() graph.Graph

	// Item returns the record behind a view node, or nil.
	Item(id string) *chain.Item

	// Snapshot captures the current geometry.
	Snapshot() graph.Layout

	// Apply writes geometry. Unknown ids are ignored.
	Apply(l graph.Layout)

	// EdgesAt returns the ids of the view edges touching the given nodes.
	EdgesAt(nodes []string) []string

	// SetEdgeSuppressed toggles transparent drawing of an edge and its label.
	SetEdgeSuppressed(id string, suppressed bool)
}

// Animator moves a target from one layout to another.
type Animator interface {
	// Animate applies intermediate frames and finally to. It returns the
	// context's cause if ctx is done before the last frame.
	Animate(ctx context.Context, t Target, from, to graph.Layout, d time.Duration) error
}

// ImmediateAnimator applies the final layout without intermediate frames.
type ImmediateAnimator struct{}

func (ImmediateAnimator) Animate(ctx context.Context, t Target, _, to graph.Layout, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return context.Cause(ctx)
	}
	t.Apply(to)
	return nil
}

// DefaultFrameInterval is about 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameAnimator interpolates between layouts on a ticker.
type FrameAnimator struct {
	// Interval between frames. Zero selects DefaultFrameInterval.
	Interval time.Duration
}

func (a FrameAnimator) Animate(ctx context.Context, t Target, from, to graph.Layout, d time.Duration) error {
	if d <= 0 {
		return ImmediateAnimator{}.Animate(ctx, t, from, to, d)
	}
	interval := a.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case now := <-ticker.C:
			if ctx.Err() != nil {
				return context.Cause(ctx)
			}
			p := float64(now.Sub(start)) / float64(d)
			if p >= 1 {
				t.Apply(to)
				return nil
			}
			t.Apply(graph.Interpolate(from, to, ease(p)))
		}
	}
}

// ease is a cubic ease-in-out curve.
func ease(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q/2
}
