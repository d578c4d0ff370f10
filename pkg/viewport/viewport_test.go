package viewport

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/matzehuels/supplychain/pkg/geom"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestZoomClamp(t *testing.T) {
	v := New(geom.Size{Width: 800, Height: 600})
	tests := []struct {
		set, want float64
	}{
		{2, 2},
		{10, MaxZoom},
		{-1, MinZoom},
		{math.NaN(), 1},
	}
	for _, tt := range tests {
		v.SetZoom(tt.set)
		if got := v.Zoom(); got != tt.want {
			t.Errorf("SetZoom(%v): Zoom() = %v, want %v", tt.set, got, tt.want)
		}
	}
}

func TestZoomInOut(t *testing.T) {
	v := New(geom.Size{Width: 800, Height: 600})
	v.ZoomIn()
	if got := v.Zoom(); !near(got, 1.2) {
		t.Errorf("ZoomIn(): Zoom() = %v, want 1.2", got)
	}
	v.ZoomOut()
	v.ZoomOut()
	if got := v.Zoom(); !near(got, 1/1.2) {
		t.Errorf("ZoomOut(): Zoom() = %v, want %v", got, 1/1.2)
	}
	v.ZoomToOriginal()
	if got := v.Zoom(); got != 1 {
		t.Errorf("ZoomToOriginal(): Zoom() = %v, want 1", got)
	}
}

func TestFitState(t *testing.T) {
	v := New(geom.Size{Width: 1200, Height: 700})
	s := v.FitState(geom.Rect{X: 0, Y: 0, Width: 2000, Height: 500}, DefaultFitInsets)
	if !near(s.Zoom, 0.5) {
		t.Errorf("Zoom = %v, want 0.5 (width bound)", s.Zoom)
	}
	if s.Center != (geom.Point{X: 1000, Y: 250}) {
		t.Errorf("Center = %v, want (1000, 250)", s.Center)
	}

	tiny := v.FitState(geom.Rect{Width: 1, Height: 1}, 0)
	if tiny.Zoom != MaxZoom {
		t.Errorf("Zoom = %v, want capped at %v", tiny.Zoom, MaxZoom)
	}
}

func TestZoomToNeverDecreases(t *testing.T) {
	v := New(geom.Size{Width: 800, Height: 600})
	tests := []struct {
		name    string
		current float64
		target  geom.Rect
		want    float64
	}{
		{"zooms in on small item", 1, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}, 600.0 / 500},
		{"keeps zoom for large item", 1, geom.Rect{X: 0, Y: 0, Width: 4000, Height: 4000}, 1},
		{"keeps high zoom", 3, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.SetZoom(tt.current)
			s := v.ZoomToState(tt.target)
			if !near(s.Zoom, tt.want) {
				t.Errorf("ZoomToState() zoom = %v, want %v", s.Zoom, tt.want)
			}
			if s.Zoom < tt.current {
				t.Errorf("ZoomToState() decreased zoom from %v to %v", tt.current, s.Zoom)
			}
		})
	}
}

func TestLimiter(t *testing.T) {
	v := New(geom.Size{Width: 100, Height: 100})
	v.SetContent(geom.Rect{X: 0, Y: 0, Width: 1000, Height: 1000})

	// Far to the right: the viewport may extend at most 80% past the content.
	v.SetState(State{Zoom: 1, Center: geom.Point{X: 5000, Y: 500}})
	vis := v.Visible()
	if want := 1000 + 80 - 100.0; !near(vis.X, want) {
		t.Errorf("Visible().X = %v, want %v", vis.X, want)
	}

	// Inside the content nothing changes.
	v.SetState(State{Zoom: 1, Center: geom.Point{X: 300, Y: 300}})
	if c := v.State().Center; c != (geom.Point{X: 300, Y: 300}) {
		t.Errorf("Center = %v, want unchanged", c)
	}
}

func TestOnChange(t *testing.T) {
	v := New(geom.Size{Width: 100, Height: 100})
	var calls int
	v.OnChange(func(State) { calls++ })
	v.SetZoom(2)
	v.SetZoom(2)
	if calls != 1 {
		t.Errorf("OnChange calls = %d, want 1", calls)
	}
}

func TestAnimate(t *testing.T) {
	v := New(geom.Size{Width: 100, Height: 100})
	target := State{Zoom: 2, Center: geom.Point{X: 10, Y: 20}}
	if err := v.Animate(context.Background(), target, 30*time.Millisecond); err != nil {
		t.Fatalf("Animate() error = %v", err)
	}
	if got := v.State(); !near(got.Zoom, 2) || got.Center != target.Center {
		t.Errorf("State() = %+v, want %+v", got, target)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := v.Animate(ctx, State{Zoom: 1}, time.Second); err == nil {
		t.Error("Animate() error = nil, want cancellation")
	}
}
