// Package viewport tracks the visible region of the diagram: zoom, center,
// and the content rectangle that limits panning.
//
// World coordinates are layout coordinates. A viewport of pixel size S at
// zoom Z centered on C shows the world rectangle centered on C with size
// S/Z. Every mutation is clamped to [MinZoom, MaxZoom] and passed through
// the content-rect limiter, which keeps at least a fifth of the viewport
// covered by content.
package viewport

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/matzehuels/supplychain/pkg/geom"
)

// Viewport defaults.
const (
	MinZoom            = 0.0
	MaxZoom            = 4.0
	ZoomFactor         = 1.2
	DefaultFitInsets   = 100.0
	ZoomToEnlargement  = 200.0
	LimiterPadding     = 0.8
	DefaultFrameRate   = 60
	minimumUsableZoom  = 1e-3
	defaultViewportDim = 1000.0
)

// State is a zoom level and the world point at the viewport center.
type State struct {
	Zoom   float64    `json:"zoom"`
	Center geom.Point `json:"center"`
}

// Viewport is safe for concurrent use.
type Viewport struct {
	mu         sync.Mutex
	size       geom.Size
	state      State
	content    geom.Rect
	hasContent bool
	onChange   func(State)
}

// New returns a viewport of the given pixel size at zoom 1 centered on the
// origin. A zero size selects 1000x1000.
func New(size geom.Size) *Viewport {
	if size.Width <= 0 || size.Height <= 0 {
		size = geom.Size{Width: defaultViewportDim, Height: defaultViewportDim}
	}
	return &Viewport{size: size, state: State{Zoom: 1}}
}

// OnChange registers a callback invoked after every state change. The
// callback runs without the viewport lock held.
func (v *Viewport) OnChange(fn func(State)) {
	v.mu.Lock()
	v.onChange = fn
	v.mu.Unlock()
}

// Size returns the viewport size in pixels.
func (v *Viewport) Size() geom.Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.size
}

// SetSize resizes the viewport.
func (v *Viewport) SetSize(s geom.Size) {
	if s.Width <= 0 || s.Height <= 0 {
		return
	}
	v.update(func() State {
		v.size = s
		return v.state
	})
}

// State returns the current zoom and center.
func (v *Viewport) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Zoom returns the current zoom level.
func (v *Viewport) Zoom() float64 { return v.State().Zoom }

// Visible returns the world rectangle currently shown.
func (v *Viewport) Visible() geom.Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible(v.state)
}

func (v *Viewport) visible(s State) geom.Rect {
	z := max(s.Zoom, minimumUsableZoom)
	return geom.RectCentered(s.Center, geom.Size{Width: v.size.Width / z, Height: v.size.Height / z})
}

// Content returns the limiter bounds and whether any are set.
func (v *Viewport) Content() (geom.Rect, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.content, v.hasContent
}

// SetContent updates the content rectangle used by the limiter.
func (v *Viewport) SetContent(r geom.Rect) {
	v.update(func() State {
		v.content, v.hasContent = r, true
		return v.state
	})
}

// SetState moves the viewport, subject to zoom clamping and the limiter.
func (v *Viewport) SetState(s State) {
	v.update(func() State { return s })
}

// SetZoom changes the zoom around the current center.
func (v *Viewport) SetZoom(z float64) {
	v.update(func() State { return State{Zoom: z, Center: v.state.Center} })
}

// ZoomIn increases the zoom by ZoomFactor.
func (v *Viewport) ZoomIn() {
	v.update(func() State { return State{Zoom: v.state.Zoom * ZoomFactor, Center: v.state.Center} })
}

// ZoomOut decreases the zoom by ZoomFactor.
func (v *Viewport) ZoomOut() {
	v.update(func() State { return State{Zoom: v.state.Zoom / ZoomFactor, Center: v.state.Center} })
}

// ZoomToOriginal resets the zoom to 1.
func (v *Viewport) ZoomToOriginal() { v.SetZoom(1) }

// FitState returns the state that shows r padded by insets on every side.
func (v *Viewport) FitState(r geom.Rect, insets float64) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	w := v.size.Width - 2*insets
	h := v.size.Height - 2*insets
	z := MaxZoom
	if r.Width > 0 && w > 0 {
		z = min(z, w/r.Width)
	}
	if r.Height > 0 && h > 0 {
		z = min(z, h/r.Height)
	}
	return State{Zoom: clampZoom(z), Center: r.Center()}
}

// ZoomToState returns the state for zooming to r: r is enlarged by
// ZoomToEnlargement and fitted, but the zoom never drops below the current
// one.
func (v *Viewport) ZoomToState(r geom.Rect) State {
	r = r.Enlarge(ZoomToEnlargement)
	v.mu.Lock()
	defer v.mu.Unlock()
	z := min(v.size.Width/r.Width, v.size.Height/r.Height)
	return State{Zoom: clampZoom(max(z, v.state.Zoom)), Center: r.Center()}
}

// update applies fn under the lock, normalizes the result, and notifies.
func (v *Viewport) update(fn func() State) {
	v.mu.Lock()
	s := fn()
	s.Zoom = clampZoom(s.Zoom)
	s = v.limit(s)
	changed := s != v.state
	v.state = s
	cb := v.onChange
	v.mu.Unlock()

	if changed && cb != nil {
		cb(s)
	}
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 1
	}
	return max(MinZoom, min(MaxZoom, z))
}

// limit keeps the suggested viewport from panning the content out of view.
// Panning may move the content off center, but the viewport always keeps
// LimiterPadding of its extent as the maximum distance past the content.
func (v *Viewport) limit(s State) State {
	if !v.hasContent {
		return s
	}
	vis := v.visible(s)
	x := limitAxis(v.content.X, v.content.MaxX(), vis.X, vis.Width, vis.Width*LimiterPadding)
	y := limitAxis(v.content.Y, v.content.MaxY(), vis.Y, vis.Height, vis.Height*LimiterPadding)
	return State{Zoom: s.Zoom, Center: geom.Point{X: x + vis.Width/2, Y: y + vis.Height/2}}
}

// limitAxis returns the limited start of the viewport along one axis.
func limitAxis(lo, hi, start, extent, padding float64) float64 {
	if hi-lo+padding > extent {
		return max(lo-padding, min(hi+padding-extent, start))
	}
	switch {
	case start > lo:
		return lo
	case start+extent > hi:
		return start
	default:
		return hi - extent
	}
}

// =============================================================================
// Animation
// =============================================================================

// Animate moves to target over d, applying intermediate states at the frame
// rate. It stops early when ctx is done, leaving the last applied frame.
// A non-positive d jumps directly.
func (v *Viewport) Animate(ctx context.Context, target State, d time.Duration) error {
	if d <= 0 {
		v.SetState(target)
		return nil
	}
	from := v.State()
	start := time.Now()
	ticker := time.NewTicker(time.Second / DefaultFrameRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case now := <-ticker.C:
			t := min(1, float64(now.Sub(start))/float64(d))
			v.SetState(interpolate(from, target, ease(t)))
			if t >= 1 {
				return nil
			}
		}
	}
}

// interpolate blends zoom geometrically so that zooming feels uniform.
func interpolate(from, to State, t float64) State {
	z := to.Zoom
	if from.Zoom > 0 && to.Zoom > 0 {
		z = from.Zoom * math.Pow(to.Zoom/from.Zoom, t)
	}
	return State{Zoom: z, Center: from.Center.Lerp(to.Center, t)}
}

func ease(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := 2*t - 2
	return 0.5*f*f*f + 1
}
