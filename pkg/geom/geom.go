// Package geom provides the small set of planar geometry types shared by the
// graph store, the layout orchestrator, the viewport, and the exporters.
//
// All coordinates are world coordinates: x grows to the right and y grows
// downward. A [Rect] is anchored at its upper-left corner.
package geom

import "math"

// Point is a location in world coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{p.X + dx, p.Y + dy} }

// Lerp interpolates between p and q. t=0 yields p, t=1 yields q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Insets describes padding on each side of a rectangle.
type Insets struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// Uniform returns insets with the same value on every side.
func Uniform(v float64) Insets { return Insets{v, v, v, v} }

// Horizontal returns Left + Right.
func (i Insets) Horizontal() float64 { return i.Left + i.Right }

// Vertical returns Top + Bottom.
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }

// Rect is an axis-aligned rectangle anchored at its upper-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectAt returns a rectangle with the given upper-left corner and size.
func RectAt(p Point, s Size) Rect { return Rect{p.X, p.Y, s.Width, s.Height} }

// RectCentered returns a rectangle of size s centered on c.
func RectCentered(c Point, s Size) Rect {
	return Rect{c.X - s.Width/2, c.Y - s.Height/2, s.Width, s.Height}
}

func (r Rect) TopLeft() Point     { return Point{r.X, r.Y} }
func (r Rect) BottomRight() Point { return Point{r.X + r.Width, r.Y + r.Height} }
func (r Rect) MaxX() float64      { return r.X + r.Width }
func (r Rect) MaxY() float64      { return r.Y + r.Height }
func (r Rect) Size() Size         { return Size{r.Width, r.Height} }

// Center returns the center point of r.
func (r Rect) Center() Point { return Point{r.X + r.Width/2, r.Y + r.Height/2} }

// WithCenter returns r moved so that its center is c. The size is kept.
func (r Rect) WithCenter(c Point) Rect { return RectCentered(c, r.Size()) }

// WithTopLeft returns r moved so that its upper-left corner is p.
func (r Rect) WithTopLeft(p Point) Rect { return Rect{p.X, p.Y, r.Width, r.Height} }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect { return Rect{r.X + dx, r.Y + dy, r.Width, r.Height} }

// Enlarge grows r by d on every side. Negative d shrinks it.
func (r Rect) Enlarge(d float64) Rect {
	return Rect{r.X - d, r.Y - d, r.Width + 2*d, r.Height + 2*d}
}

// Inset shrinks r by the given insets. Use negative insets to grow it.
func (r Rect) Inset(i Insets) Rect {
	return Rect{r.X + i.Left, r.Y + i.Top, r.Width - i.Horizontal(), r.Height - i.Vertical()}
}

// Outset grows r by the given insets.
func (r Rect) Outset(i Insets) Rect {
	return Rect{r.X - i.Left, r.Y - i.Top, r.Width + i.Horizontal(), r.Height + i.Vertical()}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	x1, y1 := math.Max(r.MaxX(), o.MaxX()), math.Max(r.MaxY(), o.MaxY())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Lerp interpolates position and size between r and o.
func (r Rect) Lerp(o Rect, t float64) Rect {
	return Rect{
		X:      r.X + (o.X-r.X)*t,
		Y:      r.Y + (o.Y-r.Y)*t,
		Width:  r.Width + (o.Width-r.Width)*t,
		Height: r.Height + (o.Height-r.Height)*t,
	}
}

// Bounds returns the union of all rects. ok is false when rects is empty.
func Bounds(rects ...Rect) (b Rect, ok bool) {
	for i, r := range rects {
		if i == 0 {
			b = r
			continue
		}
		b = b.Union(r)
	}
	return b, len(rects) > 0
}

// PointBounds returns the bounding box of a set of points.
func PointBounds(pts []Point) (Rect, bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	x0, y0, x1, y1 := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		x0, y0 = math.Min(x0, p.X), math.Min(y0, p.Y)
		x1, y1 = math.Max(x1, p.X), math.Max(y1, p.Y)
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}, true
}
