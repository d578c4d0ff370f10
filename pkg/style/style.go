// Package style defines the visual attributes the engine computes for edges
// and labels, the defaults every diagram starts from, and the per-instance
// group [Palette].
//
// Styles are plain values. The graph store stores a resolved [Edge] on every
// master edge, the folding layer recomputes one per folding connection, and
// the layout orchestrator temporarily swaps in [Hidden] while edges at
// incrementally placed nodes are re-routed.
package style

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultEdgeColor is the stroke and arrow color of unstyled connections.
	DefaultEdgeColor = "rgb(170, 170, 170)"

	// DefaultEdgeThickness is the stroke width of unstyled connections.
	DefaultEdgeThickness = 2.0

	// DefaultSmoothingLength rounds the bends of orthogonal routes.
	DefaultSmoothingLength = 10.0

	// BackgroundColor is the diagram background used by exports.
	BackgroundColor = "rgb(238,238,238)"

	// HighlightColor marks highlighted items and connections.
	HighlightColor = "#2979FF"

	// Transparent is the stroke used for suppressed edges.
	Transparent = "transparent"
)

// =============================================================================
// Edge Style
// =============================================================================

// ArrowType is the shape of an edge end decoration.
type ArrowType string

const (
	ArrowNone     ArrowType = "none"
	ArrowTriangle ArrowType = "triangle"
	ArrowDiamond  ArrowType = "diamond"
	ArrowCircle   ArrowType = "circle"
)

// Arrow describes one end of an edge. An empty Color inherits the stroke.
type Arrow struct {
	Type  ArrowType `json:"type,omitempty"`
	Color string    `json:"color,omitempty"`
}

// BendStyle selects how bends are painted.
type BendStyle string

const (
	BendsStraight BendStyle = "straight"
	BendsCurved   BendStyle = "curved"
)

// Edge is the resolved style of a connection.
type Edge struct {
	ClassName       string    `json:"className,omitempty"`
	Stroke          string    `json:"stroke,omitempty"`
	Thickness       float64   `json:"thickness,omitempty"`
	Dashed          bool      `json:"dashed,omitempty"`
	Bends           BendStyle `json:"bends,omitempty"`
	SmoothingLength float64   `json:"smoothingLength,omitempty"`
	SourceArrow     Arrow     `json:"sourceArrow"`
	TargetArrow     Arrow     `json:"targetArrow"`
}

// DefaultEdge returns the style used when no provider is configured or the
// provider returns nothing.
func DefaultEdge() Edge {
	return Edge{
		Stroke:          DefaultEdgeColor,
		Thickness:       DefaultEdgeThickness,
		Bends:           BendsStraight,
		SmoothingLength: DefaultSmoothingLength,
		SourceArrow:     Arrow{Type: ArrowNone},
		TargetArrow:     Arrow{Type: ArrowTriangle, Color: DefaultEdgeColor},
	}
}

// Resolve fills the unset fields of e from [DefaultEdge]. Providers usually
// only set a class name or a color.
func (e Edge) Resolve() Edge {
	d := DefaultEdge()
	if e.Stroke == "" {
		e.Stroke = d.Stroke
	}
	if e.Thickness == 0 {
		e.Thickness = d.Thickness
	}
	if e.Bends == "" {
		e.Bends = d.Bends
	}
	if e.SmoothingLength == 0 {
		e.SmoothingLength = d.SmoothingLength
	}
	if e.SourceArrow.Type == "" {
		e.SourceArrow = d.SourceArrow
	}
	if e.TargetArrow.Type == "" {
		e.TargetArrow.Type = d.TargetArrow.Type
	}
	if e.TargetArrow.Color == "" {
		e.TargetArrow.Color = e.Stroke
	}
	return e
}

// Hidden returns a copy of e painted fully transparent.
func (e Edge) Hidden() Edge {
	e.Stroke = Transparent
	e.SourceArrow.Color = Transparent
	e.TargetArrow.Color = Transparent
	return e
}

// IsHidden reports whether e paints nothing.
func (e Edge) IsHidden() bool { return e.Stroke == Transparent }

// =============================================================================
// Label Style
// =============================================================================

// LabelShape is the outline of a connection label.
type LabelShape string

const (
	ShapeHexagon        LabelShape = "hexagon"
	ShapePill           LabelShape = "pill"
	ShapeRectangle      LabelShape = "rectangle"
	ShapeRoundRectangle LabelShape = "round-rectangle"
)

// labelClass is prepended to every label class name.
const labelClass = "supplychain-connection-label"

// Label is the resolved style of a connection label.
type Label struct {
	Shape     LabelShape `json:"shape"`
	ClassName string     `json:"className"`
	Hidden    bool       `json:"hidden,omitempty"`
}

// LabelFor converts a provider label's shape and class into a label style.
// The shape defaults to round-rectangle.
func LabelFor(shape LabelShape, className string) Label {
	if shape == "" {
		shape = ShapeRoundRectangle
	}
	class := labelClass
	if className != "" {
		class += " " + className
	}
	return Label{Shape: shape, ClassName: class}
}
