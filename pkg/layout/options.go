package layout

import (
	"fmt"
	"time"

	"github.com/matzehuels/supplychain/pkg/geom"
)

// Direction is the main flow direction of connections.
type Direction string

const (
	LeftToRight Direction = "left-to-right"
	RightToLeft Direction = "right-to-left"
	TopToBottom Direction = "top-to-bottom"
	BottomToTop Direction = "bottom-to-top"
)

// Horizontal reports whether layers are laid out along the x axis.
func (d Direction) Horizontal() bool { return d == LeftToRight || d == RightToLeft }

// Routing is the edge routing style.
type Routing string

const (
	Orthogonal Routing = "orthogonal"
	Curved     Routing = "curved"
	Octilinear Routing = "octilinear"
	Polyline   Routing = "polyline"
)

// Defaults for [Options].
const (
	DefaultDirection                 = LeftToRight
	DefaultRouting                   = Orthogonal
	DefaultMinimumLayerDistance      = 100.0
	DefaultMinimumFirstSegmentLength = 50.0
	DefaultMinimumLastSegmentLength  = 50.0
	DefaultNodeDistance              = 30.0
	DefaultAnimationDuration         = 300 * time.Millisecond
)

// DefaultGroupInsets pad the children of an expanded group. The top inset
// leaves room for the group header.
var DefaultGroupInsets = geom.Insets{Top: 50, Right: 15, Bottom: 15, Left: 15}

// Options is the pass-through layout configuration.
type Options struct {
	Direction                 Direction   `json:"direction" toml:"direction"`
	Routing                   Routing     `json:"routing" toml:"routing"`
	MinimumLayerDistance      float64     `json:"minimum_layer_distance" toml:"minimum_layer_distance"`
	MinimumFirstSegmentLength float64     `json:"minimum_first_segment_length" toml:"minimum_first_segment_length"`
	MinimumLastSegmentLength  float64     `json:"minimum_last_segment_length" toml:"minimum_last_segment_length"`
	NodeDistance              float64     `json:"node_distance" toml:"node_distance"`
	GroupInsets               geom.Insets `json:"group_insets" toml:"group_insets"`

	// MaximumDuration caps the algorithm's wall-clock time. Zero means no cap.
	MaximumDuration time.Duration `json:"maximum_duration" toml:"maximum_duration"`

	// AnimationDuration is the length of the transition to the new layout.
	AnimationDuration time.Duration `json:"animation_duration" toml:"animation_duration"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Direction:                 DefaultDirection,
		Routing:                   DefaultRouting,
		MinimumLayerDistance:      DefaultMinimumLayerDistance,
		MinimumFirstSegmentLength: DefaultMinimumFirstSegmentLength,
		MinimumLastSegmentLength:  DefaultMinimumLastSegmentLength,
		NodeDistance:              DefaultNodeDistance,
		GroupInsets:               DefaultGroupInsets,
		AnimationDuration:         DefaultAnimationDuration,
	}
}

// WithDefaults fills zero fields from [DefaultOptions].
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Direction == "" {
		o.Direction = d.Direction
	}
	if o.Routing == "" {
		o.Routing = d.Routing
	}
	if o.MinimumLayerDistance == 0 {
		o.MinimumLayerDistance = d.MinimumLayerDistance
	}
	if o.MinimumFirstSegmentLength == 0 {
		o.MinimumFirstSegmentLength = d.MinimumFirstSegmentLength
	}
	if o.MinimumLastSegmentLength == 0 {
		o.MinimumLastSegmentLength = d.MinimumLastSegmentLength
	}
	if o.NodeDistance == 0 {
		o.NodeDistance = d.NodeDistance
	}
	if o.GroupInsets == (geom.Insets{}) {
		o.GroupInsets = d.GroupInsets
	}
	return o
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	switch o.Direction {
	case LeftToRight, RightToLeft, TopToBottom, BottomToTop:
	default:
		return fmt.Errorf("invalid direction %q", o.Direction)
	}
	switch o.Routing {
	case Orthogonal, Curved, Octilinear, Polyline:
	default:
		return fmt.Errorf("invalid routing %q", o.Routing)
	}
	if o.MinimumLayerDistance < 0 || o.MinimumFirstSegmentLength < 0 ||
		o.MinimumLastSegmentLength < 0 || o.NodeDistance < 0 {
		return fmt.Errorf("distances must not be negative")
	}
	if o.MaximumDuration < 0 || o.AnimationDuration < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}
