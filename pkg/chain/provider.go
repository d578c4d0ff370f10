package chain

import "github.com/matzehuels/supplychain/pkg/style"

// Triple is one contributing connection together with its endpoint items.
type Triple struct {
	Source     *Item
	Target     *Item
	Connection *Connection
}

// Label is the text a label provider wants shown on a connection.
type Label struct {
	Text      string           `json:"text"`
	Shape     style.LabelShape `json:"labelShape,omitempty"`
	ClassName string           `json:"className,omitempty"`
}

// GridCell is a row/column partition cell.
type GridCell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Inspector is the read-only view of the model handed to label and heat
// providers.
type Inspector interface {
	IsGroupItem(id ItemID) bool
	IsConnection(ref Ref) bool
	IsFoldingConnection(ref Ref) bool
	Children(id ItemID) []*Item
}

// ConnectionStyleProvider styles a visual connection from its contributing
// triples. A plain connection has one triple. Returning nil selects the
// default edge style.
type ConnectionStyleProvider interface {
	ConnectionStyle(triples []Triple) *style.Edge
}

// ConnectionStyleFunc adapts a function to [ConnectionStyleProvider].
type ConnectionStyleFunc func(triples []Triple) *style.Edge

func (f ConnectionStyleFunc) ConnectionStyle(triples []Triple) *style.Edge { return f(triples) }

// ConnectionLabelProvider labels a connection or folding connection.
// Returning nil shows no label.
type ConnectionLabelProvider interface {
	ConnectionLabel(ref Ref, m Inspector) *Label
}

// ConnectionLabelFunc adapts a function to [ConnectionLabelProvider].
type ConnectionLabelFunc func(ref Ref, m Inspector) *Label

func (f ConnectionLabelFunc) ConnectionLabel(ref Ref, m Inspector) *Label { return f(ref, m) }

// GridPositioner assigns an item to a partition grid cell.
type GridPositioner interface {
	GridPosition(it *Item) GridCell
}

// GridPositionFunc adapts a function to [GridPositioner].
type GridPositionFunc func(it *Item) GridCell

func (f GridPositionFunc) GridPosition(it *Item) GridCell { return f(it) }

// HeatFunction returns a heat value in [0, 1] for an item or connection.
type HeatFunction interface {
	Heat(ref Ref, m Inspector) float64
}

// HeatFunc adapts a function to [HeatFunction].
type HeatFunc func(ref Ref, m Inspector) float64

func (f HeatFunc) Heat(ref Ref, m Inspector) float64 { return f(ref, m) }

// Matcher reports whether ref matches a search needle.
type Matcher interface {
	Match(ref Ref, needle string) bool
}

// MatchFunc adapts a function to [Matcher].
type MatchFunc func(ref Ref, needle string) bool

func (f MatchFunc) Match(ref Ref, needle string) bool { return f(ref, needle) }

// Providers bundles the strategy callbacks of a diagram. Nil members select
// the built-in behavior.
type Providers struct {
	ConnectionStyle ConnectionStyleProvider
	ConnectionLabel ConnectionLabelProvider
	GridPositioning GridPositioner
	Heat            HeatFunction
	Search          Matcher
}
