package chain

// Kind discriminates the variants of [Ref].
type Kind int

const (
	KindNone Kind = iota
	KindItem
	KindConnection
	KindFoldingConnection
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindConnection:
		return "connection"
	case KindFoldingConnection:
		return "folding-connection"
	}
	return "none"
}

// Ref refers to exactly one item, connection, or folding connection. Only
// the field matching Kind is set.
type Ref struct {
	Kind       Kind
	Item       *Item
	Connection *Connection
	Folding    *FoldingConnection
}

// ItemRef wraps an item.
func ItemRef(it *Item) Ref {
	if it == nil {
		return Ref{}
	}
	return Ref{Kind: KindItem, Item: it}
}

// ConnectionRef wraps a connection.
func ConnectionRef(c *Connection) Ref {
	if c == nil {
		return Ref{}
	}
	return Ref{Kind: KindConnection, Connection: c}
}

// FoldingRef wraps a folding connection.
func FoldingRef(f *FoldingConnection) Ref {
	if f == nil {
		return Ref{}
	}
	return Ref{Kind: KindFoldingConnection, Folding: f}
}

// IsValid reports whether r refers to something.
func (r Ref) IsValid() bool { return r.Kind != KindNone }

// IsConnection reports whether r is a connection or a folding connection.
func (r Ref) IsConnection() bool {
	return r.Kind == KindConnection || r.Kind == KindFoldingConnection
}

// IsFoldingConnection reports whether r is a folding connection.
func (r Ref) IsFoldingConnection() bool { return r.Kind == KindFoldingConnection }

// Connections returns the connections r stands for: none for items, one for
// a connection, and all contributors for a folding connection.
func (r Ref) Connections() []*Connection {
	switch r.Kind {
	case KindConnection:
		return []*Connection{r.Connection}
	case KindFoldingConnection:
		return r.Folding.Connections
	}
	return nil
}
