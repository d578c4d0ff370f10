// Package chain defines the entity model of a supply chain diagram: items,
// the connections between them, and the synthesized folding connections that
// stand in for several connections crossing a collapsed group.
//
// # Records
//
// An [Item] is a record with an id, an optional parent id, an optional
// explicit size, and arbitrary user fields. An item that some other item
// names as its parent is a group item. A [Connection] is a directed
// relationship between two items.
//
// Ids may arrive as JSON strings or numbers. Both forms are normalized to
// their string representation, so the number 1 and the string "1" denote the
// same item.
//
// # References
//
// Callbacks that accept "an item or a connection or a folding connection"
// receive a [Ref], a tagged union whose [Kind] is resolved once at the graph
// boundary:
//
//	switch ref.Kind {
//	case chain.KindItem:
//	    fmt.Println(ref.Item.Name)
//	case chain.KindFoldingConnection:
//	    fmt.Println(len(ref.Folding.Connections))
//	}
//
// # Providers
//
// Styling, labeling, grid placement, heat, and search are strategy
// interfaces bundled in [Providers]. Each has a func adapter, so plain
// functions can be supplied:
//
//	p := chain.Providers{
//	    ConnectionLabel: chain.ConnectionLabelFunc(func(ref chain.Ref, _ chain.Inspector) *chain.Label {
//	        return &chain.Label{Text: "x"}
//	    }),
//	}
//
// Providers must be pure: they are called many times per layout pass and
// must not mutate their arguments.
package chain
