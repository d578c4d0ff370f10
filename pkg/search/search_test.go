package search

import (
	"slices"
	"testing"

	"github.com/matzehuels/supplychain/pkg/chain"
)

func TestMatch(t *testing.T) {
	ore := &chain.Item{ID: "7", Name: "Iron Ore", Fields: map[string]any{
		"country": "Sweden",
		"tags":    []any{"raw", "Mined"},
		"weight":  12.5,
	}}
	ship := &chain.Connection{SourceID: "7", TargetID: "8", Name: "Rail freight"}
	other := &chain.Connection{SourceID: "9", TargetID: "8", Fields: map[string]any{"carrier": "Maersk"}}

	tests := []struct {
		name   string
		ref    chain.Ref
		needle string
		want   bool
	}{
		{"name", chain.ItemRef(ore), "iron", true},
		{"case", chain.ItemRef(ore), "ORE", true},
		{"id", chain.ItemRef(ore), "7", true},
		{"string field", chain.ItemRef(ore), "swed", true},
		{"list field", chain.ItemRef(ore), "mined", true},
		{"number field ignored", chain.ItemRef(ore), "12.5", false},
		{"miss", chain.ItemRef(ore), "copper", false},
		{"empty needle", chain.ItemRef(ore), "  ", false},
		{"connection name", chain.ConnectionRef(ship), "rail", true},
		{"folding contributor", chain.FoldingRef(&chain.FoldingConnection{Connections: []*chain.Connection{ship, other}}), "maersk", true},
		{"invalid ref", chain.Ref{}, "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.ref, tt.needle); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.needle, got, tt.want)
			}
		})
	}
}

func TestHits(t *testing.T) {
	items := []*chain.Item{
		{ID: "1", Name: "Copper"},
		{ID: "2", Name: "Zinc"},
		{ID: "3", Name: "Copper wire"},
	}
	if got, want := Hits(nil, items, "copper"), []chain.ItemID{"1", "3"}; !slices.Equal(got, want) {
		t.Errorf("Hits() = %v, want %v", got, want)
	}

	exact := chain.MatchFunc(func(ref chain.Ref, needle string) bool {
		return ref.Item != nil && ref.Item.Name == needle
	})
	if got, want := Hits(exact, items, "Zinc"), []chain.ItemID{"2"}; !slices.Equal(got, want) {
		t.Errorf("Hits(custom) = %v, want %v", got, want)
	}
}
