package diff

import (
	"slices"
	"testing"

	"github.com/matzehuels/supplychain/pkg/chain"
)

func TestItems(t *testing.T) {
	a := &chain.Item{ID: "1", Name: "x"}
	b := &chain.Item{ID: "2", Name: "y"}

	tests := []struct {
		name string
		prev []*chain.Item
		next []*chain.Item
		want []chain.ItemID
	}{
		{"empty", nil, nil, nil},
		{"all new", nil, []*chain.Item{a, b}, []chain.ItemID{"1", "2"}},
		{"unchanged", []*chain.Item{a, b}, []*chain.Item{b, a}, nil},
		{"renamed", []*chain.Item{a}, []*chain.Item{{ID: "1", Name: "y"}}, []chain.ItemID{"1"}},
		{"field changed", []*chain.Item{{ID: "1", Fields: map[string]any{"k": 1.0}}},
			[]*chain.Item{{ID: "1", Fields: map[string]any{"k": 2.0}}}, []chain.ItemID{"1"}},
		{"removed only", []*chain.Item{a, b}, []*chain.Item{a}, nil},
		{"equal copy", []*chain.Item{a}, []*chain.Item{a.Clone()}, nil},
		{"nil records", []*chain.Item{nil, a}, []*chain.Item{a, nil, b}, []chain.ItemID{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []chain.ItemID
			for _, it := range Items(tt.prev, tt.next) {
				got = append(got, it.ID)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Items() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConnections(t *testing.T) {
	prev := []*chain.Connection{{SourceID: "1", TargetID: "2"}}
	next := []*chain.Connection{
		{SourceID: "1", TargetID: "2"},
		{SourceID: "1", TargetID: "2", Fields: map[string]any{"amount": 5.0}},
	}
	got := Connections(prev, next)
	if len(got) != 1 || got[0].Fields["amount"] != 5.0 {
		t.Errorf("Connections() = %v, want the amount connection only", got)
	}
}

func TestResultItemIDs(t *testing.T) {
	r := Data(
		chain.Data{Items: []*chain.Item{{ID: "1"}}},
		chain.Data{
			Items:       []*chain.Item{{ID: "1"}, {ID: "3"}},
			Connections: []*chain.Connection{{SourceID: "3", TargetID: "1"}},
		},
	)
	if r.Empty() {
		t.Fatal("Empty() = true, want false")
	}
	want := []chain.ItemID{"3", "1"}
	if got := r.ItemIDs(); !slices.Equal(got, want) {
		t.Errorf("ItemIDs() = %v, want %v", got, want)
	}
	if !(Result{}).Empty() {
		t.Error("Result{}.Empty() = false, want true")
	}
}

func TestResultItemIDsSkipsNil(t *testing.T) {
	r := Result{
		Items:       []*chain.Item{nil, {ID: "1"}},
		Connections: []*chain.Connection{nil, {SourceID: "1", TargetID: "2"}},
	}
	want := []chain.ItemID{"1", "2"}
	if got := r.ItemIDs(); !slices.Equal(got, want) {
		t.Errorf("ItemIDs() = %v, want %v", got, want)
	}
	if got := Connections(nil, []*chain.Connection{nil}); len(got) != 0 {
		t.Errorf("Connections(nil, [nil]) = %v, want none", got)
	}
}
