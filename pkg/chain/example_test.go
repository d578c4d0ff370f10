package chain_test

import (
	"fmt"

	"github.com/matzehuels/supplychain/pkg/chain"
)

func ExampleFoldingConnection_Sum() {
	folded := &chain.FoldingConnection{Connections: []*chain.Connection{
		{SourceID: "1", TargetID: "3", Fields: map[string]any{"amount": 5}},
		{SourceID: "2", TargetID: "3", Fields: map[string]any{"amount": 7}},
	}}
	labels := chain.ConnectionLabelFunc(func(ref chain.Ref, _ chain.Inspector) *chain.Label {
		if !ref.IsFoldingConnection() {
			return nil
		}
		return &chain.Label{Text: fmt.Sprint(ref.Folding.Sum("amount"))}
	})

	fmt.Println(labels.ConnectionLabel(chain.FoldingRef(folded), nil).Text)
	// Output: 12
}
