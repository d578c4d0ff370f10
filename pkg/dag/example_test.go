package dag_test

import (
	"fmt"

	"github.com/matzehuels/supplychain/pkg/dag"
)

func Example() {
	g := dag.New()
	g.AddNode(dag.Node{ID: "10", Group: true})
	g.AddNode(dag.Node{ID: "1"})
	g.AddNode(dag.Node{ID: "2"})
	g.SetParent("1", "10")
	g.SetParent("2", "10")
	g.AddEdge(dag.Edge{Source: "1", Target: "2"})

	fmt.Println("children:", g.Children("10"))
	fmt.Println("edge:", g.EdgeBetween("1", "2").ID)
	// Output:
	// children: [1 2]
	// edge: e1
}

func ExampleGraph_SetParent() {
	g := dag.New()
	g.AddNode(dag.Node{ID: "a"})
	g.AddNode(dag.Node{ID: "b"})
	g.SetParent("b", "a")

	err := g.SetParent("a", "b")
	fmt.Println(err)
	// Output: parent relation would form a cycle
}
