package supplychain

import (
	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/fold"
	"github.com/matzehuels/supplychain/pkg/graph"
	"github.com/matzehuels/supplychain/pkg/layout"
)

// target exposes the model's view to the orchestrator. Every method takes
// the model lock.
type target struct{ m *Model }

func (t *target) Describe() graph.Graph {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	return graph.FromView(t.m.view)
}

func (t *target) Item(id string) *chain.Item {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if n := t.m.view.ViewNode(chain.ItemID(id)); n != nil {
		return n.Item
	}
	return nil
}

func (t *target) Snapshot() graph.Layout {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	return graph.Capture(t.m.view)
}

func (t *target) Apply(l graph.Layout) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	graph.Apply(t.m.view, l)
}

func (t *target) EdgesAt(nodes []string) []string {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	seen := make(map[fold.EdgeID]bool)
	var out []string
	for _, n := range nodes {
		for _, e := range t.m.view.EdgesAt(chain.ItemID(n)) {
			if !seen[e.ID] {
				seen[e.ID] = true
				out = append(out, string(e.ID))
			}
		}
	}
	return out
}

func (t *target) SetEdgeSuppressed(id string, suppressed bool) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if suppressed {
		t.m.suppressed[id] = true
	} else {
		delete(t.m.suppressed, id)
	}
}

var _ layout.Target = (*target)(nil)
