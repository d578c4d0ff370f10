package supplychain

import (
	"bytes"
	"context"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/graph"
	"github.com/matzehuels/supplychain/pkg/layout"
	"github.com/matzehuels/supplychain/pkg/render"
)

// =============================================================================
// Fixtures
// =============================================================================

// recordingExecutor echoes the request geometry shifted by dx and records
// every request. With a gate it blocks until the gate closes or ctx ends.
type recordingExecutor struct {
	dx   float64
	gate chan struct{}
	seen chan struct{}

	mu   sync.Mutex
	reqs []layout.Request
}

func (e *recordingExecutor) Name() string { return "recording" }

func (e *recordingExecutor) Execute(ctx context.Context, req layout.Request) (graph.Layout, error) {
	e.mu.Lock()
	e.reqs = append(e.reqs, req)
	e.mu.Unlock()
	if e.seen != nil {
		e.seen <- struct{}{}
	}
	if e.gate != nil {
		select {
		case <-e.gate:
		case <-ctx.Done():
			return graph.Layout{}, ctx.Err()
		}
	}
	return req.Graph.Layout().Translate(e.dx, 0), nil
}

func (e *recordingExecutor) requests() []layout.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.reqs)
}

func (e *recordingExecutor) reset() {
	e.mu.Lock()
	e.reqs = nil
	e.mu.Unlock()
}

func newModel(t *testing.T, exec layout.Executor, providers chain.Providers) *Model {
	t.Helper()
	m, err := New(Options{
		Providers:         providers,
		Executor:          exec,
		Animator:          layout.ImmediateAnimator{},
		ViewportAnimation: -1,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func item(id, name, parent string) *chain.Item {
	return &chain.Item{ID: chain.ItemID(id), Name: name, ParentID: chain.ItemID(parent)}
}

func conn(src, tgt string, fields map[string]any) *chain.Connection {
	return &chain.Connection{SourceID: chain.ItemID(src), TargetID: chain.ItemID(tgt), Fields: fields}
}

func visibleIDs(m *Model) []string {
	var out []string
	for _, n := range m.Scene().Nodes {
		out = append(out, n.ID)
	}
	slices.Sort(out)
	return out
}

// =============================================================================
// Scenarios
// =============================================================================

func TestCollapseGroup(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	err := m.SetData(ctx, chain.Data{Items: []*chain.Item{
		item("1", "Cu", "10"),
		item("2", "Zn", "10"),
		item("10", "Metals", ""),
	}})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}

	if !m.IsGroupItem("10") {
		t.Fatal("IsGroupItem(10) = false, want true")
	}
	if got := len(m.Children("10")); got != 2 {
		t.Errorf("len(Children(10)) = %d, want 2", got)
	}
	if !m.CanCollapse("10") {
		t.Fatal("CanCollapse(10) = false, want true")
	}

	if err := m.Collapse(ctx, "10"); err != nil {
		t.Fatalf("Collapse() error = %v", err)
	}
	if !m.CanExpand("10") {
		t.Error("CanExpand(10) = false after Collapse")
	}
	s := m.Scene()
	if len(s.Nodes) != 1 || s.Nodes[0].ID != "10" || !s.Nodes[0].Folder {
		t.Errorf("Scene().Nodes = %+v, want the folder of 10 only", s.Nodes)
	}
}

func TestHighlightConnected(t *testing.T) {
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	err := m.SetData(context.Background(), chain.Data{
		Items:       []*chain.Item{item("1", "", ""), item("2", "", ""), item("3", "", "")},
		Connections: []*chain.Connection{conn("1", "3", nil), conn("2", "3", nil)},
	})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}

	if err := m.Highlight("1"); err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}
	got := m.Highlighted()
	slices.Sort(got)
	if want := []chain.ItemID{"1", "2", "3"}; !slices.Equal(got, want) {
		t.Errorf("Highlighted() = %v, want %v", got, want)
	}
	for _, e := range m.Scene().Edges {
		if !e.Highlighted {
			t.Errorf("edge %s not highlighted", e.ID)
		}
	}
	if !m.CanClearHighlight() {
		t.Error("CanClearHighlight() = false")
	}
	m.ClearHighlight()
	if m.CanClearHighlight() {
		t.Error("CanClearHighlight() = true after ClearHighlight")
	}
}

func TestShowLevel(t *testing.T) {
	ctx := context.Background()
	exec := &recordingExecutor{}
	m := newModel(t, exec, chain.Providers{})
	err := m.SetData(ctx, chain.Data{Items: []*chain.Item{
		item("A", "", ""),
		item("B", "", "A"),
		item("C", "", "B"),
		item("x", "", "C"),
		item("D", "", ""),
		item("y", "", "D"),
	}})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	exec.reset()

	if err := m.ShowLevel(ctx, 1); err != nil {
		t.Fatalf("ShowLevel() error = %v", err)
	}

	reqs := exec.requests()
	if len(reqs) != 1 {
		t.Fatalf("layout calls = %d, want 1", len(reqs))
	}
	if reqs[0].Constraints.Incremental {
		t.Error("ShowLevel layout is incremental")
	}
	if got := m.CollapsedGroups(); !slices.Contains(got, "B") || !slices.Contains(got, "C") {
		t.Errorf("CollapsedGroups() = %v, want B and C", got)
	}
	if m.IsCollapsed("A") || m.IsCollapsed("D") {
		t.Error("top-level group collapsed")
	}
	if got, want := visibleIDs(m), []string{"A", "B", "D", "y"}; !slices.Equal(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}

	if err := m.ShowLevel(ctx, -1); !errors.IsContract(err) {
		t.Errorf("ShowLevel(-1) error = %v, want contract error", err)
	}
}

func TestShowLevelOnFirstLoad(t *testing.T) {
	exec := &recordingExecutor{}
	m, err := New(Options{
		Executor:          exec,
		Animator:          layout.ImmediateAnimator{},
		ViewportAnimation: -1,
		ShowLevel:         1,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = m.SetData(context.Background(), chain.Data{Items: []*chain.Item{
		item("G", "", ""), item("H", "", "G"), item("a", "", "H"),
	}})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if !m.IsCollapsed("H") || m.IsCollapsed("G") {
		t.Errorf("collapsed = %v, want [H]", m.CollapsedGroups())
	}
	if got := len(exec.requests()); got != 1 {
		t.Errorf("layout calls = %d, want 1", got)
	}
}

// =============================================================================
// Properties
// =============================================================================

func TestSetDataIdempotent(t *testing.T) {
	ctx := context.Background()
	exec := &recordingExecutor{dx: 10}
	m := newModel(t, exec, chain.Providers{})
	data := chain.Data{
		Items:       []*chain.Item{item("1", "a", ""), item("2", "b", "")},
		Connections: []*chain.Connection{conn("1", "2", nil)},
	}
	if err := m.SetData(ctx, data); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	before := m.Scene()
	exec.reset()

	if err := m.SetData(ctx, data); err != nil {
		t.Fatalf("second SetData() error = %v", err)
	}
	after := m.Scene()
	if got := len(exec.requests()); got != 0 {
		t.Errorf("layout calls = %d, want 0", got)
	}
	if len(after.Nodes) != len(before.Nodes) || len(after.Edges) != len(before.Edges) {
		t.Fatalf("scene changed: %d/%d nodes, %d/%d edges",
			len(after.Nodes), len(before.Nodes), len(after.Edges), len(before.Edges))
	}
	for i := range before.Nodes {
		if after.Nodes[i].Bounds != before.Nodes[i].Bounds {
			t.Errorf("node %s moved from %v to %v", before.Nodes[i].ID, before.Nodes[i].Bounds, after.Nodes[i].Bounds)
		}
	}
}

func TestCollapseExpandRestoresView(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	err := m.SetData(ctx, chain.Data{
		Items: []*chain.Item{
			item("G", "", ""), item("a", "", "G"), item("b", "", "G"), item("c", "", ""),
		},
		Connections: []*chain.Connection{conn("a", "c", nil)},
	})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	before := visibleIDs(m)

	if err := m.Collapse(ctx, "G"); err != nil {
		t.Fatalf("Collapse() error = %v", err)
	}
	if got := visibleIDs(m); slices.Contains(got, "a") {
		t.Errorf("visible after Collapse = %v", got)
	}
	if err := m.Toggle(ctx, "G"); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if got := visibleIDs(m); !slices.Equal(got, before) {
		t.Errorf("visible after Expand = %v, want %v", got, before)
	}
}

func TestDanglingConnectionDropped(t *testing.T) {
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	err := m.SetData(context.Background(), chain.Data{
		Items:       []*chain.Item{item("1", "", "")},
		Connections: []*chain.Connection{conn("99", "1", nil)},
	})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if got := len(m.Scene().Edges); got != 0 {
		t.Errorf("edges = %d, want 0", got)
	}
}

func TestNilRecordsSkipped(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	err := m.SetData(ctx, chain.Data{
		Items:       []*chain.Item{item("1", "", ""), nil, item("2", "", "")},
		Connections: []*chain.Connection{nil, conn("1", "2", nil)},
	})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if got, want := visibleIDs(m), []string{"1", "2"}; !slices.Equal(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}

	err = m.SetData(ctx, chain.Data{
		Items:       []*chain.Item{nil, item("1", "", ""), item("2", "", ""), item("3", "", "")},
		Connections: []*chain.Connection{conn("1", "2", nil), nil},
	})
	if err != nil {
		t.Fatalf("SetData(update) error = %v", err)
	}
	if got, want := visibleIDs(m), []string{"1", "2", "3"}; !slices.Equal(got, want) {
		t.Errorf("visible after update = %v, want %v", got, want)
	}
}

func TestApplyLayoutSupersedes(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	err := m.SetData(ctx, chain.Data{Items: []*chain.Item{item("1", "", ""), item("2", "", "")}})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	x0 := m.Scene().Nodes[0].Bounds.X

	slow := &recordingExecutor{dx: 1000, gate: make(chan struct{}), seen: make(chan struct{}, 1)}
	m.SetExecutor(slow)
	done := make(chan error, 1)
	go func() { done <- m.ApplyLayout(ctx, LayoutRequest{Incremental: true, Items: []chain.ItemID{"1"}}) }()
	<-slow.seen

	m.SetExecutor(&recordingExecutor{dx: 7})
	if err := m.ApplyLayout(ctx, LayoutRequest{}); err != nil {
		t.Fatalf("second ApplyLayout() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("superseded ApplyLayout() error = %v, want nil", err)
	}
	for _, n := range m.Scene().Nodes {
		if n.Bounds.X != x0+7 {
			t.Errorf("node %s X = %v, want %v", n.ID, n.Bounds.X, x0+7)
		}
	}
}

func TestZoomToNeverZoomsOut(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	if err := m.SetData(ctx, chain.Data{Items: []*chain.Item{item("1", "", "")}}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	for _, zoom := range []float64{0.1, 1, 3} {
		m.Viewport().SetZoom(zoom)
		before := m.Zoom()
		if err := m.ZoomToItem(ctx, "1"); err != nil {
			t.Fatalf("ZoomToItem() error = %v", err)
		}
		if got := m.Zoom(); got < before {
			t.Errorf("zoom %v: ZoomToItem() zoomed out to %v", before, got)
		}
	}
}

func TestFoldingConnectionLabel(t *testing.T) {
	ctx := context.Background()
	sum := chain.ConnectionLabelFunc(func(ref chain.Ref, _ chain.Inspector) *chain.Label {
		var total float64
		for _, c := range ref.Connections() {
			if v, ok := c.Number("amount"); ok {
				total += v
			}
		}
		return &chain.Label{Text: strconv.FormatFloat(total, 'f', -1, 64)}
	})
	m := newModel(t, &recordingExecutor{}, chain.Providers{ConnectionLabel: sum})
	err := m.SetData(ctx, chain.Data{
		Items: []*chain.Item{
			item("S", "", ""), item("1", "", "S"), item("2", "", "S"),
			item("T", "", ""), item("3", "", "T"),
		},
		Connections: []*chain.Connection{
			conn("1", "3", map[string]any{"amount": 5}),
			conn("2", "3", map[string]any{"amount": 7}),
		},
	})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	for _, id := range []chain.ItemID{"S", "T"} {
		if err := m.Collapse(ctx, id); err != nil {
			t.Fatalf("Collapse(%s) error = %v", id, err)
		}
	}

	edges := m.Scene().Edges
	if len(edges) != 1 || !edges[0].Folding {
		t.Fatalf("edges = %+v, want one folding edge", edges)
	}
	if edges[0].Label == nil || edges[0].Label.Text != "12" {
		t.Errorf("label = %+v, want 12", edges[0].Label)
	}
}

// =============================================================================
// Operations
// =============================================================================

func TestUnknownItem(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	if err := m.SetData(ctx, chain.Data{Items: []*chain.Item{item("1", "", "")}}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if err := m.Collapse(ctx, "nope"); !errors.Is(err, errors.ErrCodeItemNotFound) {
		t.Errorf("Collapse(nope) error = %v, want item not found", err)
	}
	if err := m.Collapse(ctx, "1"); err != nil {
		t.Errorf("Collapse(non-group) error = %v, want nil", err)
	}
}

func TestShowGenealogy(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	err := m.SetData(ctx, chain.Data{
		Items: []*chain.Item{item("1", "", ""), item("2", "", ""), item("3", "", ""), item("4", "", "")},
		Connections: []*chain.Connection{
			conn("1", "2", nil), conn("3", "2", nil),
		},
	})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}

	if err := m.ShowGenealogy(ctx, "1", false); err != nil {
		t.Fatalf("ShowGenealogy() error = %v", err)
	}
	if got, want := visibleIDs(m), []string{"1", "2", "3"}; !slices.Equal(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
	if !m.CanShowAll() {
		t.Error("CanShowAll() = false after filtering")
	}
	if err := m.ShowAll(ctx); err != nil {
		t.Fatalf("ShowAll() error = %v", err)
	}
	if got := len(visibleIDs(m)); got != 4 {
		t.Errorf("visible after ShowAll = %d, want 4", got)
	}
	if m.CanShowAll() {
		t.Error("CanShowAll() = true after ShowAll")
	}
}

func TestShowGenealogyFolded(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	err := m.SetData(ctx, chain.Data{
		Items: []*chain.Item{
			item("a", "", "P"), item("d", "", "P"), item("P", "", ""),
			item("c", "", ""), item("e", "", ""),
		},
		Connections: []*chain.Connection{conn("a", "c", nil), conn("e", "d", nil)},
	})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if err := m.Collapse(ctx, "P"); err != nil {
		t.Fatalf("Collapse() error = %v", err)
	}
	if err := m.ShowGenealogy(ctx, "c", false); err != nil {
		t.Fatalf("ShowGenealogy() error = %v", err)
	}
	if got, want := visibleIDs(m), []string{"P", "c"}; !slices.Equal(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}

	if err := m.Expand(ctx, "P"); err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got, want := visibleIDs(m), []string{"P", "a", "c"}; !slices.Equal(got, want) {
		t.Errorf("visible after Expand = %v, want %v", got, want)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	err := m.SetData(ctx, chain.Data{Items: []*chain.Item{
		item("1", "Copper", ""), item("2", "Zinc", ""), item("3", "copper wire", ""),
	}})
	if err != nil {
		t.Fatalf("SetData() error = %v", err)
	}

	var notified int
	m.OnChange(func() { notified++ })
	m.SetSearchNeedle("copper")
	if notified != 1 {
		t.Errorf("change notifications = %d, want 1", notified)
	}
	if got, want := m.SearchHits(), []chain.ItemID{"1", "3"}; !slices.Equal(got, want) {
		t.Errorf("SearchHits() = %v, want %v", got, want)
	}
	n, _ := m.Scene().Node("3")
	if !n.SearchHit {
		t.Error("node 3 not marked as search hit")
	}
	m.SetSearchNeedle("")
	if got := m.SearchHits(); len(got) != 0 {
		t.Errorf("SearchHits() with empty needle = %v", got)
	}
}

func TestExportAndPrint(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, &recordingExecutor{}, chain.Providers{})
	if err := m.SetData(ctx, chain.Data{Items: []*chain.Item{item("1", "Copper", "")}}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}

	svg, err := m.ExportSVG(ctx)
	if err != nil {
		t.Fatalf("ExportSVG() error = %v", err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Copper")) {
		t.Errorf("ExportSVG() = %.80s...", svg)
	}

	if err := m.Print(ctx); !errors.IsContract(err) {
		t.Errorf("Print() without printer error = %v, want contract error", err)
	}

	var printed []byte
	m.opts.Printer = render.PrinterFunc(func(_ context.Context, svg []byte, _ render.PrintSettings) error {
		printed = svg
		return nil
	})
	if err := m.Print(ctx); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if len(printed) == 0 {
		t.Error("printer received nothing")
	}
}

func TestOptionsValidate(t *testing.T) {
	if _, err := New(Options{ShowLevel: -1}); !errors.IsContract(err) {
		t.Errorf("New(ShowLevel: -1) error = %v, want contract error", err)
	}
}
