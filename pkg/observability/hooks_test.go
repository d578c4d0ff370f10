package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	if got := l.OnLayoutStart(ctx, "layered", 10, false); got != ctx {
		t.Error("NoopLayoutHooks.OnLayoutStart should return its context")
	}
	l.OnLayoutComplete(ctx, "layered", "completed", time.Second, nil)

	NoopSyncHooks{}.OnSync(ctx, 3, 2, 1, time.Millisecond)

	w := NoopWorkerHooks{}
	w.OnRequest(ctx, "t")
	w.OnReply(ctx, "t", time.Second, nil)
	w.OnStaleReply(ctx, "t")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Sync().(NoopSyncHooks); !ok {
		t.Error("Sync() should return NoopSyncHooks by default")
	}

	custom := &recordingLayoutHooks{}
	SetLayoutHooks(custom)
	if Layout() != custom {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	SetLayoutHooks(nil)
	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

type recordingLayoutHooks struct {
	outcomes []string
}

func (r *recordingLayoutHooks) OnLayoutStart(ctx context.Context, _ string, _ int, _ bool) context.Context {
	return ctx
}

func (r *recordingLayoutHooks) OnLayoutComplete(_ context.Context, _, outcome string, _ time.Duration, _ error) {
	r.outcomes = append(r.outcomes, outcome)
}

func TestChainLayoutHooks(t *testing.T) {
	a, b := &recordingLayoutHooks{}, &recordingLayoutHooks{}
	h := ChainLayoutHooks(a, b)
	ctx := h.OnLayoutStart(context.Background(), "layered", 1, true)
	h.OnLayoutComplete(ctx, "layered", "aborted", 0, nil)
	if len(a.outcomes) != 1 || len(b.outcomes) != 1 || b.outcomes[0] != "aborted" {
		t.Errorf("chained outcomes = %v, %v, want [aborted] twice", a.outcomes, b.outcomes)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	ctx := context.Background()

	m.OnLayoutComplete(ctx, "layered", "completed", 10*time.Millisecond, nil)
	m.OnLayoutComplete(ctx, "layered", "superseded", time.Millisecond, nil)
	m.OnSync(ctx, 5, 4, 1, time.Millisecond)
	m.OnReply(ctx, "t", time.Millisecond, errors.New("boom"))
	m.OnStaleReply(ctx, "old")
	m.OnCacheSet(ctx, "layout", 100)

	if got := testutil.ToFloat64(m.layoutRuns.WithLabelValues("layered", "completed")); got != 1 {
		t.Errorf("runs_total{completed} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.masterNodes); got != 5 {
		t.Errorf("store_nodes = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.workerReplies.WithLabelValues("stale")); got != 1 {
		t.Errorf("replies_total{stale} = %v, want 1", got)
	}

	expected := `
# HELP supplychain_store_dropped_records_total Records dropped during synchronization (dangling or duplicate).
# TYPE supplychain_store_dropped_records_total counter
supplychain_store_dropped_records_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "supplychain_store_dropped_records_total"); err != nil {
		t.Errorf("GatherAndCompare() error: %v", err)
	}
}

func TestTracingWithoutProvider(t *testing.T) {
	tr := NewTracing()
	ctx := tr.OnLayoutStart(context.Background(), "layered", 3, false)
	tr.OnLayoutComplete(ctx, "layered", "failed", time.Millisecond, errors.New("boom"))
}
