package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements every hook interface with Prometheus collectors.
type Metrics struct {
	layoutRuns     *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
	layoutNodes    prometheus.Histogram
	syncs          prometheus.Counter
	syncDropped    prometheus.Counter
	syncDuration   prometheus.Histogram
	masterNodes    prometheus.Gauge
	masterEdges    prometheus.Gauge
	workerRequests prometheus.Counter
	workerReplies  *prometheus.CounterVec
	workerLatency  prometheus.Histogram
	cacheOps       *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. Pass a fresh
// prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		layoutRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplychain", Subsystem: "layout", Name: "runs_total",
			Help: "Layout runs by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "supplychain", Subsystem: "layout", Name: "duration_seconds",
			Help:    "Wall-clock duration of layout runs.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"algorithm"}),
		layoutNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "supplychain", Subsystem: "layout", Name: "nodes",
			Help:    "Number of view nodes per layout run.",
			Buckets: prometheus.ExponentialBuckets(4, 2, 12),
		}),
		syncs: f.NewCounter(prometheus.CounterOpts{
			Namespace: "supplychain", Subsystem: "store", Name: "syncs_total",
			Help: "Data synchronizations into the master graph.",
		}),
		syncDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "supplychain", Subsystem: "store", Name: "dropped_records_total",
			Help: "Records dropped during synchronization (dangling or duplicate).",
		}),
		syncDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "supplychain", Subsystem: "store", Name: "sync_duration_seconds",
			Help:    "Duration of data synchronizations.",
			Buckets: prometheus.DefBuckets,
		}),
		masterNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "supplychain", Subsystem: "store", Name: "nodes",
			Help: "Master graph node count after the last sync.",
		}),
		masterEdges: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "supplychain", Subsystem: "store", Name: "edges",
			Help: "Master graph edge count after the last sync.",
		}),
		workerRequests: f.NewCounter(prometheus.CounterOpts{
			Namespace: "supplychain", Subsystem: "worker", Name: "requests_total",
			Help: "Layout requests sent to workers.",
		}),
		workerReplies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplychain", Subsystem: "worker", Name: "replies_total",
			Help: "Worker replies by disposition (ok, error, stale).",
		}, []string{"disposition"}),
		workerLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "supplychain", Subsystem: "worker", Name: "roundtrip_seconds",
			Help:    "Worker request/reply round trip.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplychain", Subsystem: "cache", Name: "operations_total",
			Help: "Cache operations by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplychain", Subsystem: "cache", Name: "written_bytes_total",
			Help: "Bytes written to the cache.",
		}, []string{"key_type"}),
	}
}

func (m *Metrics) OnLayoutStart(ctx context.Context, _ string, nodeCount int, _ bool) context.Context {
	m.layoutNodes.Observe(float64(nodeCount))
	return ctx
}

func (m *Metrics) OnLayoutComplete(_ context.Context, algorithm, outcome string, d time.Duration, _ error) {
	m.layoutRuns.WithLabelValues(algorithm, outcome).Inc()
	m.layoutDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

func (m *Metrics) OnSync(_ context.Context, nodes, edges, dropped int, d time.Duration) {
	m.syncs.Inc()
	m.syncDropped.Add(float64(dropped))
	m.syncDuration.Observe(d.Seconds())
	m.masterNodes.Set(float64(nodes))
	m.masterEdges.Set(float64(edges))
}

func (m *Metrics) OnRequest(context.Context, string) { m.workerRequests.Inc() }

func (m *Metrics) OnReply(_ context.Context, _ string, d time.Duration, err error) {
	disposition := "ok"
	if err != nil {
		disposition = "error"
	}
	m.workerReplies.WithLabelValues(disposition).Inc()
	m.workerLatency.Observe(d.Seconds())
}

func (m *Metrics) OnStaleReply(context.Context, string) {
	m.workerReplies.WithLabelValues("stale").Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ LayoutHooks = (*Metrics)(nil)
	_ SyncHooks   = (*Metrics)(nil)
	_ WorkerHooks = (*Metrics)(nil)
	_ CacheHooks  = (*Metrics)(nil)
)
