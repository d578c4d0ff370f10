package layout

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/graph"
	"github.com/matzehuels/supplychain/pkg/observability"
)

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeSuperseded
	OutcomeAborted
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSuperseded:
		return "superseded"
	case OutcomeAborted:
		return "aborted"
	}
	return "failed"
}

// Config configures an [Orchestrator].
type Config struct {
	Target   Target
	Executor Executor

	// Animator defaults to [FrameAnimator].
	Animator Animator

	// Options defaults to [DefaultOptions].
	Options *Options

	// Grid partitions nodes into rows and columns when set.
	Grid chain.GridPositioner

	// OnBounds receives the content bounds after every completed run.
	OnBounds func(bounds geom.Rect, fit bool)

	// OnRunning is called when the orchestrator becomes busy or idle.
	OnRunning func(running bool)

	Logger *log.Logger
}

type activeRun struct {
	cancel context.CancelCauseFunc
	done   chan struct{}
}

// Orchestrator runs layouts one at a time against a target.
type Orchestrator struct {
	target    Target
	exec      Executor
	anim      Animator
	opts      Options
	grid      chain.GridPositioner
	onBounds  func(geom.Rect, bool)
	onRunning func(bool)
	logger    *log.Logger

	suppress *suppressor

	startMu sync.Mutex // serializes the hand-over between runs
	mu      sync.Mutex
	active  *activeRun
	running int
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(cfg Config) *Orchestrator {
	o := &Orchestrator{
		target:    cfg.Target,
		exec:      cfg.Executor,
		anim:      cfg.Animator,
		opts:      DefaultOptions(),
		grid:      cfg.Grid,
		onBounds:  cfg.OnBounds,
		onRunning: cfg.OnRunning,
		logger:    cfg.Logger,
		suppress:  newSuppressor(),
	}
	if cfg.Options != nil {
		o.opts = cfg.Options.WithDefaults()
	}
	if o.anim == nil {
		o.anim = FrameAnimator{}
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}

// Options returns the default run options.
func (o *Orchestrator) Options() Options { return o.opts }

// SetGrid replaces the grid positioner used by later runs.
func (o *Orchestrator) SetGrid(g chain.GridPositioner) {
	o.mu.Lock()
	o.grid = g
	o.mu.Unlock()
}

// SetExecutor replaces the executor used by later runs.
func (o *Orchestrator) SetExecutor(e Executor) {
	o.mu.Lock()
	o.exec = e
	o.mu.Unlock()
}

// Running reports whether a run is in progress.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running > 0
}

// Run performs one layout run. A previous active run is superseded first.
//
// Superseded and aborted runs return a nil error; the previous geometry
// stays in place. Failed runs return the executor's error.
func (o *Orchestrator) Run(ctx context.Context, run Run) (Outcome, error) {
	ctx, cur := o.begin(ctx)
	defer o.end(cur)

	o.mu.Lock()
	exec, grid := o.exec, o.grid
	o.mu.Unlock()

	opts := o.opts
	if run.Options != nil {
		opts = run.Options.WithDefaults()
	}
	if err := opts.Validate(); err != nil {
		return OutcomeFailed, err
	}

	g := o.target.Describe()
	req := NewRequest(g, opts, run, func(id string) *chain.Item { return o.target.Item(id) }, grid)

	release := func() {}
	if len(run.Nodes) > 0 {
		release = o.suppress.acquire(o.target, o.target.EdgesAt(run.Nodes))
	}
	defer release()

	start := time.Now()
	hooks := observability.Layout()
	ctx = hooks.OnLayoutStart(ctx, exec.Name(), len(g.Nodes), run.Incremental)

	outcome, err := o.execute(ctx, exec, req, g)
	hooks.OnLayoutComplete(ctx, exec.Name(), outcome.String(), time.Since(start), err)

	switch outcome {
	case OutcomeSuperseded:
		o.logger.Debug("layout superseded", "algorithm", exec.Name())
		return outcome, nil
	case OutcomeAborted:
		o.logger.Warn(ErrAborted.Error(), "algorithm", exec.Name(), "budget", opts.MaximumDuration)
		return outcome, nil
	case OutcomeFailed:
		o.logger.Error("layout failed", "algorithm", exec.Name(), "err", err)
		return outcome, err
	}

	o.logger.Debug("layout complete", "algorithm", exec.Name(),
		"nodes", len(g.Nodes), "incremental", run.Incremental, "elapsed", time.Since(start))
	if o.onBounds != nil {
		if b, ok := o.target.Snapshot().Bounds(); ok {
			o.onBounds(b, run.Fit)
		}
	}
	return OutcomeCompleted, nil
}

func (o *Orchestrator) execute(ctx context.Context, exec Executor, req Request, g graph.Graph) (Outcome, error) {
	result, err := exec.Execute(ctx, req)
	if err != nil {
		return classify(ctx, err), err
	}
	if err := o.anim.Animate(ctx, o.target, g.Layout(), result, req.Options.AnimationDuration); err != nil {
		return classify(ctx, err), err
	}
	return OutcomeCompleted, nil
}

func classify(ctx context.Context, err error) Outcome {
	switch {
	case errors.Is(context.Cause(ctx), ErrSuperseded), errors.Is(err, ErrSuperseded):
		return OutcomeSuperseded
	case errors.Is(err, ErrAborted):
		return OutcomeAborted
	}
	return OutcomeFailed
}

// begin supersedes the active run, if any, and registers a new one.
func (o *Orchestrator) begin(ctx context.Context) (context.Context, *activeRun) {
	o.startMu.Lock()
	defer o.startMu.Unlock()

	o.mu.Lock()
	prev := o.active
	o.running++
	notify := o.running == 1
	o.mu.Unlock()
	if notify && o.onRunning != nil {
		o.onRunning(true)
	}

	if prev != nil {
		snapshot := o.target.Snapshot()
		prev.cancel(ErrSuperseded)
		<-prev.done
		o.target.Apply(snapshot)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	cur := &activeRun{cancel: cancel, done: make(chan struct{})}
	o.mu.Lock()
	o.active = cur
	o.mu.Unlock()
	return ctx, cur
}

func (o *Orchestrator) end(cur *activeRun) {
	cur.cancel(nil)
	o.mu.Lock()
	if o.active == cur {
		o.active = nil
	}
	o.running--
	idle := o.running == 0
	o.mu.Unlock()
	close(cur.done)
	if idle && o.onRunning != nil {
		o.onRunning(false)
	}
}

// Cancel supersedes the active run, if any, and waits for it to stop.
// The geometry at the time of the call is kept.
func (o *Orchestrator) Cancel() {
	o.startMu.Lock()
	defer o.startMu.Unlock()
	o.mu.Lock()
	prev := o.active
	o.mu.Unlock()
	if prev == nil {
		return
	}
	snapshot := o.target.Snapshot()
	prev.cancel(ErrSuperseded)
	<-prev.done
	o.target.Apply(snapshot)
}
