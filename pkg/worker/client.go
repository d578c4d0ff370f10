package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/supplychain/pkg/graph"
	"github.com/matzehuels/supplychain/pkg/layout"
	"github.com/matzehuels/supplychain/pkg/observability"
)

// ErrEmptyReply is returned when a worker replies without layout or error.
var ErrEmptyReply = errors.New("worker reply carries neither layout nor error")

// Client executes layout requests through a worker connection.
type Client struct {
	conn   Conn
	name   string
	logger *log.Logger

	mu sync.Mutex // one outstanding request; stale replies are drained by the next
}

// NewClient returns an executor that sends requests over conn. name is the
// algorithm name reported for metrics and cache keys.
func NewClient(conn Conn, name string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{conn: conn, name: name, logger: logger}
}

func (c *Client) Name() string { return c.name }

// Execute sends req and waits for its reply or ctx.
func (c *Client) Execute(ctx context.Context, req layout.Request) (graph.Layout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := uuid.NewString()
	hooks := observability.Worker()
	start := time.Now()

	hooks.OnRequest(ctx, token)
	if err := c.conn.Send(ctx, Request{Token: token, Request: req}); err != nil {
		return graph.Layout{}, err
	}
	c.logger.Debug("layout request sent", "token", token, "nodes", len(req.Graph.Nodes))

	for {
		resp, err := c.conn.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return graph.Layout{}, context.Cause(ctx)
			}
			return graph.Layout{}, err
		}
		if resp.Token != token {
			hooks.OnStaleReply(ctx, resp.Token)
			c.logger.Debug("stale layout reply dropped", "token", resp.Token)
			continue
		}

		var l graph.Layout
		switch {
		case resp.Aborted:
			err = layout.ErrAborted
		case resp.Error != "":
			err = errors.New(resp.Error)
		case resp.Layout == nil:
			err = ErrEmptyReply
		default:
			l = *resp.Layout
		}
		hooks.OnReply(ctx, token, time.Since(start), err)
		return l, err
	}
}

var _ layout.Executor = (*Client)(nil)
