package worker

import (
	"context"
	"sync"
)

// Pipe returns a connected in-process client and worker end.
func Pipe() (Conn, Listener) {
	p := &pipe{
		requests: make(chan Request),
		replies:  make(chan Response, 16),
		done:     make(chan struct{}),
	}
	return pipeConn{p}, pipeListener{p}
}

type pipe struct {
	requests chan Request
	replies  chan Response
	done     chan struct{}
	once     sync.Once
}

func (p *pipe) close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

type pipeConn struct{ p *pipe }

func (c pipeConn) Send(ctx context.Context, req Request) error {
	select {
	case c.p.requests <- req:
		return nil
	case <-c.p.done:
		return ErrClosed
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

func (c pipeConn) Receive(ctx context.Context) (Response, error) {
	select {
	case resp := <-c.p.replies:
		return resp, nil
	case <-c.p.done:
		return Response{}, ErrClosed
	case <-ctx.Done():
		return Response{}, context.Cause(ctx)
	}
}

func (c pipeConn) Close() error { return c.p.close() }

type pipeListener struct{ p *pipe }

func (l pipeListener) Accept(ctx context.Context) (Request, error) {
	select {
	case req := <-l.p.requests:
		return req, nil
	case <-l.p.done:
		return Request{}, ErrClosed
	case <-ctx.Done():
		return Request{}, context.Cause(ctx)
	}
}

func (l pipeListener) Reply(ctx context.Context, _ Request, resp Response) error {
	select {
	case l.p.replies <- resp:
		return nil
	case <-l.p.done:
		return ErrClosed
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

func (l pipeListener) Close() error { return l.p.close() }
