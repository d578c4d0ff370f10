package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matzehuels/supplychain/pkg/graph"
	"github.com/matzehuels/supplychain/pkg/layout"
)

var (
	// ErrClosed is returned by transports after Close.
	ErrClosed = errors.New("worker transport closed")

	// ErrMalformed is returned for messages that cannot be decoded.
	ErrMalformed = errors.New("malformed worker message")
)

// Request is a layout request on the wire.
type Request struct {
	Token   string         `json:"token"`
	ReplyTo string         `json:"reply_to,omitempty"`
	Request layout.Request `json:"request"`
}

// Response is the reply to a [Request]. Exactly one of Layout and Error is
// set; Aborted marks a budget overrun.
type Response struct {
	Token   string        `json:"token"`
	Layout  *graph.Layout `json:"layout,omitempty"`
	Error   string        `json:"error,omitempty"`
	Aborted bool          `json:"aborted,omitempty"`
}

// Conn is the client end of a transport.
type Conn interface {
	Send(ctx context.Context, req Request) error
	Receive(ctx context.Context) (Response, error)
	Close() error
}

// Listener is the worker end of a transport.
type Listener interface {
	Accept(ctx context.Context) (Request, error)
	Reply(ctx context.Context, to Request, resp Response) error
	Close() error
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

func decodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("%w: request: %v", ErrMalformed, err)
	}
	return req, nil
}

func decodeResponse(data []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("%w: response: %v", ErrMalformed, err)
	}
	return resp, nil
}
