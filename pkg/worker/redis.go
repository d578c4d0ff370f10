package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Defaults for the Redis transport.
const (
	DefaultRedisPrefix = "supplychain:layout:"
	DefaultPollTimeout = time.Second
)

// redisCmds is the subset of the go-redis API the transport uses.
type redisCmds interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

func requestsKey(prefix string) string { return prefix + "requests" }

// RedisConn is the client end of the Redis transport. Requests go onto a
// shared list; replies come back on a channel private to this client.
type RedisConn struct {
	rdb     redisCmds
	prefix  string
	replyTo string
	msgs    <-chan *redis.Message
	close   func() error
}

// NewRedisConn subscribes to a fresh reply channel. An empty prefix selects
// DefaultRedisPrefix.
func NewRedisConn(ctx context.Context, rdb *redis.Client, prefix string) (*RedisConn, error) {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	replyTo := prefix + "replies:" + uuid.NewString()
	sub := rdb.Subscribe(ctx, replyTo)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}
	return &RedisConn{
		rdb:     rdb,
		prefix:  prefix,
		replyTo: replyTo,
		msgs:    sub.Channel(),
		close:   sub.Close,
	}, nil
}

// Send pushes req onto the request list.
func (c *RedisConn) Send(ctx context.Context, req Request) error {
	req.ReplyTo = c.replyTo
	data, err := encode(req)
	if err != nil {
		return err
	}
	return c.rdb.LPush(ctx, requestsKey(c.prefix), data).Err()
}

// Receive waits for the next reply on this client's channel.
func (c *RedisConn) Receive(ctx context.Context) (Response, error) {
	select {
	case msg, ok := <-c.msgs:
		if !ok {
			return Response{}, ErrClosed
		}
		return decodeResponse([]byte(msg.Payload))
	case <-ctx.Done():
		return Response{}, context.Cause(ctx)
	}
}

// Close unsubscribes from the reply channel.
func (c *RedisConn) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// RedisListener is the worker end of the Redis transport.
type RedisListener struct {
	rdb    redisCmds
	prefix string
	poll   time.Duration
	done   chan struct{}
	once   sync.Once
}

// NewRedisListener consumes requests under prefix. An empty prefix selects
// DefaultRedisPrefix.
func NewRedisListener(rdb *redis.Client, prefix string) *RedisListener {
	return newRedisListener(rdb, prefix)
}

func newRedisListener(rdb redisCmds, prefix string) *RedisListener {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisListener{rdb: rdb, prefix: prefix, poll: DefaultPollTimeout, done: make(chan struct{})}
}

// Accept blocks until a request arrives. BRPOP runs with a short timeout so
// that ctx and Close are observed between polls.
func (l *RedisListener) Accept(ctx context.Context) (Request, error) {
	for {
		select {
		case <-l.done:
			return Request{}, ErrClosed
		case <-ctx.Done():
			return Request{}, context.Cause(ctx)
		default:
		}
		res, err := l.rdb.BRPop(ctx, l.poll, requestsKey(l.prefix)).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Request{}, context.Cause(ctx)
			}
			return Request{}, err
		}
		if len(res) < 2 {
			continue
		}
		return decodeRequest([]byte(res[1]))
	}
}

// Reply publishes resp to the requesting client's channel.
func (l *RedisListener) Reply(ctx context.Context, to Request, resp Response) error {
	if to.ReplyTo == "" {
		return nil
	}
	data, err := encode(resp)
	if err != nil {
		return err
	}
	return l.rdb.Publish(ctx, to.ReplyTo, data).Err()
}

// Close stops Accept.
func (l *RedisListener) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

var (
	_ Conn     = (*RedisConn)(nil)
	_ Listener = (*RedisListener)(nil)
)
