// Package worker runs layout requests out of process.
//
// A [Client] implements [layout.Executor]: it tags each request with a fresh
// correlation token, hands it to a [Conn], and waits for the reply carrying
// that token. Replies for any other token belong to runs that were
// superseded or abandoned and are dropped. [Serve] is the other end: it
// accepts requests from a [Listener], runs the algorithm (optionally through
// a result cache), and replies.
//
// # Transports
//
// [Pipe] connects a client and a worker in the same process with channels,
// which is handy for tests and for keeping layout off the UI goroutine.
// [RedisConn] and [RedisListener] use Redis: requests are pushed onto a list
// consumed with BRPOP by any number of workers, and replies are published to
// a per-client channel.
//
// # Wire Format
//
// Requests and responses are JSON:
//
//	{"token": "...", "reply_to": "...", "request": {"graph": ..., "options": ..., "constraints": ...}}
//	{"token": "...", "layout": {"nodes": ..., "edges": ...}}
//	{"token": "...", "error": "...", "aborted": true}
package worker
