package delegate

import (
	"context"
	"sync"
)

// clientKey identifies the settings an SDK client is bound to.
type clientKey struct {
	apiKey  string
	baseURL string
}

type cachedClient[T any] struct {
	key    clientKey
	client T
	refs   int
	stale  bool
}

// clientCache holds one SDK client for the current credential and endpoint.
// A rotated credential replaces it; the old client is closed once the last
// in-flight call using it has released it.
type clientCache[T any] struct {
	mu    sync.Mutex
	cur   *cachedClient[T]
	dial  func(ctx context.Context, key clientKey) (T, error)
	close func(T)
}

func newClientCache[T any](dial func(context.Context, clientKey) (T, error), closeFn func(T)) *clientCache[T] {
	return &clientCache[T]{dial: dial, close: closeFn}
}

// get returns the client for key and a release func the caller must invoke
// when the call finishes.
func (c *clientCache[T]) get(ctx context.Context, key clientKey) (T, func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur == nil || c.cur.key != key {
		// The client outlives this request.
		client, err := c.dial(context.WithoutCancel(ctx), key)
		if err != nil {
			var zero T
			return zero, nil, err
		}
		if old := c.cur; old != nil {
			old.stale = true
			c.closeIfIdle(old)
		}
		c.cur = &cachedClient[T]{key: key, client: client}
	}

	e := c.cur
	e.refs++
	return e.client, func() { c.release(e) }, nil
}

func (c *clientCache[T]) release(e *cachedClient[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.refs--
	c.closeIfIdle(e)
}

// closeIfIdle must be called with mu held.
func (c *clientCache[T]) closeIfIdle(e *cachedClient[T]) {
	if e.stale && e.refs == 0 && c.close != nil {
		c.close(e.client)
	}
}
