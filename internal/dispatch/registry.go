package dispatch

import (
	"context"

	"github.com/af-corp/bfhl-gateway/internal/types"
)

// Handler validates the raw value bound to an operation's key and computes
// its result.
type Handler func(ctx context.Context, raw any) (any, error)

// Bind joins a pure validator with the computation it feeds.
func Bind[T any](validate func(any) (T, error), compute func(context.Context, T) (any, error)) Handler {
	return func(ctx context.Context, raw any) (any, error) {
		v, err := validate(raw)
		if err != nil {
			return nil, err
		}
		return compute(ctx, v)
	}
}

// Registry maps operations to their handlers. It is filled once at
// construction and read concurrently afterwards.
type Registry struct {
	handlers map[types.Operation]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[types.Operation]Handler)}
}

func (r *Registry) Register(op types.Operation, h Handler) {
	r.handlers[op] = h
}

func (r *Registry) Get(op types.Operation) (Handler, bool) {
	h, ok := r.handlers[op]
	return h, ok
}
