// Package dispatch turns a decoded request body into exactly one operation
// and runs it.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/af-corp/bfhl-gateway/internal/delegate"
	"github.com/af-corp/bfhl-gateway/internal/filter"
	"github.com/af-corp/bfhl-gateway/internal/numeric"
	"github.com/af-corp/bfhl-gateway/internal/types"
)

const (
	msgNotObject = "Request body must be a JSON object"
	msgKeyCount  = "Exactly one key is required"
	msgBadKey    = "Invalid key"
)

// Dispatcher resolves and executes operations.
type Dispatcher struct {
	registry *Registry
	answerer delegate.Answerer
	screen   *filter.Screen
}

// NewDispatcher wires every operation. screen may be nil.
func NewDispatcher(answerer delegate.Answerer, screen *filter.Screen) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		answerer: answerer,
		screen:   screen,
	}

	d.registry.Register(types.OpFibonacci, Bind(validateFibonacci, func(_ context.Context, n int) (any, error) {
		return numeric.Fibonacci(n), nil
	}))
	d.registry.Register(types.OpPrime, Bind(listValidator(types.OpPrime), func(_ context.Context, xs []int64) (any, error) {
		return numeric.FilterPrimes(xs), nil
	}))
	d.registry.Register(types.OpLCM, Bind(listValidator(types.OpLCM), func(_ context.Context, xs []int64) (any, error) {
		return numeric.LCMOf(xs), nil
	}))
	d.registry.Register(types.OpHCF, Bind(listValidator(types.OpHCF), func(_ context.Context, xs []int64) (any, error) {
		return numeric.HCFOf(xs), nil
	}))
	d.registry.Register(types.OpAI, Bind(validateQuestion, d.answer))
	return d
}

// Dispatch runs the single operation named by body. The resolved operation is
// returned even when validation or computation fails; it is empty when the
// body never got that far. Every failure is a *types.Error.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) (types.Operation, any, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return "", nil, err
	}

	if len(fields) != 1 {
		return "", nil, types.NewKeyError(msgKeyCount)
	}
	var key string
	var raw any
	for k, v := range fields {
		key, raw = k, v
	}

	op, ok := types.ParseOperation(key)
	if !ok {
		return "", nil, types.NewKeyError(msgBadKey)
	}
	h, ok := d.registry.Get(op)
	if !ok {
		return op, nil, types.NewKeyError(msgBadKey)
	}

	data, err := h(ctx, raw)
	if err != nil {
		var te *types.Error
		if !errors.As(err, &te) {
			err = types.NewInternalError(types.MessageOf(err), err)
		}
		return op, nil, err
	}
	return op, data, nil
}

// decodeObject parses body as a single JSON object, keeping numbers as
// json.Number. An empty body is an empty object.
func decodeObject(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, types.NewShapeError(err.Error())
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, types.NewShapeError("invalid character after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, types.NewShapeError(msgNotObject)
	}
	return obj, nil
}

func (d *Dispatcher) answer(ctx context.Context, question string) (any, error) {
	if d.screen != nil {
		if err := d.screen.Question(ctx, question); err != nil {
			return nil, err
		}
	}

	if d.answerer == nil {
		return nil, types.NewInternalError("AI delegate is not available", nil)
	}
	return d.answerer.Answer(ctx, question)
}
