// Package mediator dispatches command and query objects to their registered handler,
// running every call through a chain of pipeline behaviours.
package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"saas_admin/internal/platform/logger"
)

var ErrNoHandler = errors.New("mediator: no handler registered")

// Handler serves exactly one request type.
type Handler[Req any, Res any] interface {
	Handle(ctx context.Context, req Req) (Res, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[Req any, Res any] func(ctx context.Context, req Req) (Res, error)

func (f HandlerFunc[Req, Res]) Handle(ctx context.Context, req Req) (Res, error) { return f(ctx, req) }

// Next invokes the rest of the pipeline.
type Next func(ctx context.Context) (any, error)

// Behavior wraps every dispatch. It must call next to continue.
type Behavior func(ctx context.Context, name string, req any, next Next) (any, error)

type invoker func(ctx context.Context, req any) (any, error)

type Mediator struct {
	mu        sync.RWMutex
	handlers  map[reflect.Type]invoker
	behaviors []Behavior
}

func New(behaviors ...Behavior) *Mediator {
	return &Mediator{handlers: map[reflect.Type]invoker{}, behaviors: behaviors}
}

// Register binds h to the request type Req. Registering a type twice panics.
func Register[Req any, Res any](m *Mediator, h Handler[Req, Res]) {
	t := reflect.TypeOf((*Req)(nil)).Elem()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.handlers[t]; dup {
		panic(fmt.Sprintf("mediator: handler for %s already registered", t))
	}
	m.handlers[t] = func(ctx context.Context, req any) (any, error) {
		return h.Handle(ctx, req.(Req))
	}
}

// Send dispatches req and asserts the handler's result to Res.
func Send[Res any](ctx context.Context, m *Mediator, req any) (Res, error) {
	var zero Res
	out, err := m.dispatch(ctx, req)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	res, ok := out.(Res)
	if !ok {
		return zero, fmt.Errorf("mediator: %T returned %T, want %s", req, out, reflect.TypeOf((*Res)(nil)).Elem())
	}
	return res, nil
}

func (m *Mediator) dispatch(ctx context.Context, req any) (any, error) {
	t := reflect.TypeOf(req)
	m.mu.RLock()
	h, ok := m.handlers[t]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w for %v", ErrNoHandler, t)
	}
	name := requestName(t)

	next := func(ctx context.Context) (any, error) { return h(ctx, req) }
	for i := len(m.behaviors) - 1; i >= 0; i-- {
		b, inner := m.behaviors[i], next
		next = func(ctx context.Context) (any, error) { return b(ctx, name, req, inner) }
	}
	return next(ctx)
}

func requestName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Cancellation stops dispatch when the caller has already gone away.
func Cancellation() Behavior {
	return func(ctx context.Context, name string, req any, next Next) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return next(ctx)
	}
}

// Logging records every request with its duration and outcome.
func Logging(log *logger.Logger) Behavior {
	log = log.With("component", "Mediator")
	return func(ctx context.Context, name string, req any, next Next) (any, error) {
		start := time.Now()
		out, err := next(ctx)
		ms := time.Since(start).Milliseconds()
		if err != nil {
			log.Warn("request failed", "request", name, "duration_ms", ms, "error", err)
			return out, err
		}
		log.Debug("request handled", "request", name, "duration_ms", ms)
		return out, nil
	}
}
