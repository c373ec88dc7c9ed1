// Package cmd provides a transport-agnostic command core: an ordered registry
// keyed by name, and a middleware chain around a handler. How commands are
// parsed and what an invocation carries is defined by the caller.
package cmd

import "context"

// Handler runs one invocation.
type Handler[I any] func(ctx context.Context, inv I) error

// Middleware wraps a handler (e.g. logging, permission check, metrics).
type Middleware[I any] func(Handler[I]) Handler[I]

// Apply applies middlewares in order; the first in the list is the outermost.
func Apply[I any](h Handler[I], mws ...Middleware[I]) Handler[I] {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
