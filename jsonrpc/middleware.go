package jsonrpc

import "context"

// Middleware intercepts a call on its way to the handler.
//
// Protocol:
//   - A middleware MUST call next.Run at most once: calling it proceeds down
//     the chain, not calling it short-circuits the call with whatever the
//     middleware returns.
//   - The envelope and metadata passed to next.Run are what the rest of the
//     chain sees; a middleware may substitute either.
type Middleware[M any] interface {
	Handle(ctx context.Context, req *Request, meta M, next Next[M]) (interface{}, error)
}

// MiddlewareFunc adapts a function to a Middleware.
type MiddlewareFunc[M any] func(ctx context.Context, req *Request, meta M, next Next[M]) (interface{}, error)

func (f MiddlewareFunc[M]) Handle(ctx context.Context, req *Request, meta M, next Next[M]) (interface{}, error) {
	return f(ctx, req, meta, next)
}

// Next is the continuation handed to each middleware: the remaining
// interceptors plus the terminal handler. It is a value; running it consumes
// this middleware's position and hands the suffix to the next one.
type Next[M any] struct {
	handler RawHandler[M]
	rest    []Middleware[M]
}

// Run invokes the rest of the chain.
func (n Next[M]) Run(ctx context.Context, req *Request, meta M) (interface{}, error) {
	if len(n.rest) > 0 {
		current := n.rest[0]
		n.rest = n.rest[1:]
		return current.Handle(ctx, req, meta, n)
	}
	return n.handler(ctx, req, meta)
}

// Transform lifts a single-step rewrite of the envelope and metadata into a
// Middleware that applies the rewrite and delegates. Returning an error
// short-circuits the chain.
func Transform[M any](fn func(ctx context.Context, req *Request, meta M) (*Request, M, error)) Middleware[M] {
	return MiddlewareFunc[M](func(ctx context.Context, req *Request, meta M, next Next[M]) (interface{}, error) {
		req, meta, err := fn(ctx, req, meta)
		if err != nil {
			return nil, err
		}
		return next.Run(ctx, req, meta)
	})
}
