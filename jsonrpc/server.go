package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"sync"
)

// ServerBuilder accumulates method registrations. Global middlewares are
// fixed at construction and prepended to every route's own list, so the first
// global middleware is the outermost interceptor on every call.
type ServerBuilder[M any] struct {
	router        Router[M]
	middlewares   []Middleware[M]
	methods       []DocMethod
	notifications []DocNotification
}

// NewServer starts a builder with the default map router.
func NewServer[M any](middlewares ...Middleware[M]) *ServerBuilder[M] {
	return NewServerWithRouter[M](NewMapRouter[M](), middlewares...)
}

// NewServerWithRouter starts a builder over a caller-supplied router.
func NewServerWithRouter[M any](router Router[M], middlewares ...Middleware[M]) *ServerBuilder[M] {
	return &ServerBuilder[M]{router: router, middlewares: middlewares}
}

// Raw registers a pre-erased handler under name, overwriting any previous
// registration. Route middlewares run inside the global ones.
func (b *ServerBuilder[M]) Raw(name string, handler RawHandler[M], middlewares ...Middleware[M]) *ServerBuilder[M] {
	chain := make([]Middleware[M], 0, len(b.middlewares)+len(middlewares))
	chain = append(chain, b.middlewares...)
	chain = append(chain, middlewares...)
	b.router.Insert(name, &Route[M]{Handler: handler, Middlewares: chain})
	return b
}

// Method registers a typed handler under name.
//
// This is a free function rather than a builder method so the param and
// result types can be inferred per registration.
func Method[T, S, M any](b *ServerBuilder[M], name string, fn HandlerFunc[T, S, M]) *ServerBuilder[M] {
	return MethodWith(b, name, fn)
}

// MethodWith registers a typed handler with route-specific middlewares.
func MethodWith[T, S, M any](b *ServerBuilder[M], name string, fn HandlerFunc[T, S, M], middlewares ...Middleware[M]) *ServerBuilder[M] {
	b.methods = append(b.methods, DocMethod{
		Name:     name,
		Request:  schemaOf[T](),
		Response: schemaOf[S](),
	})
	return b.Raw(name, NewHandler(fn), middlewares...)
}

// Notification declares the params shape of a notification the server
// accepts. This only feeds the describe route; notifications dispatch like
// any other request.
func Notification[T, M any](b *ServerBuilder[M], name string) *ServerBuilder[M] {
	b.notifications = append(b.notifications, DocNotification{
		Name:   name,
		Params: schemaOf[T](),
	})
	return b
}

// Finish freezes the registry and returns the server. It also registers the
// rpc.describe introspection route. The builder must not be used afterwards;
// the server takes the router as-is and never mutates it, so dispatch reads
// it without locking.
func (b *ServerBuilder[M]) Finish() *Server[M] {
	b.addDescribeRoute()
	return &Server[M]{router: b.router}
}

// Server is the frozen dispatch engine.
type Server[M any] struct {
	router Router[M]
}

// Handle dispatches a single envelope.
func (s *Server[M]) Handle(ctx context.Context, req *Request, meta M) Responses {
	if resp := s.dispatch(ctx, req, meta); resp != nil {
		return oneResponse(resp)
	}
	return Responses{}
}

// HandleMany dispatches a batch of envelopes concurrently. Responses for
// notification members are dropped; if nothing remains the result is the
// no-body output. Ordering across members is not guaranteed.
func (s *Server[M]) HandleMany(ctx context.Context, reqs []*Request, meta M) Responses {
	kept := s.dispatchAll(ctx, reqs, meta)
	if len(kept) == 0 {
		return Responses{}
	}
	return manyResponses(kept)
}

// HandleBytes parses a raw payload and dispatches it. The first significant
// byte decides between the single and batch paths.
func (s *Server[M]) HandleBytes(ctx context.Context, body []byte, meta M) Responses {
	if trimmed := bytes.TrimLeft(body, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '[' {
		return s.handleBatchBytes(ctx, trimmed, meta)
	}

	if !json.Valid(body) {
		return oneResponse(newErrorResponse(errParse(), NullID))
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		// Well-formed JSON that is not a request envelope. No id could be
		// recovered, so the error is emitted with a null id rather than
		// suppressed.
		return oneResponse(newErrorResponse(errInvalidRequest(), NullID))
	}
	return s.Handle(ctx, &req, meta)
}

func (s *Server[M]) handleBatchBytes(ctx context.Context, body []byte, meta M) Responses {
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return oneResponse(newErrorResponse(errParse(), NullID))
	}
	if len(elems) == 0 {
		return oneResponse(newErrorResponse(errInvalidRequest(), NullID))
	}

	reqs := make([]*Request, 0, len(elems))
	var malformed []*Response
	for _, elem := range elems {
		var req Request
		if err := json.Unmarshal(elem, &req); err != nil {
			malformed = append(malformed, newErrorResponse(errInvalidRequest(), NullID))
			continue
		}
		reqs = append(reqs, &req)
	}

	kept := s.dispatchAll(ctx, reqs, meta)
	kept = append(kept, malformed...)
	if len(kept) == 0 {
		return Responses{}
	}
	return manyResponses(kept)
}

// dispatchAll runs every envelope as an independent concurrent call, waits
// for all of them, and drops the suppressed entries.
func (s *Server[M]) dispatchAll(ctx context.Context, reqs []*Request, meta M) []*Response {
	results := make([]*Response, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req *Request) {
			defer wg.Done()
			results[i] = s.dispatch(ctx, req, meta)
		}(i, req)
	}
	wg.Wait()

	kept := make([]*Response, 0, len(results))
	for _, resp := range results {
		if resp != nil {
			kept = append(kept, resp)
		}
	}
	return kept
}

// dispatch routes one envelope and returns its response, or nil when the
// resolved id says no reply is produced. The call itself still runs for
// notifications; only the response is discarded.
func (s *Server[M]) dispatch(ctx context.Context, req *Request, meta M) *Response {
	replyID := req.ReplyID()

	route, ok := s.router.Get(req.Method)
	if !ok {
		if replyID.IsNull() {
			return nil
		}
		return newErrorResponse(errMethodNotFound(), replyID)
	}

	result, err := s.run(ctx, route, req, meta)
	if replyID.IsNull() {
		return nil
	}
	if err != nil {
		return newErrorResponse(toError(err), replyID)
	}
	return newResult(result, replyID)
}

// run executes the middleware chain into the handler, recovering panics into
// the reserved Internal Error so no call can escape dispatch.
func (s *Server[M]) run(ctx context.Context, route *Route[M], req *Request, meta M) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("jsonrpc: panic in method %s: %v", req.Method, r)
			result = nil
			err = NewError(CodeInternalError, "Internal Error")
		}
	}()
	next := Next[M]{handler: route.Handler, rest: route.Middlewares}
	return next.Run(ctx, req, meta)
}
