// Package jsonrpc is a JSON-RPC 2.0 dispatch engine: it resolves a parsed or
// raw request payload to a registered method, runs the call through a
// middleware chain, and produces a protocol-conformant response, including
// the batching and notification-suppression rules of the specification
// (https://www.jsonrpc.org/specification).
//
// Transport is out of scope: a transport layer feeds bytes (or envelopes) in
// and writes the produced Responses out. A thin HTTP binding is provided via
// Server.HTTPHandler for convenience.
//
// # Basic Usage
//
// Handlers are plain typed functions. Registration erases the concrete
// param and result types behind a uniform calling convention:
//
//	type AddParams struct {
//	    A int `json:"a"`
//	    B int `json:"b"`
//	}
//
//	builder := jsonrpc.NewServer[jsonrpc.NoMeta]()
//	jsonrpc.Method(builder, "math.add", func(ctx context.Context, p AddParams, _ jsonrpc.NoMeta) (int, error) {
//	    return p.A + p.B, nil
//	})
//	srv := builder.Finish()
//
//	out := srv.HandleBytes(ctx, body, jsonrpc.NoMeta{})
//
// Params decode from by-name objects or by-position arrays; a params type
// can take over decoding by implementing ParamDecoder.
//
// # Metadata
//
// Every server is generic over a per-call metadata type M, an opaque value
// the transport supplies per request or batch. It is passed by value to
// every handler and middleware of that call, shared read-only across
// concurrent batch members. Use NoMeta when there is nothing to carry.
//
// # Middleware
//
// Middlewares wrap a call before it reaches its handler. Each receives a
// Next continuation and decides whether to delegate:
//
//	logging := jsonrpc.MiddlewareFunc[Meta](func(ctx context.Context, req *jsonrpc.Request, meta Meta, next jsonrpc.Next[Meta]) (interface{}, error) {
//	    log.Printf("-> %s", req.Method)
//	    return next.Run(ctx, req, meta)
//	})
//
// Middlewares passed to NewServer are global and run outermost, in the order
// given, before any route-specific middlewares.
//
// # Errors
//
// Handlers may return *Error directly, implement ErrorLike on their own
// error types, or return any error, which is wrapped in the reserved
// Internal Error with its text in the data field. The five reserved
// code/message pairs are never produced by domain code.
//
// # Notifications
//
// A request without an id field never produces a response, success or
// failure. A request with an explicit null id is treated the same way; see
// Request.ReplyID.
package jsonrpc

// NoMeta is the metadata type for servers that carry no per-call context.
type NoMeta struct{}
