// Package middleware provides ready-made middlewares for jsonrpc servers:
// call logging and sealed metadata tokens.
package middleware

import (
	"context"
	"log"
	"time"

	"github.com/mnehpets/rpcserve/jsonrpc"
)

// Logger returns a middleware that logs every call passing through it:
// method, reply id, duration, and outcome. A nil logger uses the standard
// logger.
func Logger[M any](logger *log.Logger) jsonrpc.Middleware[M] {
	printf := log.Printf
	if logger != nil {
		printf = logger.Printf
	}
	return jsonrpc.MiddlewareFunc[M](func(ctx context.Context, req *jsonrpc.Request, meta M, next jsonrpc.Next[M]) (interface{}, error) {
		start := time.Now()
		out, err := next.Run(ctx, req, meta)
		if err != nil {
			printf("jsonrpc: %s id=%s failed after %s: %v", req.Method, req.ReplyID(), time.Since(start), err)
		} else {
			printf("jsonrpc: %s id=%s ok after %s", req.Method, req.ReplyID(), time.Since(start))
		}
		return out, err
	})
}
