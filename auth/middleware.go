package auth

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/mnehpets/rpcserve/jsonrpc"
)

// CodeUnauthorized is the error code returned when a call carries no valid
// bearer token.
const CodeUnauthorized int64 = -32001

// Require returns a middleware that verifies the bearer token carried in the
// call metadata against verifier before the call proceeds.
//
// token extracts the raw bearer token from the metadata; an empty result
// short-circuits the chain. apply, if non-nil, merges the verified identity
// back into the metadata seen by downstream middlewares and the handler; an
// error from apply fails the call (this is where application-level claims
// checks belong).
func Require[M any](verifier *oidc.IDTokenVerifier, token func(M) string, apply func(M, *oidc.IDToken) (M, error)) jsonrpc.Middleware[M] {
	return jsonrpc.MiddlewareFunc[M](func(ctx context.Context, req *jsonrpc.Request, meta M, next jsonrpc.Next[M]) (interface{}, error) {
		raw := token(meta)
		if raw == "" {
			return nil, jsonrpc.NewError(CodeUnauthorized, "bearer token required")
		}
		idToken, err := verifier.Verify(ctx, raw)
		if err != nil {
			return nil, jsonrpc.NewError(CodeUnauthorized, "invalid bearer token")
		}
		if apply != nil {
			meta, err = apply(meta, idToken)
			if err != nil {
				return nil, err
			}
		}
		return next.Run(ctx, req, meta)
	})
}
