package jsonrpc

import "context"

// RawHandler is the type-erased calling convention every registered method is
// stored under. The returned value must be JSON-serializable; the returned
// error is mapped into the protocol error object at the dispatch boundary.
type RawHandler[M any] func(ctx context.Context, req *Request, meta M) (interface{}, error)

// HandlerFunc is the strongly-typed shape of a method handler: it receives
// decoded params and the per-call metadata and returns a serializable result
// or an error.
type HandlerFunc[T, S, M any] func(ctx context.Context, params T, meta M) (S, error)

// ParamDecoder is the extraction capability hook. A params type whose pointer
// implements it takes over decoding from the envelope; otherwise params
// decode through Params.Decode. Either way, a failure surfaces as Invalid
// params.
type ParamDecoder interface {
	DecodeParams(ctx context.Context, req *Request) error
}

// NewHandler erases the param and result types of fn behind the uniform
// RawHandler signature. The adapter is built once at registration time; the
// dispatch path pays only an indirect call.
func NewHandler[T, S, M any](fn HandlerFunc[T, S, M]) RawHandler[M] {
	return func(ctx context.Context, req *Request, meta M) (interface{}, error) {
		var params T
		if pd, ok := any(&params).(ParamDecoder); ok {
			if err := pd.DecodeParams(ctx, req); err != nil {
				return nil, errInvalidParams()
			}
		} else if err := req.Params.Decode(&params); err != nil {
			return nil, errInvalidParams()
		}
		out, err := fn(ctx, params, meta)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}
