package jsonrpc

import (
	"context"
	"testing"
)

// recordStep returns a middleware that appends name to trace and delegates.
func recordStep(trace *[]string, name string) Middleware[testMeta] {
	return MiddlewareFunc[testMeta](func(ctx context.Context, req *Request, meta testMeta, next Next[testMeta]) (interface{}, error) {
		*trace = append(*trace, name)
		out, err := next.Run(ctx, req, meta)
		*trace = append(*trace, name+"-out")
		return out, err
	})
}

func TestMiddlewareOrdering(t *testing.T) {
	var trace []string

	b := NewServer[testMeta](recordStep(&trace, "A"), recordStep(&trace, "B"))
	MethodWith(b, "ping", func(ctx context.Context, _ struct{}, _ testMeta) (string, error) {
		trace = append(trace, "handler")
		return "pong", nil
	}, recordStep(&trace, "C"))
	srv := b.Finish()

	out := srv.HandleBytes(context.Background(), []byte(`{"jsonrpc":"2.0","method":"ping","id":1}`), testMeta{})
	if _, ok := out.Single(); !ok {
		t.Fatalf("expected a single response, got %+v", out)
	}

	want := []string{"A", "B", "C", "handler", "C-out", "B-out", "A-out"}
	if len(trace) != len(want) {
		t.Fatalf("got trace %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("got trace %v, want %v", trace, want)
		}
	}
}

func TestMiddlewareShortCircuit(t *testing.T) {
	var trace []string

	block := MiddlewareFunc[testMeta](func(ctx context.Context, req *Request, meta testMeta, next Next[testMeta]) (interface{}, error) {
		trace = append(trace, "B")
		return nil, NewError(-32000, "not today")
	})

	b := NewServer[testMeta](recordStep(&trace, "A"), block)
	MethodWith(b, "ping", func(ctx context.Context, _ struct{}, _ testMeta) (string, error) {
		trace = append(trace, "handler")
		return "pong", nil
	}, recordStep(&trace, "C"))
	srv := b.Finish()

	out := srv.HandleBytes(context.Background(), []byte(`{"jsonrpc":"2.0","method":"ping","id":1}`), testMeta{})
	resp := singleResponse(t, out)
	errObj := resp["error"].(map[string]interface{})
	if int64(errObj["code"].(float64)) != -32000 {
		t.Errorf("got code %v, want -32000", errObj["code"])
	}

	for _, step := range trace {
		if step == "C" || step == "handler" {
			t.Errorf("chain ran past the short-circuit: %v", trace)
		}
	}
}

func TestMiddlewareCanReplaceResult(t *testing.T) {
	uppercase := MiddlewareFunc[testMeta](func(ctx context.Context, req *Request, meta testMeta, next Next[testMeta]) (interface{}, error) {
		out, err := next.Run(ctx, req, meta)
		if err != nil {
			return nil, err
		}
		if s, ok := out.(string); ok {
			return s + "!", nil
		}
		return out, nil
	})

	b := NewServer[testMeta](uppercase)
	Method(b, "ping", func(ctx context.Context, _ struct{}, _ testMeta) (string, error) {
		return "pong", nil
	})
	srv := b.Finish()

	out := srv.HandleBytes(context.Background(), []byte(`{"jsonrpc":"2.0","method":"ping","id":1}`), testMeta{})
	resp := singleResponse(t, out)
	if resp["result"] != "pong!" {
		t.Errorf("got result %v, want pong!", resp["result"])
	}
}

func TestTransformRewritesEnvelopeAndMetadata(t *testing.T) {
	stamp := Transform(func(ctx context.Context, req *Request, meta testMeta) (*Request, testMeta, error) {
		meta.User = "stamped:" + meta.User
		rewritten := NewRequest(req.Method).Params(addParams{A: 40, B: 2}).Build()
		rewritten.ID = req.ID
		return rewritten, meta, nil
	})

	b := NewServer[testMeta](stamp)
	Method(b, "math.add", func(ctx context.Context, p addParams, meta testMeta) (map[string]interface{}, error) {
		return map[string]interface{}{"sum": p.A + p.B, "user": meta.User}, nil
	})
	srv := b.Finish()

	out := srv.HandleBytes(context.Background(), []byte(`{"jsonrpc":"2.0","method":"math.add","params":{"a":1,"b":1},"id":1}`), testMeta{User: "dave"})
	resp := singleResponse(t, out)
	result := resp["result"].(map[string]interface{})
	if result["sum"].(float64) != 42 {
		t.Errorf("got sum %v, want 42", result["sum"])
	}
	if result["user"] != "stamped:dave" {
		t.Errorf("got user %v, want stamped:dave", result["user"])
	}
}

func TestTransformShortCircuit(t *testing.T) {
	deny := Transform(func(ctx context.Context, req *Request, meta testMeta) (*Request, testMeta, error) {
		return nil, meta, NewError(-32001, "denied")
	})

	b := NewServer[testMeta]()
	MethodWith(b, "ping", func(ctx context.Context, _ struct{}, _ testMeta) (string, error) {
		t.Error("handler should not run")
		return "pong", nil
	}, deny)
	srv := b.Finish()

	out := srv.HandleBytes(context.Background(), []byte(`{"jsonrpc":"2.0","method":"ping","id":1}`), testMeta{})
	resp := singleResponse(t, out)
	errObj := resp["error"].(map[string]interface{})
	if int64(errObj["code"].(float64)) != -32001 {
		t.Errorf("got code %v, want -32001", errObj["code"])
	}
}

func TestMiddlewarePanicRecovered(t *testing.T) {
	angry := MiddlewareFunc[testMeta](func(ctx context.Context, req *Request, meta testMeta, next Next[testMeta]) (interface{}, error) {
		panic("middleware tantrum")
	})

	b := NewServer[testMeta](angry)
	Method(b, "ping", func(ctx context.Context, _ struct{}, _ testMeta) (string, error) {
		return "pong", nil
	})
	srv := b.Finish()

	out := srv.HandleBytes(context.Background(), []byte(`{"jsonrpc":"2.0","method":"ping","id":1}`), testMeta{})
	resp := singleResponse(t, out)
	errObj := resp["error"].(map[string]interface{})
	if int64(errObj["code"].(float64)) != CodeInternalError {
		t.Errorf("got code %v, want %d", errObj["code"], CodeInternalError)
	}
}
