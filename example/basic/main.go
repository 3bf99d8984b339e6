package main

import (
	"context"
	"log"
	"net/http"

	"github.com/mnehpets/rpcserve/jsonrpc"
)

type subArgs struct {
	A int `json:"a"`
	B int `json:"b"`
}

func main() {
	b := jsonrpc.NewServer[jsonrpc.NoMeta]()

	// Positional params: call with {"params": [2, 3]}.
	jsonrpc.Method(b, "math.add", func(ctx context.Context, args struct{ A, B int }, _ jsonrpc.NoMeta) (int, error) {
		return args.A + args.B, nil
	})

	// Named params: call with {"params": {"a": 5, "b": 3}}.
	jsonrpc.Method(b, "math.sub", func(ctx context.Context, args subArgs, _ jsonrpc.NoMeta) (int, error) {
		return args.A - args.B, nil
	})

	// Fire-and-forget: send without an id and no response body comes back.
	jsonrpc.Method(b, "log", func(ctx context.Context, msg string, _ jsonrpc.NoMeta) (struct{}, error) {
		log.Printf("client says: %s", msg)
		return struct{}{}, nil
	})
	jsonrpc.Notification[string](b, "log")

	srv := b.Finish()
	http.Handle("/rpc", srv.HTTPHandler(nil))

	log.Println("Starting server on :8080")
	log.Fatal(http.ListenAndServe(":8080", nil))
}
