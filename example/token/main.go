package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"
	"strings"

	"github.com/mnehpets/rpcserve/jsonrpc"
	"github.com/mnehpets/rpcserve/middleware"
)

// callMeta carries the raw bearer token in and the unsealed identity out.
type callMeta struct {
	Token string
	User  string
}

type claims struct {
	User string `cbor:"user"`
}

func main() {
	// For example purposes the key is random per process. In production it
	// must be persisted so tokens survive restarts.
	key := make([]byte, middleware.DefaultAEADKeysize)
	if _, err := rand.Read(key); err != nil {
		log.Fatal(err)
	}
	codec, err := middleware.NewTokenCodec("key1", map[string][]byte{"key1": key})
	if err != nil {
		log.Fatal(err)
	}

	unseal := middleware.Unseal(codec,
		func(m callMeta) string { return m.Token },
		func(m callMeta, c claims) callMeta {
			m.User = c.User
			return m
		})

	b := jsonrpc.NewServer[callMeta](middleware.Logger[callMeta](nil))

	// login is open: it exchanges a username for a sealed token.
	jsonrpc.Method(b, "login", func(ctx context.Context, args struct {
		User string `json:"user"`
	}, _ callMeta) (string, error) {
		return codec.Seal(claims{User: args.User})
	})

	// whoami requires a valid token; Unseal rejects the call otherwise.
	jsonrpc.MethodWith(b, "whoami", func(ctx context.Context, _ struct{}, meta callMeta) (string, error) {
		return meta.User, nil
	}, unseal)

	srv := b.Finish()
	http.Handle("/rpc", srv.HTTPHandler(func(r *http.Request) callMeta {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		return callMeta{Token: token}
	}))

	log.Println("Starting server on :8080")
	log.Fatal(http.ListenAndServe(":8080", nil))
}
