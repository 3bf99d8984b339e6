package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/joho/godotenv"

	"github.com/mnehpets/rpcserve/auth"
	"github.com/mnehpets/rpcserve/jsonrpc"
)

// callMeta carries the bearer token from the HTTP layer and the verified
// identity filled in by the auth middleware.
type callMeta struct {
	Bearer  string
	Subject string
	Email   string
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	issuer := os.Getenv("OIDC_ISSUER")
	clientID := os.Getenv("OAUTH_CLIENT_ID")
	clientSecret := os.Getenv("OAUTH_CLIENT_SECRET")
	if issuer == "" || clientID == "" {
		log.Fatal("OIDC_ISSUER and OAUTH_CLIENT_ID must be set")
	}

	ctx := context.Background()
	registry := auth.NewRegistry()
	err := registry.RegisterOIDCProvider(ctx,
		"main",
		issuer,
		clientID,
		clientSecret,
		[]string{oidc.ScopeOpenID, "profile", "email"},
	)
	if err != nil {
		log.Fatalf("Failed to register OIDC provider: %v", err)
	}
	provider, _ := registry.Get("main")

	require := auth.Require(provider.Verifier(),
		func(m callMeta) string { return m.Bearer },
		func(m callMeta, tok *oidc.IDToken) (callMeta, error) {
			var extra struct {
				Email string `json:"email"`
			}
			if err := tok.Claims(&extra); err != nil {
				return m, err
			}
			m.Subject = tok.Subject
			m.Email = extra.Email
			return m, nil
		})

	b := jsonrpc.NewServer[callMeta](require)
	jsonrpc.Method(b, "whoami", func(ctx context.Context, _ struct{}, meta callMeta) (map[string]string, error) {
		return map[string]string{"subject": meta.Subject, "email": meta.Email}, nil
	})
	srv := b.Finish()

	http.Handle("/rpc", srv.HTTPHandler(func(r *http.Request) callMeta {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		return callMeta{Bearer: token}
	}))

	log.Println("Listening on :8080")
	log.Fatal(http.ListenAndServe(":8080", nil))
}
