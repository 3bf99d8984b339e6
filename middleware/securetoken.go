package middleware

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/mnehpets/rpcserve/jsonrpc"
)

var (
	ErrTokenFormat  = errors.New("invalid token format")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenConfig  = errors.New("invalid token codec configuration")
)

// Error codes used by the token middleware. They sit in the
// implementation-defined -32000..-32099 band.
const (
	CodeTokenRequired int64 = -32001
	CodeTokenInvalid  int64 = -32002
)

// maxTokenLen bounds the amount of attacker-controlled data we will
// decode/allocate for a token value.
const maxTokenLen = 8192

// DefaultAEADKeysize is the key size (in bytes) expected by the default
// AEAD implementation (chacha20poly1305).
const DefaultAEADKeysize = chacha20poly1305.KeySize

// TokenCodec seals claims into opaque string tokens a transport can hand to
// clients and later present back in call metadata.
//
// Format: [keyID] "." [sealed_b64]
// where sealed = nonce || AEAD.Seal(nil, nonce, payload, label)
// and the payload is the CBOR encoding of the claims.
// Key rotation: keys holds all accepted keys; keyID selects the current
// sealing key. The nonce is randomly generated per token.
type TokenCodec struct {
	keyID string
	keys  map[string][]byte
	label []byte

	marshal   func(interface{}) ([]byte, error)
	unmarshal func([]byte, interface{}) error
	newAEAD   func([]byte) (cipher.AEAD, error)
}

// TokenOption configures the TokenCodec.
type TokenOption func(*TokenCodec)

// WithTokenAEAD configures a custom AEAD factory (e.g. AES-GCM).
func WithTokenAEAD(f func([]byte) (cipher.AEAD, error)) TokenOption {
	return func(c *TokenCodec) {
		c.newAEAD = f
	}
}

// WithTokenMarshal configures custom claim marshal/unmarshal functions.
func WithTokenMarshal(marshal func(interface{}) ([]byte, error), unmarshal func([]byte, interface{}) error) TokenOption {
	return func(c *TokenCodec) {
		c.marshal = marshal
		c.unmarshal = unmarshal
	}
}

// WithTokenLabel binds tokens to a context label; a token sealed under one
// label will not open under another.
func WithTokenLabel(label string) TokenOption {
	return func(c *TokenCodec) {
		c.label = []byte(label)
	}
}

// NewTokenCodec creates a codec using XChaCha20-Poly1305 and CBOR encoding
// by default. keys maps key ids to accepted keys; keyID selects the current
// sealing key.
func NewTokenCodec(keyID string, keys map[string][]byte, opts ...TokenOption) (*TokenCodec, error) {
	if keys == nil {
		return nil, errors.New("keys must not be nil")
	}
	if _, ok := keys[keyID]; !ok {
		return nil, errors.New("keyID not found in keys")
	}

	c := &TokenCodec{
		keyID:     keyID,
		keys:      keys,
		label:     []byte("rpcserve-token"),
		marshal:   cbor.Marshal,
		unmarshal: cbor.Unmarshal,
		newAEAD:   chacha20poly1305.NewX,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Validate keys up front.
	for id, k := range c.keys {
		if _, err := c.newAEAD(k); err != nil {
			return nil, fmt.Errorf("invalid key %s: %w", id, err)
		}
	}
	return c, nil
}

// Seal marshals and encrypts claims into a token string.
func (c *TokenCodec) Seal(claims interface{}) (string, error) {
	if c == nil || c.marshal == nil {
		return "", ErrTokenConfig
	}
	key, ok := c.keys[c.keyID]
	if !ok {
		return "", ErrTokenConfig
	}
	aead, err := c.newAEAD(key)
	if err != nil {
		return "", err
	}

	payload, err := c.marshal(claims)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, payload, c.label)
	return c.keyID + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a token and unmarshals the claims into v.
func (c *TokenCodec) Open(token string, v interface{}) error {
	if c == nil || c.unmarshal == nil {
		return ErrTokenConfig
	}
	if len(token) == 0 || len(token) > maxTokenLen {
		return ErrTokenFormat
	}
	keyID, sealedB64, ok := strings.Cut(token, ".")
	if !ok || keyID == "" || sealedB64 == "" {
		return ErrTokenFormat
	}
	key, ok := c.keys[keyID]
	if !ok {
		return ErrTokenInvalid
	}

	sealed, err := base64.RawURLEncoding.DecodeString(sealedB64)
	if err != nil {
		return ErrTokenFormat
	}

	aead, err := c.newAEAD(key)
	if err != nil {
		return err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return ErrTokenFormat
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	payload, err := aead.Open(nil, nonce, ciphertext, c.label)
	if err != nil {
		return ErrTokenInvalid
	}

	return c.unmarshal(payload, v)
}

// Unseal returns a middleware that opens the sealed token carried in the
// call metadata and hands enriched metadata to the rest of the chain.
//
// token extracts the sealed value from the metadata; an empty result
// short-circuits with CodeTokenRequired. apply merges the decoded claims
// back into the metadata seen downstream.
func Unseal[M, C any](codec *TokenCodec, token func(M) string, apply func(M, C) M) jsonrpc.Middleware[M] {
	return jsonrpc.MiddlewareFunc[M](func(ctx context.Context, req *jsonrpc.Request, meta M, next jsonrpc.Next[M]) (interface{}, error) {
		sealed := token(meta)
		if sealed == "" {
			return nil, jsonrpc.NewError(CodeTokenRequired, "token required")
		}
		var claims C
		if err := codec.Open(sealed, &claims); err != nil {
			return nil, jsonrpc.NewError(CodeTokenInvalid, "invalid token")
		}
		if apply != nil {
			meta = apply(meta, claims)
		}
		return next.Run(ctx, req, meta)
	})
}
