package middleware

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/mnehpets/rpcserve/jsonrpc"
)

func TestLoggerRecordsCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	b := jsonrpc.NewServer[jsonrpc.NoMeta](Logger[jsonrpc.NoMeta](logger))
	jsonrpc.Method(b, "ping", func(ctx context.Context, _ struct{}, _ jsonrpc.NoMeta) (string, error) {
		return "pong", nil
	})
	jsonrpc.Method(b, "fail", func(ctx context.Context, _ struct{}, _ jsonrpc.NoMeta) (string, error) {
		return "", errors.New("nope")
	})
	srv := b.Finish()

	srv.HandleBytes(context.Background(), []byte(`{"jsonrpc":"2.0","method":"ping","id":1}`), jsonrpc.NoMeta{})
	if !strings.Contains(buf.String(), "ping id=1 ok") {
		t.Errorf("missing success line in %q", buf.String())
	}

	buf.Reset()
	srv.HandleBytes(context.Background(), []byte(`{"jsonrpc":"2.0","method":"fail","id":2}`), jsonrpc.NoMeta{})
	if !strings.Contains(buf.String(), "fail id=2 failed") {
		t.Errorf("missing failure line in %q", buf.String())
	}
}
