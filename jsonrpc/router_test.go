package jsonrpc

import (
	"context"
	"testing"
)

func TestMapRouterInsertReturnsDisplaced(t *testing.T) {
	r := NewMapRouter[NoMeta]()

	first := &Route[NoMeta]{Handler: func(ctx context.Context, req *Request, _ NoMeta) (interface{}, error) {
		return "first", nil
	}}
	second := &Route[NoMeta]{Handler: func(ctx context.Context, req *Request, _ NoMeta) (interface{}, error) {
		return "second", nil
	}}

	if prev := r.Insert("m", first); prev != nil {
		t.Errorf("expected no displaced route on first insert, got %v", prev)
	}
	if prev := r.Insert("m", second); prev != first {
		t.Errorf("expected the first route to be displaced, got %v", prev)
	}

	route, ok := r.Get("m")
	if !ok {
		t.Fatal("expected route to be present")
	}
	out, err := route.Handler(context.Background(), &Request{Method: "m"}, NoMeta{})
	if err != nil || out != "second" {
		t.Errorf("got (%v, %v), want the second handler", out, err)
	}
}

func TestMapRouterGetMissing(t *testing.T) {
	r := NewMapRouter[NoMeta]()
	if _, ok := r.Get("missing"); ok {
		t.Error("expected lookup miss")
	}
}

func TestMapRouterNames(t *testing.T) {
	r := NewMapRouter[NoMeta]()
	r.Insert("a", &Route[NoMeta]{})
	r.Insert("b", &Route[NoMeta]{})

	names := r.Names()
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2", len(names))
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("got names %v, want a and b", names)
	}
}
