package jsonrpc

import (
	"context"
	"reflect"
)

// DescribeMethod is the reserved introspection method registered by Finish.
// Calling it returns the registered methods and declared notifications with
// sketched request/response schemas.
const DescribeMethod = "rpc.describe"

// Description is the result of the rpc.describe call.
type Description struct {
	Methods       []DocMethod       `json:"methods"`
	Notifications []DocNotification `json:"notifications,omitempty"`
}

// DocMethod describes one registered method.
type DocMethod struct {
	Name     string  `json:"name"`
	Request  *Schema `json:"request,omitempty"`
	Response *Schema `json:"response,omitempty"`
}

// DocNotification describes one declared notification.
type DocNotification struct {
	Name   string  `json:"name"`
	Params *Schema `json:"params,omitempty"`
}

// Schema is a structural sketch of a params or result type, derived by
// reflection at registration time. It is intentionally loose: enough for a
// client to see field names and rough types, not a validator.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
}

func (b *ServerBuilder[M]) addDescribeRoute() {
	desc := Description{Methods: b.methods, Notifications: b.notifications}
	handler := NewHandler(func(ctx context.Context, _ struct{}, _ M) (Description, error) {
		return desc, nil
	})
	// The describe route carries no middlewares, global or otherwise.
	b.router.Insert(DescribeMethod, &Route[M]{Handler: handler})
}

func schemaOf[T any]() *Schema {
	return schemaOfType(reflect.TypeOf((*T)(nil)).Elem(), 0)
}

// maxSchemaDepth bounds recursion so self-referential types bottom out.
const maxSchemaDepth = 8

func schemaOfType(t reflect.Type, depth int) *Schema {
	if depth > maxSchemaDepth {
		return nil
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: schemaOfType(t.Elem(), depth+1)}
	case reflect.Map:
		return &Schema{Type: "object"}
	case reflect.Struct:
		names, fields := paramFields(t)
		props := make(map[string]*Schema, len(fields))
		for i, idx := range fields {
			props[names[i]] = schemaOfType(t.Field(idx).Type, depth+1)
		}
		return &Schema{Type: "object", Properties: props}
	default:
		// Interfaces and anything else: unconstrained.
		return nil
	}
}
