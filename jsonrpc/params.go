package jsonrpc

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Params carries the params field of an envelope: raw bytes when the envelope
// was parsed off the wire, or a programmatic value when built. Both forms
// decode identically for any target.
type Params struct {
	raw   json.RawMessage
	value interface{}
}

// RawParams wraps an unparsed params payload.
func RawParams(raw json.RawMessage) *Params {
	return &Params{raw: raw}
}

// ValueParams wraps a programmatic params value.
func ValueParams(v interface{}) *Params {
	return &Params{value: v}
}

func (p *Params) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	if p.raw != nil {
		return p.raw, nil
	}
	return json.Marshal(p.value)
}

func (p *Params) UnmarshalJSON(data []byte) error {
	p.value = nil
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Decode unmarshals the params into v. A nil receiver decodes as JSON null.
//
// When v points to a struct, an array payload is decoded positionally: the
// i'th element fills the i'th settable field in declaration order, and the
// arity must match exactly. An object payload is decoded by json tags, and
// every tagged field must be present.
func (p *Params) Decode(v interface{}) error {
	data := json.RawMessage("null")
	if p != nil {
		if p.raw != nil {
			data = p.raw
		} else {
			b, err := json.Marshal(p.value)
			if err != nil {
				return err
			}
			data = b
		}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
		names, fields := paramFields(rv.Elem().Type())

		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err == nil && elems != nil {
			// Positional params: array elements map to struct fields by
			// declaration order.
			if len(elems) != len(fields) {
				return fmt.Errorf("jsonrpc: got %d positional params, want %d", len(elems), len(fields))
			}
			for i, rawElem := range elems {
				field := rv.Elem().Field(fields[i])
				if err := json.Unmarshal(rawElem, field.Addr().Interface()); err != nil {
					return err
				}
			}
			return nil
		}

		// Named params: JSON object keys map to struct fields by json tags.
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		var present map[string]json.RawMessage
		if err := json.Unmarshal(data, &present); err == nil {
			for _, name := range names {
				if _, ok := present[name]; !ok {
					return fmt.Errorf("jsonrpc: missing param %q", name)
				}
			}
		}
		return nil
	}

	return json.Unmarshal(data, v)
}

// paramFields returns the wire names and indices of the settable param
// fields of a struct type, in declaration order.
func paramFields(t reflect.Type) ([]string, []int) {
	names := make([]string, 0, t.NumField())
	fields := make([]int, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			tagName := strings.Split(tag, ",")[0]
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		names = append(names, name)
		fields = append(fields, i)
	}
	return names, fields
}
