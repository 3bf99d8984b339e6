package jsonrpc

import (
	"encoding/json"
	"errors"
	"strconv"
)

type idKind int

const (
	idNull idKind = iota
	idNumber
	idString
)

// ID is a JSON-RPC request identifier: a number, a string, or null.
// The zero value is the null identifier.
//
// Whether the id *field* was present at all is tracked separately on the
// Request; ID only models the value.
type ID struct {
	kind idKind
	num  int64
	str  string
}

// NullID is the null identifier.
var NullID = ID{}

// IntID returns a numeric identifier.
func IntID(n int64) ID {
	return ID{kind: idNumber, num: n}
}

// StringID returns a string identifier.
func StringID(s string) ID {
	return ID{kind: idString, str: s}
}

// IsNull reports whether the identifier is null.
func (id ID) IsNull() bool {
	return id.kind == idNull
}

// Int returns the numeric value and whether the identifier is numeric.
func (id ID) Int() (int64, bool) {
	return id.num, id.kind == idNumber
}

// Str returns the string value and whether the identifier is a string.
func (id ID) Str() (string, bool) {
	return id.str, id.kind == idString
}

func (id ID) String() string {
	switch id.kind {
	case idNumber:
		return strconv.FormatInt(id.num, 10)
	case idString:
		return id.str
	default:
		return "null"
	}
}

func (id ID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case idNumber:
		return json.Marshal(id.num)
	case idString:
		return json.Marshal(id.str)
	default:
		return []byte("null"), nil
	}
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*id = NullID
	case string:
		*id = StringID(t)
	case float64:
		// Re-decode as int64 to avoid float truncation of large ids.
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.New("jsonrpc: id must be an integer, a string, or null")
		}
		*id = IntID(n)
	default:
		return errors.New("jsonrpc: id must be an integer, a string, or null")
	}
	return nil
}
