package jsonrpc

import (
	"encoding/json"
	"errors"
)

// Version is the protocol version literal. Envelopes carrying anything else
// fail to decode.
const Version = "2.0"

// Request is the decoded form of a JSON-RPC request or notification.
//
// ID models the tri-state id field: nil means the field was absent (a true
// notification); a non-nil null ID means the field was present as null, which
// this implementation also treats as "no reply expected"; any other value is
// the correlation id for exactly one reply.
type Request struct {
	Method string
	Params *Params // nil when the params field was absent
	ID     *ID     // nil when the id field was absent
}

// ReplyID collapses the tri-state id field into the identifier a reply would
// be correlated with. A null result means no reply is produced for this
// request, success or failure.
func (r *Request) ReplyID() ID {
	if r.ID == nil {
		return NullID
	}
	return *r.ID
}

// wireRequest is the raw shape used to validate an envelope. Pointer and
// RawMessage fields distinguish absent from present-but-null.
type wireRequest struct {
	JSONRPC *string         `json:"jsonrpc"`
	Method  *string         `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.JSONRPC == nil || *w.JSONRPC != Version {
		return errors.New(`jsonrpc: request version must be "2.0"`)
	}
	if w.Method == nil || *w.Method == "" {
		return errors.New("jsonrpc: request method required")
	}

	req := Request{Method: *w.Method}
	if w.Params != nil {
		req.Params = &Params{raw: w.Params}
	}
	if w.ID != nil {
		var id ID
		if err := id.UnmarshalJSON(w.ID); err != nil {
			return err
		}
		req.ID = &id
	}
	*r = req
	return nil
}

func (r *Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		JSONRPC string  `json:"jsonrpc"`
		Method  string  `json:"method"`
		Params  *Params `json:"params,omitempty"`
		ID      *ID     `json:"id,omitempty"`
	}{
		JSONRPC: Version,
		Method:  r.Method,
		Params:  r.Params,
		ID:      r.ID,
	})
}

// RequestBuilder builds a call envelope programmatically.
type RequestBuilder struct {
	method string
	params *Params
	id     ID
}

// NewRequest starts a request envelope for the given method. The id defaults
// to null; set a concrete one with ID to receive a reply.
func NewRequest(method string) *RequestBuilder {
	return &RequestBuilder{method: method}
}

// ID sets the correlation id.
func (b *RequestBuilder) ID(id ID) *RequestBuilder {
	b.id = id
	return b
}

// Params attaches a params value. The value is serialized lazily; it must
// marshal to a JSON object or array.
func (b *RequestBuilder) Params(v interface{}) *RequestBuilder {
	b.params = &Params{value: v}
	return b
}

// Build produces the envelope. The id field is always present on built
// requests; use NewNotification for an id-less envelope.
func (b *RequestBuilder) Build() *Request {
	id := b.id
	return &Request{Method: b.method, Params: b.params, ID: &id}
}

// NotificationBuilder builds a notification envelope programmatically.
type NotificationBuilder struct {
	method string
	params *Params
}

// NewNotification starts a notification envelope for the given method.
func NewNotification(method string) *NotificationBuilder {
	return &NotificationBuilder{method: method}
}

// Params attaches a params value.
func (b *NotificationBuilder) Params(v interface{}) *NotificationBuilder {
	b.params = &Params{value: v}
	return b
}

// Build produces the envelope with no id field.
func (b *NotificationBuilder) Build() *Request {
	return &Request{Method: b.method, Params: b.params}
}
