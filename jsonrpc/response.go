package jsonrpc

import (
	"encoding/json"
	"errors"
)

// Response is a single JSON-RPC response object: exactly one of Result or
// Err is set.
type Response struct {
	Result interface{}
	Err    *Error
	ID     ID
}

func newResult(result interface{}, id ID) *Response {
	return &Response{Result: result, ID: id}
}

func newErrorResponse(err *Error, id ID) *Response {
	return &Response{Err: err, ID: id}
}

func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			JSONRPC string `json:"jsonrpc"`
			Error   *Error `json:"error"`
			ID      ID     `json:"id"`
		}{Version, r.Err, r.ID})
	}
	return json.Marshal(struct {
		JSONRPC string      `json:"jsonrpc"`
		Result  interface{} `json:"result"`
		ID      ID          `json:"id"`
	}{Version, r.Result, r.ID})
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var w struct {
		JSONRPC string          `json:"jsonrpc"`
		Result  json.RawMessage `json:"result"`
		Error   *Error          `json:"error"`
		ID      ID              `json:"id"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.JSONRPC != Version {
		return errors.New(`jsonrpc: response version must be "2.0"`)
	}
	if (w.Result != nil) == (w.Error != nil) {
		return errors.New("jsonrpc: response must carry exactly one of result and error")
	}
	r.ID = w.ID
	r.Err = w.Error
	if w.Result != nil {
		var v interface{}
		if err := json.Unmarshal(w.Result, &v); err != nil {
			return err
		}
		r.Result = v
	} else {
		r.Result = nil
	}
	return nil
}

// Responses is the dispatch output: a single response object, a batch of
// response objects, or nothing at all. The zero value is the no-body result,
// which tells the transport not to write a response.
type Responses struct {
	one  *Response
	many []*Response
}

func oneResponse(r *Response) Responses {
	return Responses{one: r}
}

func manyResponses(rs []*Response) Responses {
	return Responses{many: rs}
}

// Empty reports whether there is nothing to write: every member of the
// request was a notification (or had a null id).
func (r Responses) Empty() bool {
	return r.one == nil && r.many == nil
}

// Single returns the single response, if the output is a single object.
func (r Responses) Single() (*Response, bool) {
	return r.one, r.one != nil
}

// Batch returns the response list, if the output is a batch.
func (r Responses) Batch() ([]*Response, bool) {
	return r.many, r.many != nil
}

// MarshalJSON serializes the single object or the batch array. Marshaling an
// empty Responses is an error; callers must check Empty first.
func (r Responses) MarshalJSON() ([]byte, error) {
	switch {
	case r.one != nil:
		return json.Marshal(r.one)
	case r.many != nil:
		return json.Marshal(r.many)
	default:
		return nil, errors.New("jsonrpc: no response body to serialize")
	}
}
