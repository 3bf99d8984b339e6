package jsonrpc

import "errors"

// Reserved JSON-RPC 2.0 error codes.
const (
	CodeParseError     int64 = -32700
	CodeInvalidRequest int64 = -32600
	CodeMethodNotFound int64 = -32601
	CodeInvalidParams  int64 = -32602
	CodeInternalError  int64 = -32603
)

// Error is the JSON-RPC 2.0 error object. It implements error, so handlers
// and middlewares can return it directly to control the code on the wire.
type Error struct {
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates an Error with the given code and message.
func NewError(code int64, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithData returns a copy of e carrying the given data payload.
func (e *Error) WithData(data interface{}) *Error {
	return &Error{Code: e.Code, Message: e.Message, Data: data}
}

// The five reserved errors. Fresh values each call so a caller attaching
// Data cannot corrupt a shared instance.
func errParse() *Error          { return NewError(CodeParseError, "Parse error") }
func errInvalidRequest() *Error { return NewError(CodeInvalidRequest, "Invalid Request") }
func errMethodNotFound() *Error { return NewError(CodeMethodNotFound, "Method not found") }
func errInvalidParams() *Error  { return NewError(CodeInvalidParams, "Invalid params") }

// Internal wraps an arbitrary failure in the reserved Internal Error. The
// message stays fixed; the failure's text travels in the data field.
func Internal(err error) *Error {
	e := NewError(CodeInternalError, "Internal Error")
	if err != nil {
		e.Data = err.Error()
	}
	return e
}

// ErrorLike is the mapping capability for domain error types. A type that
// implements it decides the code, message, and data of its wire form.
type ErrorLike interface {
	error
	RPCError() *Error
}

// DefaultError is the default domain-error mapping: code 0, the error's text
// as the message, no data. An ErrorLike implementation can delegate to it:
//
//	func (e *NotFoundError) RPCError() *jsonrpc.Error {
//	    return jsonrpc.DefaultError(e)
//	}
//
// It is never applied implicitly; errors that opt into nothing map to
// Internal instead.
func DefaultError(err error) *Error {
	return &Error{Code: 0, Message: err.Error()}
}

// toError converts any error returned by a middleware or handler into the
// protocol error object.
func toError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var el ErrorLike
	if errors.As(err, &el) {
		if e := el.RPCError(); e != nil {
			return e
		}
	}
	return Internal(err)
}
