package jsonrpc

import (
	"encoding/json"
	"testing"
)

func TestResponseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
	}{
		{"result", newResult(map[string]interface{}{"ok": true}, IntID(1))},
		{"error", newErrorResponse(NewError(-32000, "nope").WithData("detail"), StringID("x"))},
		{"null id error", newErrorResponse(errInvalidRequest(), NullID)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.resp)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var back Response
			if err := json.Unmarshal(out, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if (back.Err != nil) != (tt.resp.Err != nil) {
				t.Errorf("result/error exclusivity lost: %s", out)
			}
			if back.ID != tt.resp.ID {
				t.Errorf("id changed: got %v, want %v", back.ID, tt.resp.ID)
			}
			if tt.resp.Err != nil && back.Err.Code != tt.resp.Err.Code {
				t.Errorf("code changed: got %d, want %d", back.Err.Code, tt.resp.Err.Code)
			}
		})
	}
}

func TestResponseRejectsBothOrNeither(t *testing.T) {
	for _, body := range []string{
		`{"jsonrpc":"2.0","result":1,"error":{"code":1,"message":"m"},"id":1}`,
		`{"jsonrpc":"2.0","id":1}`,
		`{"jsonrpc":"1.0","result":1,"id":1}`,
	} {
		var resp Response
		if err := json.Unmarshal([]byte(body), &resp); err == nil {
			t.Errorf("expected %s to fail", body)
		}
	}
}

func TestResponseWireShape(t *testing.T) {
	out, err := json.Marshal(newResult("pong", IntID(3)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatal(err)
	}
	if m["jsonrpc"] != "2.0" || m["result"] != "pong" || m["id"].(float64) != 3 {
		t.Errorf("unexpected wire form: %s", out)
	}
	if _, ok := m["error"]; ok {
		t.Errorf("error field present on a result response: %s", out)
	}
}

func TestResponsesUnion(t *testing.T) {
	var empty Responses
	if !empty.Empty() {
		t.Error("zero value should be the no-body output")
	}
	if _, err := json.Marshal(empty); err == nil {
		t.Error("marshaling the no-body output should fail")
	}

	one := oneResponse(newResult("pong", IntID(1)))
	if one.Empty() {
		t.Error("single output reported empty")
	}
	if out, _ := json.Marshal(one); out[0] != '{' {
		t.Errorf("single output should serialize as an object, got %s", out)
	}

	many := manyResponses([]*Response{newResult("pong", IntID(1))})
	if out, _ := json.Marshal(many); out[0] != '[' {
		t.Errorf("batch output should serialize as an array, got %s", out)
	}
}
