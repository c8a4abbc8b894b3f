package jsonutil

import "testing"

func TestUnmarshalFlexDirect(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	if err := UnmarshalFlex([]byte(`{"name":"ok"}`), &out); err != nil {
		t.Fatalf("UnmarshalFlex() error = %v", err)
	}
	if out.Name != "ok" {
		t.Fatalf("UnmarshalFlex() name = %q, want ok", out.Name)
	}
}

func TestUnmarshalFlexQuotedPayload(t *testing.T) {
	var out struct {
		Response string `json:"response"`
	}
	raw := []byte(`"{\"response\":\"a \\u003e b\"}"`)
	if err := UnmarshalFlex(raw, &out); err != nil {
		t.Fatalf("UnmarshalFlex() error = %v", err)
	}
	if out.Response != "a > b" {
		t.Fatalf("UnmarshalFlex() response = %q, want %q", out.Response, "a > b")
	}
}

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"k": "a<b>c&d"})
	if err != nil {
		t.Fatalf("MarshalNoEscape() error = %v", err)
	}
	if got := string(b); got != `{"k":"a<b>c&d"}` {
		t.Fatalf("MarshalNoEscape() = %s", got)
	}
}
