package redisq_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	redisq "github.com/Renuu007/RedisQ"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	e := redisq.NewEnvelope("notifications", "app/mail.Send",
		[]any{"x@test.com", "hi", float64(3), true, nil},
		map[string]any{
			"cc":     []any{"a@test.com", "b@test.com"},
			"urgent": false,
			"meta":   map[string]any{"retries": float64(0)},
		},
	)

	payload, err := e.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := redisq.Decode("notifications", payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, e) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, e)
	}
}

func TestEnvelope_WireFormat(t *testing.T) {
	e := redisq.NewEnvelope("q", "pkg.Fn", []any{"a"}, map[string]any{"k": "v"})

	payload, err := e.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("payload is not a JSON object: %v", err)
	}
	for _, field := range []string{"path", "args", "kwargs"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("payload missing field %q", field)
		}
	}
	if len(raw) != 3 {
		t.Errorf("payload has %d fields, want 3", len(raw))
	}
}

func TestEnvelope_EncodeNormalizesNil(t *testing.T) {
	e := &redisq.Envelope{Queue: "q", Path: "pkg.Fn"}

	payload, err := e.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s := string(payload)
	if strings.Contains(s, "null") {
		t.Errorf("nil args/kwargs should encode as empty, got %s", s)
	}
}

func TestDecode_NormalizesMissingArgs(t *testing.T) {
	got, err := redisq.Decode("q", []byte(`{"path":"pkg.Fn"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Args == nil || len(got.Args) != 0 {
		t.Errorf("Args = %#v, want empty non-nil slice", got.Args)
	}
	if got.Kwargs == nil || len(got.Kwargs) != 0 {
		t.Errorf("Kwargs = %#v, want empty non-nil map", got.Kwargs)
	}
	if got.Queue != "q" {
		t.Errorf("Queue = %q, want %q", got.Queue, "q")
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := redisq.Decode("q", []byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestDecode_MissingPath(t *testing.T) {
	if _, err := redisq.Decode("q", []byte(`{"args":[],"kwargs":{}}`)); err == nil {
		t.Fatal("expected error for payload without a function path")
	}
}
