package redisq

import (
	"encoding/json"
	"fmt"
)

// Envelope is one deferred function invocation in transit. It carries the
// registered function's path and the call arguments; the return value of
// the eventual execution is discarded.
//
// The wire format is a flat JSON object with exactly three fields:
//
//	{"path": "...", "args": [...], "kwargs": {...}}
//
// Argument values must be JSON-representable (strings, numbers, booleans,
// null, nested arrays, string-keyed objects). Decoding canonicalizes
// sequences to []any and numbers to float64.
type Envelope struct {
	// Queue is the destination queue. It keys the list in the store and
	// travels out of band, so the payload does not repeat it.
	Queue string `json:"-"`

	Path   string         `json:"path"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

// NewEnvelope builds an envelope for one invocation. Nil args and kwargs
// normalize to empty so the payload stays self-describing.
func NewEnvelope(queue, path string, args []any, kwargs map[string]any) *Envelope {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return &Envelope{Queue: queue, Path: path, Args: args, Kwargs: kwargs}
}

// Encode serializes the envelope to its JSON wire format.
func (e *Envelope) Encode() ([]byte, error) {
	cp := *e
	if cp.Args == nil {
		cp.Args = []any{}
	}
	if cp.Kwargs == nil {
		cp.Kwargs = map[string]any{}
	}
	payload, err := json.Marshal(&cp)
	if err != nil {
		return nil, fmt.Errorf("redisq: encode envelope for %q: %w", e.Path, err)
	}
	return payload, nil
}

// Decode is the inverse of Encode. The queue name is supplied by the
// caller because the payload does not carry it. A payload without a
// function path is malformed.
func Decode(queue string, payload []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("redisq: decode envelope: %w", err)
	}
	if e.Path == "" {
		return nil, fmt.Errorf("redisq: decode envelope: missing function path")
	}
	e.Queue = queue
	if e.Args == nil {
		e.Args = []any{}
	}
	if e.Kwargs == nil {
		e.Kwargs = map[string]any{}
	}
	return &e, nil
}

func (e *Envelope) String() string {
	return fmt.Sprintf("<Envelope path=%s args=%v kwargs=%v>", e.Path, e.Args, e.Kwargs)
}
