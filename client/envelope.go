package client

import (
	"encoding/json"
	"fmt"
)

// StatusSuccess is the envelope status every successful response carries.
const StatusSuccess = "success"

// Envelope is the uniform wrapper the backend uses for every response:
// {status, data, message, total}. Data is kept raw; each resource client
// decodes it into its own typed shape.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Total   int             `json:"total,omitempty"`

	// httpStatus is the transport-level status code the envelope arrived
	// with. Zero for synthesized envelopes.
	httpStatus int
}

// OK reports whether the envelope carries a success status.
func (e *Envelope) OK() bool {
	return e != nil && e.Status == StatusSuccess
}

// APIError is a business-rule rejection: the backend answered, but the
// envelope did not carry a success status. Message is user-facing.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// envelopeError converts a non-success envelope into an *APIError, using the
// envelope message when present and the operation's fallback otherwise.
func envelopeError(env *Envelope, op, fallback string) error {
	msg := fallback
	if env != nil && env.Message != "" {
		msg = env.Message
	}
	status := 0
	if env != nil {
		status = env.httpStatus
	}
	return &APIError{Op: op, StatusCode: status, Message: msg}
}

// decodeData checks the envelope status and unmarshals Data into T. A missing
// Data on success decodes to the zero value; callers that require Data treat
// that as the field defaults kicking in.
func decodeData[T any](env *Envelope, op, fallback string) (T, error) {
	var out T
	if !env.OK() {
		return out, envelopeError(env, op, fallback)
	}
	if len(env.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("%s: decode data: %w", op, err)
	}
	return out, nil
}

// checkEnvelope is decodeData for operations whose success payload is unused.
func checkEnvelope(env *Envelope, op, fallback string) error {
	if !env.OK() {
		return envelopeError(env, op, fallback)
	}
	return nil
}

// orDefault substitutes def when v is the zero value. Wire records omit
// optional fields; the client shape always fills them.
func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
