package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Result values carried in ResponseBody.Result.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var errMissingStatus = errors.New("missing statusCode")

// ErrorInfo is the error object embedded in a failure body.
type ErrorInfo struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// UnmarshalJSON accepts either an object or a bare string, which is taken as
// the message.
func (e *ErrorInfo) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var msg string
		if err := json.Unmarshal(b, &msg); err != nil {
			return err
		}
		*e = ErrorInfo{Message: msg}
		return nil
	}

	type plain ErrorInfo
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*e = ErrorInfo(p)
	return nil
}

// ResponseBody is the body of an envelope.
type ResponseBody struct {
	Result string          `json:"result"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  *ErrorInfo      `json:"error,omitempty"`
}

// UnmarshalJSON accepts the body as an object or as a JSON-encoded string
// holding the object.
func (r *ResponseBody) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return err
		}
		b = []byte(inner)
	}

	type plain ResponseBody
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = ResponseBody(p)
	return nil
}

// ResponseEnvelope is what every remote function returns.
type ResponseEnvelope struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       ResponseBody      `json:"body"`
}

// DecodeEnvelope parses a function payload. A payload that is not a JSON
// object or has no statusCode is rejected.
func DecodeEnvelope(payload []byte) (*ResponseEnvelope, error) {
	var probe struct {
		StatusCode *int `json:"statusCode"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if probe.StatusCode == nil {
		return nil, errMissingStatus
	}

	var env ResponseEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}
