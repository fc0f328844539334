package client

import "fmt"

// TransportError means the function could not be invoked or did not
// complete: network, credentials, marshalling the request, or a function
// error reported by the platform.
type TransportError struct {
	Action string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calling %s: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError means the function answered with something that is
// not a response envelope.
type MalformedResponseError struct {
	Action string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("unreadable response from %s: %v", e.Action, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ActionFailure is a failure the remote function reported itself.
// Code and Message are empty when the envelope carried no error.
type ActionFailure struct {
	Action  string
	Code    string
	Message string
}

func (e *ActionFailure) Error() string {
	switch {
	case e.Message != "" && e.Code != "":
		return fmt.Sprintf("%s failed: %s (%s)", e.Action, e.Message, e.Code)
	case e.Message != "":
		return fmt.Sprintf("%s failed: %s", e.Action, e.Message)
	case e.Code != "":
		return fmt.Sprintf("%s failed: %s", e.Action, e.Code)
	default:
		return fmt.Sprintf("%s failed", e.Action)
	}
}

// UnexpectedResponseError is a well-formed envelope that is neither a
// success nor a recognisable failure.
type UnexpectedResponseError struct {
	Action     string
	StatusCode int
	Result     string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response from %s: status %d, result %q", e.Action, e.StatusCode, e.Result)
}
