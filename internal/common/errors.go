// Package common defines sentinel errors and small helpers shared by the CLI,
// the web application and the image catalog. Callers should use errors.Is to
// match the sentinel values and errors.As for ValidationError.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound = errors.New("not found")

	// Input checked locally before any remote call.
	ErrValidation = errors.New("validation error")

	// Session state errors.
	ErrNotSignedIn     = errors.New("not signed in")
	ErrAlreadySignedIn = errors.New("already signed in")

	// Two-step workflow errors.
	ErrWorkflowPending   = errors.New("another step is already pending")
	ErrNoPendingWorkflow = errors.New("no pending step to finish")
)
