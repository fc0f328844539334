// Package models defines the client-side data shapes: posts returned by the
// chat functions, the signed-in session, the pending two-step workflow and
// the response envelope every remote function returns.
package models
