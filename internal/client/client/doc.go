// Package client invokes the named remote chat functions and classifies
// their responses.
//
// # Overview
//
//  1. Invoker is the transport contract: send a JSON payload to a named
//     function and get its raw response payload back. LambdaInvoker is the
//     AWS Lambda implementation (RequestResponse invocations).
//  2. Call marshals a request, invokes the function and decodes the
//     ResponseEnvelope.
//  3. Classify turns an envelope into an Outcome: Success, Failure or
//     Unexpected. CallAndClassify chains both and returns the success data.
//
// # Error Handling
//
// Failures are typed and matched with errors.As: TransportError,
// MalformedResponseError, ActionFailure and UnexpectedResponseError.
// Nothing is retried.
package client
