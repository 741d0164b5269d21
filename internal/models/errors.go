package models

import "fmt"

// AuthError means token acquisition failed. It is fatal for the current run:
// no report is produced and the caller decides whether to retry.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("auth failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// UpstreamError means the attendance API was reachable but answered with a
// business error code. It is non-fatal: the pipeline degrades to a
// placeholder report carrying the message.
type UpstreamError struct {
	Code    int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.Code, e.Message)
}

// DeliveryError means the report was built correctly but a sink failed to
// send it. Surfaced to the invocation boundary; the core never retries.
type DeliveryError struct {
	Target string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.Target, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
