// Package inference abstracts the external generation service the pipeline
// calls for OCR extraction and clinical interpretation. Calls are single
// blocking request/response exchanges; failures are terminal for the attempt
// and are never retried here.
package inference

import (
	"context"
	"errors"
	"fmt"
)

// Blob is an inline binary payload attached to a generation request.
type Blob struct {
	MIMEType string
	Data     []byte
}

// Request is one generation call. Model comes from prompt resolution, not
// client configuration, so one client serves every prompt pairing.
type Request struct {
	Model  string
	Prompt string
	Image  *Blob
}

// Client issues generation requests and returns the first candidate's text.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrEmptyResponse is returned when the service produces no usable candidate.
var ErrEmptyResponse = errors.New("inference: empty response")

// SafetyError reports a safety-blocked generation with the service's reason code.
type SafetyError struct {
	Reason string
}

func (e *SafetyError) Error() string {
	return fmt.Sprintf("inference: blocked by safety filter (%s)", e.Reason)
}

// ServiceError wraps transport-level failures (timeout, network, API errors).
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("inference: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
