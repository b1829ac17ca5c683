package search

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid search submission")
	ErrStatus     = errors.New("upstream returned an error status")
	ErrTransport  = errors.New("could not complete the upstream call")
)

// ValidationError means the submission was rejected before any network call.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StatusError carries a non-2xx upstream response as it was received.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %d - %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// TransportError covers everything between sending the request and decoding the reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error contacting API: %s", e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
