package datausa

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches any *NetworkError via errors.Is.
	ErrNetwork = errors.New("network error")
	// ErrParse matches any *ParseError via errors.Is.
	ErrParse = errors.New("parse error")
)

// NetworkError reports a transport failure or an HTTP error status.
type NetworkError struct {
	Status int // zero when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch population: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse population: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
