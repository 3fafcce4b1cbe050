package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport       = errors.New("search backend unreachable")
	ErrStatus          = errors.New("search backend returned an error status")
	ErrDecode          = errors.New("unexpected response from search backend")
	ErrInvalidArgument = errors.New("invalid argument")
)

type TransportError struct {
	Op  string
	Err error
}

type StatusError struct {
	Op         string
	StatusCode int
	// Message is the backend's "message" field, empty when it sent none.
	Message string
}

type DecodeError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrDecode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func invalidArgument(op string, reason string) error {
	return fmt.Errorf("%s: %w: %s", op, ErrInvalidArgument, reason)
}

// UserMessage turns a client error into text fit for a banner. The backend's
// own message wins when it sent one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Message != "" {
			return statusErr.Message
		}
		if text := http.StatusText(statusErr.StatusCode); text != "" {
			return fmt.Sprintf("request failed with status %d (%s)", statusErr.StatusCode, text)
		}
		return fmt.Sprintf("request failed with status %d", statusErr.StatusCode)
	}

	switch {
	case errors.Is(err, ErrTransport):
		return ErrTransport.Error()
	case errors.Is(err, ErrDecode):
		return ErrDecode.Error()
	}

	return err.Error()
}
