package nexalo

import (
	"errors"
	"fmt"
)

// APIError is a well-formed response that reports failure.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("nexalo API error: status_code=%d status=%q", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("nexalo API error: %s (status_code=%d status=%q)", e.Message, e.StatusCode, e.Status)
}

// TransportError covers timeouts, connection failures, non-2xx HTTP
// responses and undecodable bodies. Message holds the remote "message" field
// when the body carried one.
type TransportError struct {
	HTTPStatus int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("nexalo request failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("nexalo request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Detail returns the most useful human-readable description of err: the
// remote message when there is one, otherwise the error text. For an
// APIError without a message it returns "".
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		if tErr.Message != "" {
			return tErr.Message
		}
		if tErr.Err != nil {
			return tErr.Err.Error()
		}
	}
	return err.Error()
}
