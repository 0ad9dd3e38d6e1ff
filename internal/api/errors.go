package api

import "fmt"

// The three failure kinds callers can branch on with errors.As.
// HTTPError means the server answered with a failure status, NetworkError
// means no usable response reached us, DecodeError means a 2xx body that
// was not valid JSON.

// HTTPError carries the failure status and the raw response body.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status=%d body=%s", e.Status, e.Body)
}

// NotFound reports whether this is a 404.
func (e *HTTPError) NotFound() bool {
	return e.Status == 404
}

// NetworkError wraps a transport-level failure (DNS, refused, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError wraps a JSON decoding failure on a successful response.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
