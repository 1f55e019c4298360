package apiclient

import "fmt"

// HTTPError is returned for any non-2xx response. It carries the status code
// and response body so tests can assert on the failure the API reported.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api returned %s", e.Status)
	}
	return fmt.Sprintf("api returned %s: %s", e.Status, e.Body)
}

// TransportError is returned when the request never produced an HTTP
// response: connection refused, DNS failure, or a timeout at the socket
// layer. The client does not retry these; callers may let the poller absorb
// them across checks.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
