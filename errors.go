package searxng

import "fmt"

// InvalidParameterError reports a builder input that violates a local
// constraint. It is detected when the setter is called and returned by the
// terminal send operation before any network activity takes place.
type InvalidParameterError struct {
	Param  string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q (value %q): %s", e.Param, e.Value, e.Reason)
}

// TransportError reports a failed HTTP exchange: a network error, a cancelled
// context, or a non-2xx status. StatusCode is 0 when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("searxng request to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("searxng request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a response whose top-level shape is unusable:
// not a JSON object, or missing an array-shaped "results" key. The whole call
// fails; no partial results are returned.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed searxng response: %s", e.Reason)
}
