package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is returned when the server answered with a non-2xx status.
type HTTPError struct {
	Method  string
	URL     string
	Status  int
	Body    []byte
	Message string // "error" or "message" field of a JSON body, if any
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
}

// NetworkError is returned when the request was sent but no response arrived.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: no response from server: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SetupError is returned when the request could not be built or sent at all.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("build request: %v", e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// Kind names the failure class of err for diagnostics: "http", "network",
// "setup" or "unknown". Callers must not branch on it for control flow.
func Kind(err error) string {
	var (
		he *HTTPError
		ne *NetworkError
		se *SetupError
	)
	switch {
	case errors.As(err, &he):
		return "http"
	case errors.As(err, &ne):
		return "network"
	case errors.As(err, &se):
		return "setup"
	default:
		return "unknown"
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func envelopeMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	return env.Message
}

// UserMessage returns the server-provided message, if any.
func (e *HTTPError) UserMessage() string { return e.Message }

// UserMessage is empty: a missing response carries nothing to show.
func (e *NetworkError) UserMessage() string { return "" }

// UserMessage is empty: the request never left the client.
func (e *SetupError) UserMessage() string { return "" }
