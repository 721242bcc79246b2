package ollama

import "fmt"

// ErrorKind classifies a failed generation call. Classification is a pure
// function of the transport error and is independent of retry mechanics.
type ErrorKind string

const (
	// KindTimeout marks a per-attempt timeout. Retryable.
	KindTimeout ErrorKind = "timeout"
	// KindExhausted marks a timeout that survived every allowed retry.
	KindExhausted ErrorKind = "exhausted"
	// KindUnreachable marks a refused or unroutable connection. Terminal:
	// the endpoint is down or misconfigured and retrying wastes time.
	KindUnreachable ErrorKind = "unreachable"
	// KindProtocol marks an HTTP-level error status. Terminal.
	KindProtocol ErrorKind = "protocol"
	// KindInternal marks any other failure (bad payload, cancellation).
	KindInternal ErrorKind = "internal"
)

// CallError is the terminal outcome of a generation call.
type CallError struct {
	Kind     ErrorKind
	Attempts int
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("ollama call failed (%s after %d attempt(s)): %v", e.Kind, e.Attempts, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// statusError is the internal representation of a non-2xx response.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("ollama endpoint status %d: %s", e.code, e.message)
	}
	return fmt.Sprintf("ollama endpoint status %d", e.code)
}
