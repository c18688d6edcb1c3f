package agent

import "fmt"

// TransportError wraps a failure of the remote model call itself (network,
// auth, rate limit). The invoker surfaces it immediately; retry, when
// configured, is applied only to rate-limit failures before giving up.
type TransportError struct {
	Agent string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("agent %q transport error: %v", e.Agent, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NoFinalResponseError means the response stream completed without a terminal
// event carrying content, e.g. the agent aborted or emitted only intermediate
// fragments.
type NoFinalResponseError struct {
	Agent string
}

func (e *NoFinalResponseError) Error() string {
	return fmt.Sprintf("agent %q produced no final response", e.Agent)
}

// MalformedOutputError means the terminal event's text could not be parsed as
// JSON: the model violated its schema contract. Never retried automatically.
type MalformedOutputError struct {
	Agent string
	Text  string
	Err   error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("agent %q returned malformed JSON: %v", e.Agent, e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }
