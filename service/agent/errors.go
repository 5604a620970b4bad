package agent

import "fmt"

// TransientError wraps a connectivity failure that is worth retrying. It is
// surfaced only once the retry budget is exhausted.
type TransientError struct {
	Agent string
	Err   error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("agent %s: transient failure: %v", e.Agent, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// FatalError wraps a capability failure that is not retryable and aborts the
// invocation immediately.
type FatalError struct {
	Agent string
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("agent %s: %v", e.Agent, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
