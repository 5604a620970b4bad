package agent

import (
	"strings"
	"time"
)

// Retry controls how capability failures are retried.
type Retry struct {
	// MaxAttempts is the total attempt budget, including the first call.
	MaxAttempts int

	// Delay is the fixed wait between attempts.
	Delay time.Duration

	// TransientSignatures are case-insensitive substrings identifying
	// retryable connectivity failures; any other failure is fatal
	// immediately.
	TransientSignatures []string
}

// DefaultRetry returns the standard retry policy: three attempts, five second
// delay and the known transient connectivity signatures.
func DefaultRetry() Retry {
	return Retry{
		MaxAttempts: 3,
		Delay:       5 * time.Second,
		TransientSignatures: []string{
			"connection error",
			"peer closed connection",
			"connection attempts failed",
		},
	}
}

// IsTransient reports whether the failure matches a transient connectivity
// signature.
func (r Retry) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	for _, signature := range r.TransientSignatures {
		if strings.Contains(message, strings.ToLower(signature)) {
			return true
		}
	}
	return false
}
