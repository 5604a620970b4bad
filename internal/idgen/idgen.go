package idgen

import "github.com/google/uuid"

// New returns a new globally unique identifier as string. It is implemented
// as a thin wrapper so tests can stub it.

var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }

// Short returns a short correlation token, the first 8 characters of a full
// identifier. It is used to group the lifecycle events of a single agent
// invocation.
func Short() string {
	id := NewFunc()
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}
