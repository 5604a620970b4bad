package orchestration

// Notification is a low-level execution engine lifecycle signal. The
// coordinator translates notifications into the domain event vocabulary
// before anything reaches the bus; strategies never emit turn events
// directly.
type Notification interface {
	notification()
}

// Invoked signals that an executor is about to run an agent turn.
type Invoked struct {
	ExecutorID string
	RunID      string
	Input      string
}

// Completed signals that an executor finished an agent turn.
type Completed struct {
	ExecutorID string
	RunID      string
	Output     string
}

// OutputMessage carries a fully-formed message produced during a turn.
type OutputMessage struct {
	Role   string
	Author string
	RunID  string
	Text   string
}

// StreamChunk is a partial-token streaming update. It is never translated.
type StreamChunk struct {
	Author string
	Delta  string
}

// HandoffSent signals a transfer of control between agents.
type HandoffSent struct {
	From    string
	To      string
	Message string
}

func (Invoked) notification()       {}
func (Completed) notification()     {}
func (OutputMessage) notification() {}
func (StreamChunk) notification()   {}
func (HandoffSent) notification()   {}
