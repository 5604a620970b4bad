package event

import (
	"github.com/viant/structology/conv"
)

// Started is the payload of an agent_started event.
type Started struct {
	Agent     string  `json:"agent"`
	RunID     string  `json:"run_id"`
	Input     string  `json:"input"`
	Timestamp float64 `json:"timestamp"`
}

// Message is the payload of an agent_message event.
type Message struct {
	Agent     string  `json:"agent"`
	RunID     string  `json:"run_id"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
}

// Completed is the payload of an agent_completed event.
type Completed struct {
	Agent     string  `json:"agent"`
	RunID     string  `json:"run_id"`
	Output    string  `json:"output"`
	Timestamp float64 `json:"timestamp"`
}

// Failure is the payload of an error event.
type Failure struct {
	Agent     string  `json:"agent"`
	RunID     string  `json:"run_id"`
	Error     string  `json:"error"`
	Timestamp float64 `json:"timestamp"`
}

// Handoff is the payload of a handoff event.
type Handoff struct {
	FromAgent string  `json:"from_agent"`
	ToAgent   string  `json:"to_agent"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
}

// Orchestration is the payload of the orchestration envelope events.
type Orchestration struct {
	Agent        string   `json:"agent"`
	Pattern      string   `json:"pattern"`
	Participants []string `json:"participants"`
	Timestamp    float64  `json:"timestamp"`
}

var converter *conv.Converter

func init() {
	options := conv.DefaultOptions()
	options.IgnoreUnmapped = true
	converter = conv.NewConverter(options)
}

// Decode maps the loose event data onto a typed payload struct. Unknown data
// keys are ignored.
func Decode(e *Event, payload interface{}) error {
	if e == nil || e.Data == nil {
		return nil
	}
	return converter.Convert(e.Data, payload)
}
