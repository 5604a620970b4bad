package event

import (
	"github.com/viant/toolbox"

	"github.com/viant/ensemble/internal/clock"
)

// Type enumerates the kinds of events published on the bus.
type Type string

const (
	// TypeAgentStarted marks the beginning of a single agent invocation.
	TypeAgentStarted Type = "agent_started"
	// TypeAgentMessage carries an agent's produced message.
	TypeAgentMessage Type = "agent_message"
	// TypeAgentCompleted marks the end of a successful agent invocation.
	TypeAgentCompleted Type = "agent_completed"
	// TypeHandoff records a transfer of control between agents.
	TypeHandoff Type = "handoff"
	// TypeError records an agent invocation failure.
	TypeError Type = "error"
	// TypeOrchestrationStarted brackets the start of an orchestration run.
	TypeOrchestrationStarted Type = "orchestration_started"
	// TypeOrchestrationCompleted brackets the end of an orchestration run.
	TypeOrchestrationCompleted Type = "orchestration_completed"
)

// Event is an immutable record of one step of an orchestration run. Seq is
// assigned by the bus at emission time and is unique and strictly increasing
// within a run.
type Event struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Seq       int                    `json:"seq"`
	Timestamp float64                `json:"timestamp"`
}

// New builds an unsequenced event; the bus assigns Seq on emission. When data
// carries its own "timestamp" the event keeps that value, otherwise the
// current time is stamped.
func New(eventType Type, data map[string]interface{}) *Event {
	if data == nil {
		data = map[string]interface{}{}
	}
	timestamp := clock.Unix()
	if value, ok := data["timestamp"]; ok {
		timestamp = toolbox.AsFloat(value)
	}
	return &Event{
		Type:      string(eventType),
		Data:      data,
		Timestamp: timestamp,
	}
}

// Agent returns the agent name recorded in the event data, or empty string.
func (e *Event) Agent() string {
	return e.stringField("agent")
}

// RunID returns the run correlation token recorded in the event data.
func (e *Event) RunID() string {
	return e.stringField("run_id")
}

func (e *Event) stringField(name string) string {
	if e == nil || e.Data == nil {
		return ""
	}
	value, ok := e.Data[name]
	if !ok || value == nil {
		return ""
	}
	return toolbox.AsString(value)
}
