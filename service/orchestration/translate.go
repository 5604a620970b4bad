package orchestration

import (
	"github.com/viant/ensemble/internal/clock"
	"github.com/viant/ensemble/model/event"
)

// routingAgent authors internal routing messages which never reach the bus.
const routingAgent = "group_chat_orchestrator"

const (
	publishedInputLimit  = 200
	publishedOutputLimit = 500
)

// Translate maps a low-level engine notification onto the domain event
// vocabulary. It returns false for notifications that are filtered out:
// streaming chunks, messages authored by the run's own input (role "user"),
// empty messages and the routing pseudo-agent's traffic.
func Translate(n Notification) (event.Type, map[string]interface{}, bool) {
	switch actual := n.(type) {
	case Invoked:
		if actual.ExecutorID == "" {
			return "", nil, false
		}
		data := map[string]interface{}{
			"agent":     actual.ExecutorID,
			"timestamp": clock.Unix(),
		}
		if actual.RunID != "" {
			data["run_id"] = actual.RunID
		}
		if actual.Input != "" {
			data["input"] = truncate(actual.Input, publishedInputLimit)
		}
		return event.TypeAgentStarted, data, true
	case Completed:
		if actual.ExecutorID == "" {
			return "", nil, false
		}
		data := map[string]interface{}{
			"agent":     actual.ExecutorID,
			"output":    truncate(actual.Output, publishedOutputLimit),
			"timestamp": clock.Unix(),
		}
		if actual.RunID != "" {
			data["run_id"] = actual.RunID
		}
		return event.TypeAgentCompleted, data, true
	case OutputMessage:
		if actual.Role == "user" {
			return "", nil, false
		}
		author := actual.Author
		if author == "" {
			author = "unknown"
		}
		if actual.Text == "" || author == routingAgent {
			return "", nil, false
		}
		data := map[string]interface{}{
			"agent":     author,
			"message":   truncate(actual.Text, publishedOutputLimit),
			"timestamp": clock.Unix(),
		}
		if actual.RunID != "" {
			data["run_id"] = actual.RunID
		}
		return event.TypeAgentMessage, data, true
	case HandoffSent:
		return event.TypeHandoff, map[string]interface{}{
			"from_agent": actual.From,
			"to_agent":   actual.To,
			"message":    actual.Message,
			"timestamp":  clock.Unix(),
		}, true
	case StreamChunk:
		return "", nil, false
	}
	return "", nil, false
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
