package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/viant/ensemble/model/event"
	"github.com/viant/ensemble/service/agent"
	"github.com/viant/ensemble/service/bus"
)

// echoAgent answers with a fixed prefix plus nothing else; scripted behaviour
// for strategy tests.
func echoAgent(t *testing.T, eventBus *bus.Service, name, reply string) *agent.Agent {
	t.Helper()
	return agent.New(name, agent.CapabilityFunc(func(ctx context.Context, input string) (string, error) {
		return reply, nil
	}), eventBus)
}

func scriptedAgent(t *testing.T, eventBus *bus.Service, name string, fn func(input string) (string, error)) *agent.Agent {
	t.Helper()
	retry := agent.DefaultRetry()
	retry.Delay = time.Millisecond
	return agent.New(name, agent.CapabilityFunc(func(ctx context.Context, input string) (string, error) {
		return fn(input)
	}), eventBus, agent.WithRetry(retry))
}

func newBus(t *testing.T) *bus.Service {
	t.Helper()
	eventBus, err := bus.New()
	require.NoError(t, err)
	return eventBus
}

func typesOf(events []*event.Event) []string {
	types := make([]string, 0, len(events))
	for _, anEvent := range events {
		types = append(types, anEvent.Type)
	}
	return types
}

func countType(events []*event.Event, eventType event.Type) int {
	count := 0
	for _, anEvent := range events {
		if anEvent.Type == string(eventType) {
			count++
		}
	}
	return count
}

func agentsOf(events []*event.Event, eventType event.Type) []string {
	var agents []string
	for _, anEvent := range events {
		if anEvent.Type == string(eventType) {
			agents = append(agents, anEvent.Agent())
		}
	}
	return agents
}
