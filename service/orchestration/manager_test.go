package orchestration

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/ensemble/model/event"
	"github.com/viant/ensemble/service/agent"
)

func TestRunManagerRounds(t *testing.T) {
	eventBus := newBus(t)
	agents := []*agent.Agent{
		echoAgent(t, eventBus, "Researcher", "findings"),
		echoAgent(t, eventBus, "Writer", "prose"),
	}
	manager := agent.CapabilityFunc(func(ctx context.Context, input string) (string, error) {
		if strings.Contains(input, "findings") {
			return "Writer should speak next", nil
		}
		return "Researcher should speak next", nil
	})

	service := New(eventBus, WithManagerCapability(manager))
	results, err := service.RunManagerRounds(context.Background(), agents, "investigate")
	require.NoError(t, err)
	// rounds = len(participants) + 2
	assert.Len(t, results, 4)
	for _, result := range results {
		assert.NotEqual(t, managerName, result.Agent, "the manager is not part of the participant accounting")
	}
	assert.Equal(t, "Researcher", results[0].Agent)
	assert.Equal(t, "Writer", results[1].Agent)

	events := eventBus.Snapshot()
	assert.Equal(t, 1, countType(events, event.TypeOrchestrationCompleted))
	// the manager's selection traffic never reaches the bus
	for _, anEvent := range events {
		assert.NotEqual(t, routingAgent, anEvent.Agent())
		assert.NotEqual(t, managerName, anEvent.Agent())
	}
}

func TestRunManagerRounds_MissingCapability(t *testing.T) {
	eventBus := newBus(t)
	service := New(eventBus)
	_, err := service.RunManagerRounds(context.Background(), []*agent.Agent{echoAgent(t, eventBus, "A", "x")}, "task")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manager capability")
}

func TestRunManagerRounds_ManagerFailureFatal(t *testing.T) {
	eventBus := newBus(t)
	agents := []*agent.Agent{echoAgent(t, eventBus, "A", "x")}
	manager := agent.CapabilityFunc(func(ctx context.Context, input string) (string, error) {
		return "", fmt.Errorf("invalid request")
	})

	service := New(eventBus, WithManagerCapability(manager))
	_, err := service.RunManagerRounds(context.Background(), agents, "task")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manager selection failed")
}

func TestParseSelection(t *testing.T) {
	names := []string{"Researcher", "Writer"}
	testCases := []struct {
		selection string
		round     int
		expect    string
	}{
		{"Writer should go", 0, "Writer"},
		{"I pick the researcher", 0, "Researcher"},
		{"both Writer and Researcher... Writer first", 0, "Writer"},
		{"no one mentioned", 0, "Researcher"},
		{"no one mentioned", 1, "Writer"},
	}
	for _, testCase := range testCases {
		actual := parseSelection(testCase.selection, names, testCase.round)
		assert.Equal(t, testCase.expect, actual, testCase.selection)
	}
}
