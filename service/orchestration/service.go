// Package orchestration drives a set of agents through one of five fixed
// execution topologies and exposes every step of the execution as events on
// the shared bus: strict chain, fan-out/fan-in, hand-off with dynamic
// routing, round-robin rounds and manager-directed rounds.
package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/ensemble/internal/clock"
	"github.com/viant/ensemble/internal/idgen"
	"github.com/viant/ensemble/model/event"
	"github.com/viant/ensemble/service/agent"
	"github.com/viant/ensemble/service/bus"
)

const (
	// DefaultHandoffRounds bounds the hand-off conversation length.
	DefaultHandoffRounds = 6
	// DefaultRounds is the round budget for round-robin runs.
	DefaultRounds = 4
	// notificationsPerRound scales the hand-off hard safety cap.
	notificationsPerRound = 50
)

// Result is one agent's contribution to an orchestration run.
type Result struct {
	Agent string `json:"agent"`
	Text  string `json:"text"`
}

// Service coordinates agents according to a topology and translates their
// lifecycle into bus events.
type Service struct {
	bus               *bus.Service
	maxRounds         int
	managerCapability agent.Capability
}

// Option customises the coordinator.
type Option func(s *Service)

// WithMaxRounds bounds hand-off conversations; it also scales the hard
// notification safety cap.
func WithMaxRounds(maxRounds int) Option {
	return func(s *Service) {
		if maxRounds > 0 {
			s.maxRounds = maxRounds
		}
	}
}

// WithManagerCapability supplies the capability backing the ad hoc manager
// agent of manager-directed runs. Manager runs fail without one.
func WithManagerCapability(capability agent.Capability) Option {
	return func(s *Service) {
		s.managerCapability = capability
	}
}

// New creates a coordinator bound to an event bus.
func New(eventBus *bus.Service, options ...Option) *Service {
	s := &Service{
		bus:       eventBus,
		maxRounds: DefaultHandoffRounds,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// publish routes a low-level notification through Translate and emits the
// resulting domain event, if any. The counter, when supplied, tracks the
// notification volume against the hand-off safety cap.
func (s *Service) publish(n Notification, count *int) {
	if count != nil {
		*count++
	}
	if eventType, data, ok := Translate(n); ok {
		s.bus.Emit(eventType, data)
	}
}

// step runs a single agent turn: invoked/output/completed notifications
// around the retrying capability call. A failure emits an error event before
// it propagates, so a replay of a failed run shows why it stopped.
func (s *Service) step(ctx context.Context, ag *agent.Agent, input string, count *int) (string, error) {
	runID := idgen.Short()
	s.publish(Invoked{ExecutorID: ag.Name(), RunID: runID, Input: input}, count)
	output, err := ag.Invoke(ctx, input)
	if err != nil {
		s.bus.Emit(event.TypeError, map[string]interface{}{
			"agent":     ag.Name(),
			"run_id":    runID,
			"error":     err.Error(),
			"timestamp": clock.Unix(),
		})
		return "", err
	}
	s.publish(OutputMessage{Role: "assistant", Author: ag.Name(), RunID: runID, Text: output}, count)
	s.publish(Completed{ExecutorID: ag.Name(), RunID: runID, Output: output}, count)
	return output, nil
}

// started emits the orchestration envelope opening event.
func (s *Service) started(pattern string, agents []*agent.Agent) {
	s.bus.Emit(event.TypeOrchestrationStarted, map[string]interface{}{
		"agent":        "Orchestrator",
		"pattern":      pattern,
		"participants": participants(agents),
		"timestamp":    clock.Unix(),
	})
}

// completed emits the orchestration envelope closing event. It is emitted on
// success and on defined early exits; a fatal worker failure leaves the
// envelope open because the error event already explains the stop.
func (s *Service) completed(pattern string) {
	s.bus.Emit(event.TypeOrchestrationCompleted, map[string]interface{}{
		"agent":     "Orchestrator",
		"pattern":   pattern,
		"timestamp": clock.Unix(),
	})
}

func participants(agents []*agent.Agent) []string {
	names := make([]string, 0, len(agents))
	for _, ag := range agents {
		names = append(names, ag.Name())
	}
	return names
}

func lookup(agents []*agent.Agent, name string) *agent.Agent {
	for _, ag := range agents {
		if ag.Name() == name {
			return ag
		}
	}
	return nil
}

// transcriptContext renders the original input plus every turn so far, each
// labelled with its author, as the next agent's input.
func transcriptContext(input string, turns []Result) string {
	builder := &strings.Builder{}
	builder.WriteString(input)
	for _, turn := range turns {
		fmt.Fprintf(builder, "\n\n[%s]\n%s", turn.Agent, turn.Text)
	}
	return builder.String()
}

func validate(agents []*agent.Agent) error {
	if len(agents) == 0 {
		return fmt.Errorf("at least one agent is required")
	}
	seen := map[string]bool{}
	for _, ag := range agents {
		if seen[ag.Name()] {
			return fmt.Errorf("duplicate agent name: %s", ag.Name())
		}
		seen[ag.Name()] = true
	}
	return nil
}
