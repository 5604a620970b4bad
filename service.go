package ensemble

import (
	"context"
	"fmt"

	"github.com/viant/ensemble/model/topology"
	"github.com/viant/ensemble/service/agent"
	"github.com/viant/ensemble/service/bus"
	"github.com/viant/ensemble/service/orchestration"
)

// Session owns the state of one run: the event bus, the coordinator and the
// named agent set. It replaces ambient "current run" globals with an explicit
// object the process boundary passes around.
type Session struct {
	bus         *bus.Service
	coordinator *orchestration.Service
	agents      []*agent.Agent
	topology    *topology.Topology

	logDir            string
	retry             agent.Retry
	maxRounds         int
	managerCapability agent.Capability
	agentSpecs        []agentSpec
}

type agentSpec struct {
	name       string
	capability agent.Capability
}

// New wires a session: one bus, one coordinator and the configured agents.
func New(options ...Option) (*Session, error) {
	s := &Session{retry: agent.DefaultRetry()}
	for _, option := range options {
		option(s)
	}

	var busOptions []bus.Option
	if s.logDir != "" {
		busOptions = append(busOptions, bus.WithLogDir(s.logDir))
	}
	eventBus, err := bus.New(busOptions...)
	if err != nil {
		return nil, err
	}
	s.bus = eventBus

	for _, spec := range s.agentSpecs {
		s.agents = append(s.agents, agent.New(spec.name, spec.capability, eventBus, agent.WithRetry(s.retry)))
	}

	var coordinatorOptions []orchestration.Option
	if s.maxRounds > 0 {
		coordinatorOptions = append(coordinatorOptions, orchestration.WithMaxRounds(s.maxRounds))
	}
	if s.managerCapability != nil {
		coordinatorOptions = append(coordinatorOptions, orchestration.WithManagerCapability(s.managerCapability))
	}
	s.coordinator = orchestration.New(eventBus, coordinatorOptions...)

	if s.topology != nil {
		if err := s.topology.Validate(s.participants()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Bus returns the session event bus.
func (s *Session) Bus() *bus.Service { return s.bus }

// Coordinator returns the session orchestration coordinator.
func (s *Session) Coordinator() *orchestration.Service { return s.coordinator }

// Agents returns the session agents in registration order.
func (s *Session) Agents() []*agent.Agent { return s.agents }

// Agent returns the named agent, or nil.
func (s *Session) Agent(name string) *agent.Agent {
	for _, ag := range s.agents {
		if ag.Name() == name {
			return ag
		}
	}
	return nil
}

// Topology returns the display topology attached to the session, if any.
func (s *Session) Topology() *topology.Topology { return s.topology }

// Reset clears the in-memory event list so the session can host a fresh run.
// Log lines already on disk remain.
func (s *Session) Reset() { s.bus.Clear() }

// Close releases the run log file handle.
func (s *Session) Close() error { return s.bus.Close() }

// Run dispatches to the orchestration strategy named by pattern: chain,
// fanout, handoff, rounds or manager.
func (s *Session) Run(ctx context.Context, pattern, input string) ([]orchestration.Result, error) {
	switch pattern {
	case "chain":
		return s.coordinator.RunChain(ctx, s.agents, input)
	case "fanout":
		return s.coordinator.RunFanOut(ctx, s.agents, input)
	case "handoff":
		return s.coordinator.RunHandoff(ctx, s.agents, input, "", nil)
	case "rounds":
		return s.coordinator.RunRounds(ctx, s.agents, input, nil, 0)
	case "manager":
		return s.coordinator.RunManagerRounds(ctx, s.agents, input)
	}
	return nil, fmt.Errorf("unknown pattern: %s", pattern)
}

func (s *Session) participants() []string {
	names := make([]string, 0, len(s.agents))
	for _, ag := range s.agents {
		names = append(names, ag.Name())
	}
	return names
}
