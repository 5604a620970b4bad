package ensemble

import (
	"github.com/viant/ensemble/model/topology"
	"github.com/viant/ensemble/service/agent"
)

// Option customises a session.
type Option func(s *Session)

// WithLogDir enables JSONL run logging under the supplied directory.
func WithLogDir(dir string) Option {
	return func(s *Session) {
		s.logDir = dir
	}
}

// WithRetry sets the retry policy applied to every session agent.
func WithRetry(retry agent.Retry) Option {
	return func(s *Session) {
		s.retry = retry
	}
}

// WithMaxRounds bounds hand-off conversations.
func WithMaxRounds(maxRounds int) Option {
	return func(s *Session) {
		s.maxRounds = maxRounds
	}
}

// WithManagerCapability supplies the capability backing the ad hoc manager of
// manager-directed runs.
func WithManagerCapability(capability agent.Capability) Option {
	return func(s *Session) {
		s.managerCapability = capability
	}
}

// WithAgent registers a participant. Registration order is the participant
// order strategies see.
func WithAgent(name string, capability agent.Capability) Option {
	return func(s *Session) {
		s.agentSpecs = append(s.agentSpecs, agentSpec{name: name, capability: capability})
	}
}

// WithTopology attaches a display topology; participants are validated
// against it when the session is created.
func WithTopology(t *topology.Topology) Option {
	return func(s *Session) {
		s.topology = t
	}
}
