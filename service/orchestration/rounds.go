package orchestration

import (
	"context"

	"github.com/viant/ensemble/service/agent"
	"github.com/viant/ensemble/tracing"
)

// Selector maps the current round index to the next speaker's name.
type Selector func(round int, participants []string) string

// RoundRobin selects participants[round % len(participants)].
func RoundRobin(round int, participants []string) string {
	return participants[round%len(participants)]
}

// RunRounds runs a fixed number of rounds over an ordered participant list,
// the selector choosing each round's speaker. A nil selector falls back to
// round-robin; a non-positive maxRounds falls back to the default budget.
// Each speaker sees the transcript accumulated so far.
func (s *Service) RunRounds(ctx context.Context, agents []*agent.Agent, input string, selector Selector, maxRounds int) ([]Result, error) {
	if err := validate(agents); err != nil {
		return nil, err
	}
	if selector == nil {
		selector = RoundRobin
	}
	if maxRounds <= 0 {
		maxRounds = DefaultRounds
	}
	ctx, span := tracing.StartSpan(ctx, "orchestration.rounds", "INTERNAL")
	defer span.OnDone()

	s.started("rounds", agents)
	names := participants(agents)
	var results []Result
	for round := 0; round < maxRounds; round++ {
		speaker := lookup(agents, selector(round, names))
		if speaker == nil {
			continue
		}
		output, err := s.step(ctx, speaker, transcriptContext(input, results), nil)
		if err != nil {
			span.SetStatus(err)
			return results, err
		}
		results = append(results, Result{Agent: speaker.Name(), Text: output})
	}
	s.completed("rounds")
	span.SetStatus(nil)
	return results, nil
}
