package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/ensemble/service/agent"
	"github.com/viant/ensemble/tracing"
)

// managerName identifies the ad hoc coordinator created for manager-directed
// runs. It is not part of the participant accounting.
const managerName = "Manager"

// RunManagerRounds creates an ad hoc manager agent that picks each round's
// speaker. The run spans len(participants)+2 rounds. A missing manager
// capability is a hard configuration error rather than a silent fallback, so
// misconfiguration cannot masquerade as a working run; a manager failure
// mid-run is fatal to the whole run.
func (s *Service) RunManagerRounds(ctx context.Context, agents []*agent.Agent, input string) ([]Result, error) {
	if err := validate(agents); err != nil {
		return nil, err
	}
	if s.managerCapability == nil {
		return nil, fmt.Errorf("manager capability not configured")
	}
	manager := agent.New(managerName, s.managerCapability, s.bus)
	ctx, span := tracing.StartSpan(ctx, "orchestration.manager", "INTERNAL")
	defer span.OnDone()

	s.started("manager", agents)
	names := participants(agents)
	maxRounds := len(agents) + 2
	var results []Result
	for round := 0; round < maxRounds; round++ {
		selection, err := manager.Invoke(ctx, selectionPrompt(input, names, results))
		if err != nil {
			span.SetStatus(err)
			return results, fmt.Errorf("manager selection failed: %w", err)
		}
		// Selection traffic is routing noise; the translator drops it.
		s.publish(OutputMessage{Role: "assistant", Author: routingAgent, Text: selection}, nil)

		speaker := lookup(agents, parseSelection(selection, names, round))
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
	s.completed("manager")
	span.SetStatus(nil)
	return results, nil
}

func selectionPrompt(input string, names []string, transcript []Result) string {
	builder := &strings.Builder{}
	builder.WriteString("Coordinate the participants to complete the task.\n")
	fmt.Fprintf(builder, "Participants: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(builder, "Task: %s\n", input)
	if len(transcript) > 0 {
		builder.WriteString("Conversation so far:")
		for _, turn := range transcript {
			fmt.Fprintf(builder, "\n[%s] %s", turn.Agent, turn.Text)
		}
		builder.WriteString("\n")
	}
	builder.WriteString("Name the participant who should speak next.")
	return builder.String()
}

// parseSelection finds the first participant named in the manager's answer;
// when none is named the round falls back to round-robin order.
func parseSelection(selection string, names []string, round int) string {
	lowered := strings.ToLower(selection)
	best := -1
	chosen := ""
	for _, name := range names {
		if at := strings.Index(lowered, strings.ToLower(name)); at >= 0 && (best < 0 || at < best) {
			best = at
			chosen = name
		}
	}
	if chosen == "" {
		return names[round%len(names)]
	}
	return chosen
}
