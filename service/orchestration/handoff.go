package orchestration

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/viant/ensemble/service/agent"
	"github.com/viant/ensemble/tracing"
)

// Termination decides, after each turn, whether a hand-off conversation is
// finished. It is evaluated against the accumulated transcript.
type Termination func(transcript []Result) bool

// handoffState tracks the hand-off conversation: idle before the first turn,
// active while a designated agent holds control, terminated once the
// termination predicate fires or the safety cap is hit. There is no
// transition out of terminated.
type handoffState int

const (
	handoffIdle handoffState = iota
	handoffActive
	handoffTerminated
)

// RunHandoff starts at the designated agent and transfers control according
// to explicit hand-off signals in agent output. The conversation ends when
// the termination predicate fires (default: transcript reaching twice the
// round budget) or when the notification safety cap forces completion; the
// cap is an early exit, not an error.
func (s *Service) RunHandoff(ctx context.Context, agents []*agent.Agent, input string, startAgent string, terminate Termination) ([]Result, error) {
	if err := validate(agents); err != nil {
		return nil, err
	}
	current := agents[0]
	if startAgent != "" {
		if current = lookup(agents, startAgent); current == nil {
			return nil, fmt.Errorf("start agent %s is not a participant", startAgent)
		}
	}
	if terminate == nil {
		maxTurns := 2 * s.maxRounds
		terminate = func(transcript []Result) bool { return len(transcript) >= maxTurns }
	}
	ctx, span := tracing.StartSpan(ctx, "orchestration.handoff", "INTERNAL")
	defer span.OnDone()

	s.started("handoff", agents)
	maxNotifications := s.maxRounds * notificationsPerRound
	count := 0
	var transcript []Result

	for state := handoffActive; state == handoffActive; {
		if count >= maxNotifications {
			log.Printf("handoff reached max notifications (%d); forcing completion", maxNotifications)
			state = handoffTerminated
			break
		}
		output, err := s.step(ctx, current, transcriptContext(input, transcript), &count)
		if err != nil {
			span.SetStatus(err)
			return transcript, err
		}
		transcript = append(transcript, Result{Agent: current.Name(), Text: output})
		if terminate(transcript) {
			state = handoffTerminated
			break
		}
		if target, ok := parseHandoff(output); ok {
			next := lookup(agents, target)
			if next == nil {
				log.Printf("handoff target %s is not a participant; keeping %s", target, current.Name())
				continue
			}
			if next != current {
				s.publish(HandoffSent{From: current.Name(), To: next.Name(), Message: "Handoff"}, &count)
				current = next
			}
		}
	}
	s.completed("handoff")
	span.SetStatus(nil)
	return transcript, nil
}

// parseHandoff extracts an explicit routing signal from agent output. The
// signal is a line of the form "HANDOFF: <name>" or "HANDOFF -> <name>"; the
// last one wins.
func parseHandoff(output string) (string, bool) {
	target := ""
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "HANDOFF") {
			continue
		}
		rest := strings.TrimPrefix(line, "HANDOFF")
		rest = strings.TrimLeft(rest, " :")
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "->"))
		if rest != "" {
			target = rest
		}
	}
	return target, target != ""
}
