package orchestration

import (
	"context"
	"sync"

	"github.com/viant/ensemble/service/agent"
	"github.com/viant/ensemble/tracing"
)

// RunFanOut invokes all agents concurrently with the same input and gathers
// their outputs as they complete. Failures are isolated per participant: a
// failed agent's slot is omitted from the results while its siblings run to
// completion; result order follows completion time and is nondeterministic.
func (s *Service) RunFanOut(ctx context.Context, agents []*agent.Agent, input string) ([]Result, error) {
	if err := validate(agents); err != nil {
		return nil, err
	}
	ctx, span := tracing.StartSpan(ctx, "orchestration.fanout", "INTERNAL")
	defer span.OnDone()

	s.started("fanout", agents)
	var mu sync.Mutex
	var results []Result
	var wg sync.WaitGroup
	for _, ag := range agents {
		wg.Add(1)
		go func(ag *agent.Agent) {
			defer wg.Done()
			output, err := s.step(ctx, ag, input, nil)
			if err != nil {
				return
			}
			mu.Lock()
			results = append(results, Result{Agent: ag.Name(), Text: output})
			mu.Unlock()
		}(ag)
	}
	wg.Wait()
	s.completed("fanout")
	span.SetStatus(nil)
	return results, nil
}
