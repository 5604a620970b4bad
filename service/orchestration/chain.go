package orchestration

import (
	"context"

	"github.com/viant/ensemble/service/agent"
	"github.com/viant/ensemble/tracing"
)

// RunChain invokes agents strictly in list order, each receiving the original
// input plus every previous agent's labelled output. The first failure aborts
// the remaining chain; already-emitted events stand.
func (s *Service) RunChain(ctx context.Context, agents []*agent.Agent, input string) ([]Result, error) {
	if err := validate(agents); err != nil {
		return nil, err
	}
	ctx, span := tracing.StartSpan(ctx, "orchestration.chain", "INTERNAL")
	defer span.OnDone()

	s.started("chain", agents)
	var results []Result
	for _, ag := range agents {
		output, err := s.step(ctx, ag, transcriptContext(input, results), nil)
		if err != nil {
			span.SetStatus(err)
			return results, err
		}
		results = append(results, Result{Agent: ag.Name(), Text: output})
	}
	s.completed("chain")
	span.SetStatus(nil)
	return results, nil
}
