// Package agent wraps a single text-in/text-out capability with identity,
// retry policy and event emission, making every invocation observable and
// resilient without the capability knowing about either.
package agent

import (
	"context"
	"log"
	"time"

	"github.com/viant/ensemble/internal/clock"
	"github.com/viant/ensemble/internal/idgen"
	"github.com/viant/ensemble/model/event"
	"github.com/viant/ensemble/service/bus"
	"github.com/viant/ensemble/tracing"
)

const (
	// PublishedInputLimit caps the input excerpt published on the bus.
	PublishedInputLimit = 200
	// PublishedOutputLimit caps the output excerpt published on the bus.
	PublishedOutputLimit = 500
)

// Capability is the underlying text-generation service an agent drives. It is
// owned by an external collaborator.
type Capability interface {
	Complete(ctx context.Context, input string) (string, error)
}

// CapabilityFunc adapts a plain function to Capability.
type CapabilityFunc func(ctx context.Context, input string) (string, error)

// Complete implements Capability.
func (f CapabilityFunc) Complete(ctx context.Context, input string) (string, error) {
	return f(ctx, input)
}

// Agent makes one capability observable: each Run mints a correlation id,
// emits lifecycle events on the shared bus and retries transient failures.
type Agent struct {
	name       string
	capability Capability
	bus        *bus.Service
	retry      Retry
}

// Option customises an agent.
type Option func(a *Agent)

// WithRetry overrides the retry policy.
func WithRetry(retry Retry) Option {
	return func(a *Agent) {
		a.retry = retry
	}
}

// New creates an agent facade. The bus is shared and injected; the agent owns
// only its capability.
func New(name string, capability Capability, eventBus *bus.Service, options ...Option) *Agent {
	a := &Agent{
		name:       name,
		capability: capability,
		bus:        eventBus,
		retry:      DefaultRetry(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Name returns the agent identity, unique within a run.
func (a *Agent) Name() string { return a.name }

// Run invokes the capability once or, on transient connectivity failures, up
// to the retry budget. It publishes started/message/completed events (error
// instead, on failure) and returns the untruncated output.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	runID := idgen.Short()
	ctx, span := tracing.StartSpan(ctx, "agent.run", "INTERNAL")
	span.WithAttributes(map[string]string{"agent.name": a.name, "agent.run_id": runID})
	defer span.OnDone()

	a.bus.Emit(event.TypeAgentStarted, map[string]interface{}{
		"agent":     a.name,
		"run_id":    runID,
		"input":     truncate(input, PublishedInputLimit),
		"timestamp": clock.Unix(),
	})

	output, err := a.Invoke(ctx, input)
	if err != nil {
		span.SetStatus(err)
		a.bus.Emit(event.TypeError, map[string]interface{}{
			"agent":     a.name,
			"run_id":    runID,
			"error":     err.Error(),
			"timestamp": clock.Unix(),
		})
		return "", err
	}

	span.SetStatus(nil)
	a.bus.Emit(event.TypeAgentMessage, map[string]interface{}{
		"agent":     a.name,
		"run_id":    runID,
		"message":   truncate(output, PublishedOutputLimit),
		"timestamp": clock.Unix(),
	})
	a.bus.Emit(event.TypeAgentCompleted, map[string]interface{}{
		"agent":     a.name,
		"run_id":    runID,
		"output":    truncate(output, PublishedOutputLimit),
		"timestamp": clock.Unix(),
	})
	return output, nil
}

// Invoke drives the capability through the retry policy without publishing
// any lifecycle events. Orchestration strategies use it directly and publish
// their own translated engine notifications instead.
func (a *Agent) Invoke(ctx context.Context, input string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= a.retry.MaxAttempts; attempt++ {
		output, err := a.capability.Complete(ctx, input)
		if err == nil {
			return output, nil
		}
		lastErr = err
		if !a.retry.IsTransient(err) {
			return "", &FatalError{Agent: a.name, Err: err}
		}
		if attempt == a.retry.MaxAttempts {
			break
		}
		log.Printf("[%s] retry %d/%d after connection error, waiting %s", a.name, attempt, a.retry.MaxAttempts, a.retry.Delay)
		if err := a.wait(ctx); err != nil {
			return "", &FatalError{Agent: a.name, Err: err}
		}
	}
	return "", &TransientError{Agent: a.name, Err: lastErr}
}

func (a *Agent) wait(ctx context.Context) error {
	if a.retry.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(a.retry.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
