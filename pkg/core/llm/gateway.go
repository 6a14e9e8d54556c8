package llm

import (
	"context"
	"fmt"
	"time"

	"randomwalk/pkg/core/faults"
	"randomwalk/pkg/core/prompt"
)

// Gateway performs one external model invocation, including bounded retry
// with exponential backoff on rate-limit responses. It never interprets
// model output.
type Gateway struct {
	manager *Manager
	policy  RetryPolicy

	// wait is replaceable in tests to observe the backoff schedule.
	wait func(ctx context.Context, d time.Duration) error
}

// NewGateway creates a gateway over the manager with the default retry
// policy.
func NewGateway(manager *Manager) *Gateway {
	return NewGatewayWithPolicy(manager, DefaultRetryPolicy())
}

// NewGatewayWithPolicy creates a gateway with an explicit retry policy.
func NewGatewayWithPolicy(manager *Manager, policy RetryPolicy) *Gateway {
	return &Gateway{
		manager: manager,
		policy:  policy,
		wait:    sleepContext,
	}
}

// DefaultModelID returns the configured default model identifier.
func (g *Gateway) DefaultModelID() string {
	return g.manager.DefaultModelID()
}

// Call sends the prompt pair to the model and returns the raw output text.
// Missing credentials fail before any network attempt. Rate-limit failures
// are retried up to the policy bound with doubling backoff; other API
// failures surface immediately.
func (g *Gateway) Call(ctx context.Context, modelID string, pair prompt.Pair) (string, error) {
	if modelID == "" {
		modelID = g.manager.DefaultModelID()
	}
	provider := g.manager.Route(modelID)
	if provider == nil {
		return "", faults.New(faults.GatewayRequest, "no provider for model %q", modelID)
	}
	if err := provider.CheckCredentials(); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < g.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := g.policy.Backoff(attempt - 1)
			fmt.Printf("[GATEWAY] Rate limited on %s, retrying in %v (attempt %d/%d)\n",
				modelID, backoff, attempt+1, g.policy.MaxAttempts)
			if err := g.wait(ctx, backoff); err != nil {
				return "", faults.Wrap(faults.Timeout, err, "analysis timed out during backoff")
			}
		}

		out, err := provider.Generate(ctx, modelID, pair.System, pair.User)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return "", faults.Wrap(faults.Timeout, ctx.Err(), "analysis timed out during model call")
		}
		if faults.IsKind(err, faults.MissingCredential) {
			return "", err
		}
		if !g.policy.Retryable(err) {
			if faults.KindOf(err) != faults.Unknown {
				return "", err
			}
			return "", faults.Wrap(faults.GatewayRequest, err, "model call failed")
		}
		lastErr = err
	}

	return "", faults.Wrap(faults.GatewayExhausted, lastErr,
		"model %s still rate limited after %d attempts", modelID, g.policy.MaxAttempts)
}

// sleepContext waits for d or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
