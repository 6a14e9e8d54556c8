package llm

import (
	"context"
	"testing"
	"time"

	"randomwalk/pkg/core/faults"
	"randomwalk/pkg/core/prompt"
)

// --- Mocks ---

type mockProvider struct {
	generateFunc   func(attempt int) (string, error)
	credentialsErr error
	calls          int
}

func (m *mockProvider) Generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	m.calls++
	if m.generateFunc != nil {
		return m.generateFunc(m.calls)
	}
	return "ok", nil
}

func (m *mockProvider) CheckCredentials() error { return m.credentialsErr }

func newTestGateway(p Provider) (*Gateway, *[]time.Duration) {
	manager := NewManager(Config{ActiveProvider: "mock", DefaultModel: "mock-model"})
	manager.RegisterProvider("mock", p)

	g := NewGateway(manager)
	var waits []time.Duration
	g.wait = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return g, &waits
}

var testPair = prompt.Pair{System: "sys", User: "user"}

// --- Tests ---

func TestCallSucceedsFirstAttempt(t *testing.T) {
	p := &mockProvider{}
	g, waits := newTestGateway(p)

	out, err := g.Call(context.Background(), "mock-model", testPair)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out != "ok" {
		t.Errorf("output = %q", out)
	}
	if p.calls != 1 || len(*waits) != 0 {
		t.Errorf("calls=%d waits=%v, want one call and no backoff", p.calls, *waits)
	}
}

func TestCallRetriesRateLimitThenSucceeds(t *testing.T) {
	p := &mockProvider{generateFunc: func(attempt int) (string, error) {
		if attempt <= 2 {
			return "", faults.Gateway(429, "rate limited")
		}
		return "payload", nil
	}}
	g, waits := newTestGateway(p)

	out, err := g.Call(context.Background(), "mock-model", testPair)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out != "payload" {
		t.Errorf("output = %q", out)
	}
	if p.calls != 3 {
		t.Errorf("calls = %d, want 3", p.calls)
	}

	// Backoff doubles per attempt.
	want := []time.Duration{DefaultBaseDelay, 2 * DefaultBaseDelay}
	if len(*waits) != len(want) {
		t.Fatalf("waits = %v, want %v", *waits, want)
	}
	for i := range want {
		if (*waits)[i] != want[i] {
			t.Errorf("backoff[%d] = %v, want %v", i, (*waits)[i], want[i])
		}
	}
}

func TestCallExhaustsRetries(t *testing.T) {
	p := &mockProvider{generateFunc: func(int) (string, error) {
		return "", faults.Gateway(429, "rate limited")
	}}
	g, _ := newTestGateway(p)

	_, err := g.Call(context.Background(), "mock-model", testPair)
	if faults.KindOf(err) != faults.GatewayExhausted {
		t.Fatalf("expected GatewayExhausted, got %v", err)
	}
	if p.calls != DefaultMaxAttempts {
		t.Errorf("calls = %d, want %d", p.calls, DefaultMaxAttempts)
	}
}

func TestCallNonRetryableFailsImmediately(t *testing.T) {
	p := &mockProvider{generateFunc: func(int) (string, error) {
		return "", faults.Gateway(400, "bad request")
	}}
	g, waits := newTestGateway(p)

	_, err := g.Call(context.Background(), "mock-model", testPair)
	if faults.KindOf(err) != faults.GatewayRequest {
		t.Fatalf("expected GatewayRequest, got %v", err)
	}
	if p.calls != 1 || len(*waits) != 0 {
		t.Errorf("non-retryable failure must not retry: calls=%d waits=%v", p.calls, *waits)
	}
}

func TestCallMissingCredentialBeforeNetwork(t *testing.T) {
	p := &mockProvider{credentialsErr: faults.New(faults.MissingCredential, "no key")}
	g, _ := newTestGateway(p)

	_, err := g.Call(context.Background(), "mock-model", testPair)
	if faults.KindOf(err) != faults.MissingCredential {
		t.Fatalf("expected MissingCredential, got %v", err)
	}
	if p.calls != 0 {
		t.Errorf("no network attempt should happen, got %d calls", p.calls)
	}
}

func TestCallTimeoutDuringModelCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &mockProvider{generateFunc: func(int) (string, error) {
		cancel()
		return "", context.Canceled
	}}
	g, _ := newTestGateway(p)

	_, err := g.Call(ctx, "mock-model", testPair)
	if faults.KindOf(err) != faults.Timeout {
		t.Fatalf("expected Timeout, got %v", err)
	}
}

func TestCallDefaultsModelID(t *testing.T) {
	var seenModel string
	manager := NewManager(Config{ActiveProvider: "mock", DefaultModel: "mock-default"})
	p := &mockProvider{}
	p.generateFunc = func(int) (string, error) { return "ok", nil }
	manager.RegisterProvider("mock", &recordingProvider{inner: p, model: &seenModel})

	g := NewGateway(manager)
	if _, err := g.Call(context.Background(), "", testPair); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if seenModel != "mock-default" {
		t.Errorf("model = %q, want the configured default", seenModel)
	}
}

type recordingProvider struct {
	inner *mockProvider
	model *string
}

func (r *recordingProvider) Generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	*r.model = model
	return r.inner.Generate(ctx, model, systemPrompt, userPrompt)
}

func (r *recordingProvider) CheckCredentials() error { return r.inner.CheckCredentials() }

func TestBackoffSchedule(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: 6 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 6 * time.Second}, // capped
		{10, 6 * time.Second},
	}
	for _, tc := range tests {
		if got := policy.Backoff(tc.attempt); got != tc.want {
			t.Errorf("Backoff(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestIsRateLimit(t *testing.T) {
	if !IsRateLimit(faults.Gateway(429, "slow down")) {
		t.Errorf("429 fault should be retryable")
	}
	if IsRateLimit(faults.Gateway(400, "bad")) {
		t.Errorf("400 fault should not be retryable")
	}
	if !IsRateLimit(faults.New(faults.GatewayRequest, "RESOURCE_EXHAUSTED: quota exceeded")) {
		t.Errorf("RESOURCE_EXHAUSTED should be retryable")
	}
	if IsRateLimit(nil) {
		t.Errorf("nil is not a rate limit")
	}
}
