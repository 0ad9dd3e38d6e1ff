package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sportsight/dashboard-core/internal/retry"
)

func TestExecute_SucceedsAfterTransientFailure(t *testing.T) {
	policy := retry.NewPolicy(3, time.Millisecond)

	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, nil)

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestExecute_ExhaustsAttempts(t *testing.T) {
	policy := retry.NewPolicy(2, time.Millisecond)

	sentinel := errors.New("still broken")
	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		return sentinel
	}, nil)

	if err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("final error should wrap the last failure, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestExecute_NonRetryableStopsImmediately(t *testing.T) {
	policy := retry.NewPolicy(5, time.Millisecond)

	fatal := errors.New("bad request")
	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		return fatal
	}, func(err error) bool { return false })

	if !errors.Is(err, fatal) {
		t.Fatalf("expected the original error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("non-retryable error should stop after 1 call, got %d", calls)
	}
}

func TestExecute_ContextCancelsBackoff(t *testing.T) {
	policy := retry.NewPolicy(3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := policy.Execute(ctx, func() error { return errors.New("transient") }, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
