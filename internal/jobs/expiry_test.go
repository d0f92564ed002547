package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type testExpirer struct {
	mu     sync.Mutex
	graces []int
	err    error
	calls  chan struct{}
}

func newTestExpirer() *testExpirer {
	return &testExpirer{calls: make(chan struct{}, 8)}
}

func (e *testExpirer) ExpireOverdue(ctx context.Context, graceDays int) (int, error) {
	e.mu.Lock()
	e.graces = append(e.graces, graceDays)
	e.mu.Unlock()

	select {
	case e.calls <- struct{}{}:
	default:
	}
	if e.err != nil {
		return 0, e.err
	}
	return 2, nil
}

func TestNewExpirySweeper_InvalidSchedule(t *testing.T) {
	if _, err := NewExpirySweeper(newTestExpirer(), "every hour", 3, nil); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}
	if _, err := NewExpirySweeper(nil, "@every 1h", 3, nil); err == nil {
		t.Fatalf("expected error for nil service")
	}
}

func TestExpirySweeper_RunOnce(t *testing.T) {
	exp := newTestExpirer()
	s, err := NewExpirySweeper(exp, "0 3 * * *", 5, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	n, err := s.RunOnce(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("expected 2 expired, got %d %v", n, err)
	}
	if len(exp.graces) != 1 || exp.graces[0] != 5 {
		t.Fatalf("expected grace 5, got %v", exp.graces)
	}

	exp.err = errors.New("db down")
	if _, err := s.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected error to propagate")
	}
}

func TestExpirySweeper_RunsOnSchedule(t *testing.T) {
	exp := newTestExpirer()
	s, err := NewExpirySweeper(exp, "@every 1s", 3, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	select {
	case <-exp.calls:
	case <-time.After(3 * time.Second):
		t.Fatalf("sweeper did not run")
	}
}
