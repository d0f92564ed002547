package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lawn-care-scheduler/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

// Expirer lo cumple *treatments.Service.
type Expirer interface {
	ExpireOverdue(ctx context.Context, graceDays int) (int, error)
}

const defaultRunTimeout = 2 * time.Minute

// ExpirySweeper marca como expired los tratamientos activos vencidos
// según un spec de cron (p.ej. "@every 1h" o "0 3 * * *").
type ExpirySweeper struct {
	cron      *cron.Cron
	svc       Expirer
	graceDays int
	log       logger.Logger
	timeout   time.Duration
}

func NewExpirySweeper(svc Expirer, spec string, graceDays int, log logger.Logger) (*ExpirySweeper, error) {
	if svc == nil {
		return nil, fmt.Errorf("expiry sweeper: nil service")
	}
	if log == nil {
		log = logger.Discard()
	}

	s := &ExpirySweeper{
		// una corrida a la vez
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		svc:       svc,
		graceDays: graceDays,
		log:       log.With(map[string]any{"job": "expiry"}),
		timeout:   defaultRunTimeout,
	}

	spec = strings.TrimSpace(spec)
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("expiry sweeper: invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *ExpirySweeper) Start() {
	s.log.Info("expiry sweeper started", map[string]any{"grace_days": s.graceDays})
	s.cron.Start()
}

// Stop espera a que termine la corrida en curso o a que venza ctx.
func (s *ExpirySweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("expiry sweeper stop timed out", nil)
	}
}

// RunOnce ejecuta un barrido fuera del cron (CLI y tests).
func (s *ExpirySweeper) RunOnce(ctx context.Context) (int, error) {
	return s.svc.ExpireOverdue(ctx, s.graceDays)
}

func (s *ExpirySweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.RunOnce(ctx)
	if err != nil {
		s.log.Error("expiry sweep failed", map[string]any{"error": err.Error()})
		return
	}
	s.log.Debug("expiry sweep done", map[string]any{
		"expired":     n,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}
