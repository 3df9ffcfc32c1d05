package worker

import (
	"context"
	"math/rand"
	"time"

	"github.com/orbitpay/gateway/internal/config"
	"github.com/orbitpay/gateway/internal/domain/model"
)

// Outcome is a simulated settlement result.
type Outcome struct {
	Success bool
}

// SettlementSimulator stands in for the payment network. Tests inject a
// deterministic implementation.
type SettlementSimulator interface {
	Simulate(ctx context.Context, method model.PaymentMethod) (Outcome, error)
}

// RandomSimulator draws the outcome from a per-method success rate after a
// configurable processing delay.
type RandomSimulator struct {
	cfg config.SimulatorConfig
}

// NewRandomSimulator creates a simulator from config.
func NewRandomSimulator(cfg config.SimulatorConfig) *RandomSimulator {
	return &RandomSimulator{cfg: cfg}
}

func (s *RandomSimulator) Simulate(ctx context.Context, method model.PaymentMethod) (Outcome, error) {
	if err := sleepCtx(ctx, s.cfg.ProcessingDelay); err != nil {
		return Outcome{}, err
	}

	rate := s.cfg.CardSuccessRate
	if method == model.PaymentMethodUPI {
		rate = s.cfg.UPISuccessRate
	}

	return Outcome{Success: rand.Float64() < rate}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
