package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/waselhq/wasel/internal/clock"
	obsmetrics "github.com/waselhq/wasel/internal/observability/metrics"
	settlementdomain "github.com/waselhq/wasel/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	Log           *zap.Logger
	Clock         clock.Clock
	SettlementSvc settlementdomain.Service
	Metrics       *obsmetrics.Metrics `optional:"true"`
	Config        Config              `optional:"true"`
}

// Scheduler closes weekly periods once their Friday has passed and keeps an
// active period open at all times.
type Scheduler struct {
	log           *zap.Logger
	cfg           Config
	clock         clock.Clock
	settlementSvc settlementdomain.Service
	metrics       *obsmetrics.Metrics
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.SettlementSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:           p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:           p.Config.withDefaults(),
		clock:         p.Clock,
		settlementSvc: p.SettlementSvc,
		metrics:       p.Metrics,
	}, nil
}

// RunOnce ensures an active period exists and closes it when its week has
// elapsed. ClosePeriod opens the successor, so the next tick sees a fresh
// active period.
func (s *Scheduler) RunOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	period, err := s.settlementSvc.ActivePeriod(ctx)
	if err != nil {
		return err
	}

	// EndDate is the start of the period's Friday; the week is over once
	// the following day begins.
	expiresAt := period.EndDate.AddDate(0, 0, 1)
	if s.clock.Now().Before(expiresAt) {
		if s.metrics != nil {
			s.metrics.IncSettlementRun(obsmetrics.SettlementOutcomeSkipped)
		}
		return nil
	}

	result, err := s.settlementSvc.ClosePeriod(ctx, period.ID)
	if err != nil {
		// Another instance may have closed the same period between our
		// read and the close attempt.
		if errors.Is(err, settlementdomain.ErrPeriodNotActive) {
			s.log.Info("period already closed elsewhere",
				zap.String("period_id", period.ID.String()),
			)
			return nil
		}
		return err
	}

	s.log.Info("weekly period settled",
		zap.String("period_id", result.Period.ID.String()),
		zap.String("next_period_id", result.NextPeriod.ID.String()),
		zap.Int("shop_settlements", len(result.ShopSettlements)),
		zap.Int("rider_settlements", len(result.RiderSettlements)),
		zap.Float64("net_revenue", result.AdminSummary.NetRevenue),
	)
	return nil
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
