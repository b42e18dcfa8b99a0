// Package scheduler runs the periodic quote expiry sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/frostline/crm/internal/clock"
	"github.com/frostline/crm/internal/config"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	Clock        clock.Clock
	Config       config.Config
	QuotationSvc quotationdomain.Service
}

type Scheduler struct {
	log          *zap.Logger
	clock        clock.Clock
	interval     time.Duration
	quotationSvc quotationdomain.Service

	cancel context.CancelFunc
	done   chan struct{}
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:          p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		clock:        p.Clock,
		interval:     time.Duration(p.Config.QuoteExpirySweepInterval) * time.Second,
		quotationSvc: p.QuotationSvc,
	}
}

// SweepExpiredQuotes moves sent/viewed quotations past their validity date
// to expired. Safe to run repeatedly; already-expired rows never match.
func (s *Scheduler) SweepExpiredQuotes(ctx context.Context) error {
	now := s.clock.Now()
	affected, err := s.quotationSvc.ExpireStale(ctx, now)
	if err != nil {
		s.log.Error("quote expiry sweep failed", zap.Error(err))
		return err
	}
	if affected > 0 {
		s.log.Info("quote expiry sweep completed",
			zap.Int64("expired", affected),
			zap.Time("as_of", now),
		)
	}
	return nil
}

func (s *Scheduler) Start(_ context.Context) {
	if s.interval <= 0 {
		s.log.Info("quote expiry sweep disabled")
		return
	}

	// The loop outlives the fx OnStart context; it stops via Stop.
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = s.SweepExpiredQuotes(ctx)
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}
