package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/config"
	"github.com/leadscout/backend/internal/services"
)

// Scheduler periodically refreshes every active campaign on a cron spec.
type Scheduler struct {
	cron      *cron.Cron
	campaigns *services.CampaignService
	log       *zap.Logger
}

func New(campaigns *services.CampaignService, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		campaigns: campaigns,
		log:       log,
	}
}

func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.log.Info("auto-refresh run started")
		runCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
		defer cancel()
		s.campaigns.RefreshAllActive(runCtx)
		s.log.Info("auto-refresh run finished")
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", zap.String("spec", spec))
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
