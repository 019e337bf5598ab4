package service

import (
	"context"

	"golang-etf-news-bot/pkg/logger"
	"golang-etf-news-bot/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService triggers digest runs on a cron schedule.
type SchedulerService interface {
	Start(ctx context.Context) error
}

type schedulerService struct {
	digestService  DigestService
	cronExpression string
	logger         *logger.Logger
}

// NewSchedulerService creates a new cron-driven scheduler for the digest.
func NewSchedulerService(digestService DigestService, cronExpression string, log *logger.Logger) SchedulerService {
	return &schedulerService{
		digestService:  digestService,
		cronExpression: cronExpression,
		logger:         log,
	}
}

// Start registers the digest job and blocks until the context is cancelled.
func (s *schedulerService) Start(ctx context.Context) error {
	c := cron.New()

	_, err := c.AddFunc(s.cronExpression, func() {
		if !utils.ShouldContinue(ctx, s.logger) {
			return
		}
		s.logger.Info("Scheduled digest run triggered",
			logger.StringField("cron", s.cronExpression),
		)
		if _, err := s.digestService.Run(ctx); err != nil {
			s.logger.Error("Scheduled digest run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	s.logger.Info("Scheduler started", logger.StringField("cron", s.cronExpression))

	<-ctx.Done()
	s.logger.Info("Scheduler stopping")
	<-c.Stop().Done()
	return nil
}
