package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/scamwatch/scamwatch/internal/config"
	"github.com/scamwatch/scamwatch/internal/digest"
	"github.com/sirupsen/logrus"
)

// Service schedules the periodic digest and the high-risk sweep
type Service struct {
	config        *config.Config
	digestService *digest.Service
	cron          *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, digestService *digest.Service) *Service {
	return &Service{
		config:        cfg,
		digestService: digestService,
		cron:          cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled runs
func (s *Service) Start() error {
	var cronExpression string

	switch s.config.DigestSchedule {
	case "weekly":
		// Weekly on Monday at 9 AM UTC
		cronExpression = "0 0 9 * * MON"
	default:
		// Daily at 9 AM UTC
		cronExpression = "0 0 9 * * *"
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Info("Starting scheduled digest run")
		if err := s.digestService.RunDigest(); err != nil {
			logrus.Errorf("Scheduled digest run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	// High-risk sweep every 4 hours
	_, err = s.cron.AddFunc("0 0 */4 * * *", func() {
		logrus.Info("Starting scheduled high-risk sweep")
		if err := s.digestService.RunHighRiskSweep(); err != nil {
			logrus.Errorf("High-risk sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s digest schedule (plus high-risk sweeps every 4 hours)", s.config.DigestSchedule)
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
