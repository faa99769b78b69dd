// Package digest produces periodic activity summaries and the 4-hourly
// high-risk sweep over recently submitted reports.
package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/scamwatch/scamwatch/internal/archive"
	"github.com/scamwatch/scamwatch/internal/config"
	"github.com/scamwatch/scamwatch/internal/detector"
	"github.com/scamwatch/scamwatch/internal/graph"
	"github.com/scamwatch/scamwatch/internal/models"
	"github.com/scamwatch/scamwatch/internal/notifications"
	"github.com/scamwatch/scamwatch/internal/storage"
	"github.com/sirupsen/logrus"
)

// Service assembles and delivers digests and high-risk alerts
type Service struct {
	config              *config.Config
	store               storage.ReportStore
	notificationService notifications.NotificationInterface
	archive             archive.Archive // nil when archiving is not configured

	mu      sync.RWMutex
	lastRun time.Time
}

// NewService creates a new digest service. The archive may be nil.
func NewService(cfg *config.Config, store storage.ReportStore, notificationService notifications.NotificationInterface, arc archive.Archive) *Service {
	return &Service{
		config:              cfg,
		store:               store,
		notificationService: notificationService,
		archive:             arc,
	}
}

// RunDigest loads the reports of the last digest period, summarizes them
// and delivers the digest
func (s *Service) RunDigest() error {
	start := time.Now()
	logrus.Info("Starting digest run")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var window time.Duration
	switch s.config.DigestSchedule {
	case "weekly":
		window = 7 * 24 * time.Hour
	default:
		window = 24 * time.Hour
	}

	reports, err := s.store.ListReportsSince(ctx, start.Add(-window))
	if err != nil {
		logrus.Errorf("Failed to load reports for digest: %v", err)
		return err
	}
	logrus.Infof("Loaded %d reports for %s digest", len(reports), s.config.DigestSchedule)

	digest := s.buildDigest(reports, start)

	if err := s.archiveJSON(fmt.Sprintf("digest-%s.json", start.Format("2006-01-02-15-04-05")), digest); err != nil {
		logrus.Errorf("Failed to archive digest: %v", err)
		return err
	}

	if err := s.notificationService.SendDigest(digest); err != nil {
		logrus.Errorf("Failed to send digest: %v", err)
		return err
	}

	s.setLastRun(start)
	logrus.Infof("Digest run completed in %v", time.Since(start))
	return nil
}

func (s *Service) buildDigest(reports []models.Report, now time.Time) *models.Digest {
	digest := &models.Digest{
		GeneratedAt:   now,
		Period:        s.config.DigestSchedule,
		TotalReports:  len(reports),
		Trending:      graph.RankTrending(reports, now),
		RiskBreakdown: make(map[string]int),
	}

	domainCount := make(map[string]int)
	for _, report := range reports {
		result, err := detector.Scan(report.Type, report.Content)
		if err != nil {
			// Stored reports are validated on creation; don't let a bad
			// row break the digest
			logrus.Warnf("Skipping unscannable report %s: %v", report.ID, err)
			continue
		}
		digest.RiskBreakdown[result.RiskLevel]++

		if domain := graph.NormalizeDomain(report.Domain); domain != "" {
			domainCount[domain]++
		}
	}

	digest.TopDomains = topDomains(domainCount, 5)
	return digest
}

func topDomains(domainCount map[string]int, limit int) []string {
	type domainScore struct {
		domain string
		count  int
	}

	var scores []domainScore
	for domain, count := range domainCount {
		scores = append(scores, domainScore{domain, count})
	}

	// Simple sort by count (descending)
	for i := 0; i < len(scores)-1; i++ {
		for j := i + 1; j < len(scores); j++ {
			if scores[j].count > scores[i].count {
				scores[i], scores[j] = scores[j], scores[i]
			}
		}
	}

	var top []string
	for i, score := range scores {
		if i >= limit {
			break
		}
		top = append(top, fmt.Sprintf("%s (%d)", score.domain, score.count))
	}
	return top
}

// RunHighRiskSweep re-scores reports submitted in the last four hours and
// alerts when any of them classify as high risk
func (s *Service) RunHighRiskSweep() error {
	start := time.Now()
	logrus.Info("Starting high-risk sweep")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reports, err := s.store.ListReportsSince(ctx, start.Add(-4*time.Hour))
	if err != nil {
		logrus.Errorf("Failed to load reports for sweep: %v", err)
		return err
	}

	var highRisk []models.Report
	for _, report := range reports {
		result, err := detector.Scan(report.Type, report.Content)
		if err != nil {
			logrus.Warnf("Skipping unscannable report %s: %v", report.ID, err)
			continue
		}
		if result.RiskLevel == models.RiskHigh {
			highRisk = append(highRisk, report)
		}
	}

	if len(highRisk) == 0 {
		logrus.Info("No high-risk reports found")
		return nil
	}

	logrus.Infof("Found %d high-risk reports, sending alert", len(highRisk))

	if err := s.archiveJSON(fmt.Sprintf("high-risk-%s.json", start.Format("2006-01-02-15-04-05")), highRisk); err != nil {
		logrus.Errorf("Failed to archive high-risk reports: %v", err)
		return err
	}

	alert := &models.Alert{
		Type:      "high-risk",
		Title:     "🚨 High-Risk Scam Reports",
		Message:   fmt.Sprintf("%d report(s) submitted in the last 4 hours scored as high scam risk: %s", len(highRisk), summarizeReports(highRisk)),
		Reports:   highRisk,
		CreatedAt: start,
	}
	if err := s.notificationService.SendAlert(alert); err != nil {
		logrus.Errorf("Failed to send high-risk alert: %v", err)
		return err
	}

	logrus.Infof("High-risk sweep completed in %v", time.Since(start))
	return nil
}

func summarizeReports(reports []models.Report) string {
	var parts []string
	limit := 3
	if len(reports) < limit {
		limit = len(reports)
	}
	for i := 0; i < limit; i++ {
		report := reports[i]
		subject := report.Domain
		if subject == "" {
			subject = report.Phone
		}
		if subject == "" {
			subject = report.Type
		}
		parts = append(parts, subject)
	}
	if len(reports) > limit {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

func (s *Service) archiveJSON(filename string, v any) error {
	if s.archive == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filename, err)
	}
	return s.archive.Store(filename, data)
}

// LastRun reports when the digest last completed
func (s *Service) LastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

func (s *Service) setLastRun(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = t
}
