package storage

import (
	"context"
	"errors"
	"time"

	"github.com/scamwatch/scamwatch/internal/models"
)

// ErrNotFound is returned when a report id does not exist.
var ErrNotFound = errors.New("report not found")

// CreateReportInput holds the caller-supplied fields of a new report.
// Votes and timestamps are assigned by the store.
type CreateReportInput struct {
	Type     string
	Content  string
	Domain   string
	Phone    string
	Platform string
}

// ReportStore defines the persistence contract for scam reports
type ReportStore interface {
	CreateReport(ctx context.Context, input CreateReportInput) (models.Report, error)
	ListReports(ctx context.Context, limit int) ([]models.Report, error)
	ListReportsSince(ctx context.Context, since time.Time) ([]models.Report, error)
	ListAllReports(ctx context.Context) ([]models.Report, error)
	IncrementVote(ctx context.Context, id string) (models.Report, error)
}
