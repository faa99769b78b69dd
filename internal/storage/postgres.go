package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/scamwatch/scamwatch/internal/models"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore persists reports in Postgres via a pgx connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Ensure PostgresStore implements ReportStore
var _ ReportStore = (*PostgresStore)(nil)

// NewPostgresStore connects to Postgres and verifies the connection
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Migrate applies the embedded schema migrations
func (s *PostgresStore) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("Database migrations applied")
	return nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

const reportColumns = `id, type, content, COALESCE(domain, ''), COALESCE(phone, ''), COALESCE(platform, ''), votes, created_at`

// CreateReport inserts a new report with zero votes
func (s *PostgresStore) CreateReport(ctx context.Context, input CreateReportInput) (models.Report, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO reports (type, content, domain, phone, platform, votes)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), 0)
		RETURNING `+reportColumns,
		input.Type, input.Content, input.Domain, input.Phone, input.Platform)

	report, err := scanReport(row)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

// ListReports returns the newest reports first, up to limit
func (s *PostgresStore) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// ListReportsSince returns every report created at or after the given time,
// newest first
func (s *PostgresStore) ListReportsSince(ctx context.Context, since time.Time) ([]models.Report, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE created_at >= $1
		ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports since %s: %w", since.Format(time.RFC3339), err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// ListAllReports returns every stored report in insertion order
func (s *PostgresStore) ListAllReports(ctx context.Context) ([]models.Report, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list all reports: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// IncrementVote atomically bumps the vote counter and returns the updated
// report, or ErrNotFound for an unknown id
func (s *PostgresStore) IncrementVote(ctx context.Context, id string) (models.Report, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE reports
		SET votes = votes + 1
		WHERE id = $1
		RETURNING `+reportColumns, id)

	report, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Report{}, ErrNotFound
	}
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to increment vote for %s: %w", id, err)
	}
	return report, nil
}

func scanReport(row pgx.Row) (models.Report, error) {
	var report models.Report
	err := row.Scan(&report.ID, &report.Type, &report.Content, &report.Domain,
		&report.Phone, &report.Platform, &report.Votes, &report.CreatedAt)
	return report, err
}

func collectReports(rows pgx.Rows) ([]models.Report, error) {
	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report rows: %w", err)
	}
	return reports, nil
}
