package digest

import (
	"context"
	"testing"
	"time"

	"github.com/scamwatch/scamwatch/internal/config"
	"github.com/scamwatch/scamwatch/internal/models"
	"github.com/scamwatch/scamwatch/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of the report store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateReport(ctx context.Context, input storage.CreateReportInput) (models.Report, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Report), args.Error(1)
}

func (m *MockStore) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStore) ListReportsSince(ctx context.Context, since time.Time) ([]models.Report, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStore) ListAllReports(ctx context.Context) ([]models.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStore) IncrementVote(ctx context.Context, id string) (models.Report, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Report), args.Error(1)
}

// MockNotifier is a mock implementation of the notification service
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendDigest(digest *models.Digest) error {
	args := m.Called(digest)
	return args.Error(0)
}

func (m *MockNotifier) SendAlert(alert *models.Alert) error {
	args := m.Called(alert)
	return args.Error(0)
}

// memoryArchive records stored snapshots in memory
type memoryArchive struct {
	stored map[string][]byte
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{stored: make(map[string][]byte)}
}

func (a *memoryArchive) Store(filename string, data []byte) error {
	a.stored[filename] = data
	return nil
}

func (a *memoryArchive) Retrieve(filename string) ([]byte, error) { return a.stored[filename], nil }
func (a *memoryArchive) List(prefix string) ([]string, error)     { return nil, nil }
func (a *memoryArchive) Delete(filename string) error             { return nil }

func testConfig() *config.Config {
	return &config.Config{DigestSchedule: "daily"}
}

func TestRunDigest(t *testing.T) {
	store := &MockStore{}
	notifier := &MockNotifier{}
	arc := newMemoryArchive()
	service := NewService(testConfig(), store, notifier, arc)

	now := time.Now()
	reports := []models.Report{
		{ID: "a", Type: "message", Content: "Hi, lunch tomorrow?", Domain: "ok.example", Votes: 1, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "b", Type: "url", Content: "http://1.2.3.4.secure-login.phish.tk", Domain: "phish.tk", Votes: 9, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "c", Type: "message", Content: "wire transfer urgent!!!!", Domain: "phish.tk", Votes: 2, CreatedAt: now.Add(-5 * time.Hour)},
	}

	store.On("ListReportsSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(reports, nil)

	var sent *models.Digest
	notifier.On("SendDigest", mock.AnythingOfType("*models.Digest")).Run(func(args mock.Arguments) {
		sent = args.Get(0).(*models.Digest)
	}).Return(nil)

	require.NoError(t, service.RunDigest())

	require.NotNil(t, sent)
	assert.Equal(t, "daily", sent.Period)
	assert.Equal(t, 3, sent.TotalReports)

	// Trending is ranked by votes then recency
	require.NotEmpty(t, sent.Trending)
	assert.Equal(t, "b", sent.Trending[0].ID)

	// Every report lands in exactly one risk bucket
	total := 0
	for _, count := range sent.RiskBreakdown {
		total += count
	}
	assert.Equal(t, 3, total)

	// phish.tk is reported twice and tops the domain list
	require.NotEmpty(t, sent.TopDomains)
	assert.Equal(t, "phish.tk (2)", sent.TopDomains[0])

	assert.Len(t, arc.stored, 1)
	assert.False(t, service.LastRun().IsZero())
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRunDigest_NilArchive(t *testing.T) {
	store := &MockStore{}
	notifier := &MockNotifier{}
	service := NewService(testConfig(), store, notifier, nil)

	store.On("ListReportsSince", mock.Anything, mock.AnythingOfType("time.Time")).Return([]models.Report{}, nil)
	notifier.On("SendDigest", mock.AnythingOfType("*models.Digest")).Return(nil)

	assert.NoError(t, service.RunDigest())
}

func TestRunHighRiskSweep_AlertsOnHighRisk(t *testing.T) {
	store := &MockStore{}
	notifier := &MockNotifier{}
	service := NewService(testConfig(), store, notifier, nil)

	now := time.Now()
	reports := []models.Report{
		{ID: "benign", Type: "message", Content: "see you at 3pm", CreatedAt: now.Add(-time.Hour)},
		{
			ID:        "scam",
			Type:      "message",
			Content:   "URGENT!!!! Your account is suspended, click here to verify account now! http://bit.ly/x",
			Domain:    "bit.ly",
			CreatedAt: now.Add(-time.Hour),
		},
	}

	store.On("ListReportsSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(reports, nil)

	var sent *models.Alert
	notifier.On("SendAlert", mock.AnythingOfType("*models.Alert")).Run(func(args mock.Arguments) {
		sent = args.Get(0).(*models.Alert)
	}).Return(nil)

	require.NoError(t, service.RunHighRiskSweep())

	require.NotNil(t, sent)
	assert.Equal(t, "high-risk", sent.Type)
	require.Len(t, sent.Reports, 1)
	assert.Equal(t, "scam", sent.Reports[0].ID)
	assert.Contains(t, sent.Message, "bit.ly")
}

func TestRunHighRiskSweep_QuietWhenClean(t *testing.T) {
	store := &MockStore{}
	notifier := &MockNotifier{}
	service := NewService(testConfig(), store, notifier, nil)

	store.On("ListReportsSince", mock.Anything, mock.AnythingOfType("time.Time")).Return([]models.Report{
		{ID: "a", Type: "message", Content: "nothing to see here", CreatedAt: time.Now()},
	}, nil)

	require.NoError(t, service.RunHighRiskSweep())
	notifier.AssertNotCalled(t, "SendAlert", mock.Anything)
}
