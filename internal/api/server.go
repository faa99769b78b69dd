// Package api exposes the scan, report, trending and network endpoints.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/scamwatch/scamwatch/internal/detector"
	"github.com/scamwatch/scamwatch/internal/graph"
	"github.com/scamwatch/scamwatch/internal/models"
	"github.com/scamwatch/scamwatch/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	reportListLimit = 100
	trendingWindow  = 24 * time.Hour
)

// Metrics holds request counters exposed on /api/metrics
type Metrics struct {
	ScansTotal     int            `json:"scans_total"`
	RiskBreakdown  map[string]int `json:"risk_breakdown"`
	ReportsCreated int            `json:"reports_created"`
	VotesCast      int            `json:"votes_cast"`
	LastScan       time.Time      `json:"last_scan,omitempty"`
}

// Server wires the HTTP routes to the detector, graph builder and store
type Server struct {
	store   storage.ReportStore
	builder *graph.Builder

	mu      sync.RWMutex
	metrics Metrics
}

// NewServer creates an API server
func NewServer(store storage.ReportStore, builder *graph.Builder) *Server {
	return &Server{
		store:   store,
		builder: builder,
		metrics: Metrics{RiskBreakdown: make(map[string]int)},
	}
}

// Router builds the HTTP route table
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/scan", s.handleScan).Methods("POST")
	router.HandleFunc("/api/report", s.handleCreateReport).Methods("POST")
	router.HandleFunc("/api/reports", s.handleListReports).Methods("GET")
	router.HandleFunc("/api/reports/trending", s.handleTrending).Methods("GET")
	router.HandleFunc("/api/reports/{id}/upvote", s.handleUpvote).Methods("POST")
	router.HandleFunc("/api/network", s.handleNetwork).Methods("GET")
	router.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/metrics", s.handleMetrics).Methods("GET")

	return router
}

type scanRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Type == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: type and content are required")
		return
	}

	result, err := detector.Scan(req.Type, req.Content)
	if err != nil {
		if errors.Is(err, detector.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Content must be a non-empty string")
			return
		}
		logrus.Errorf("Scan failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.recordScan(result.RiskLevel)
	writeJSON(w, http.StatusOK, result)
}

type createReportRequest struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Domain   string `json:"domain"`
	Phone    string `json:"phone"`
	Platform string `json:"platform"`
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Type == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "type and content are required")
		return
	}

	report, err := s.store.CreateReport(r.Context(), storage.CreateReportInput{
		Type:     req.Type,
		Content:  req.Content,
		Domain:   req.Domain,
		Phone:    req.Phone,
		Platform: req.Platform,
	})
	if err != nil {
		logrus.Errorf("Failed to create report: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.recordReportCreated()
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.ListReports(r.Context(), reportListLimit)
	if err != nil {
		logrus.Errorf("Failed to list reports: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.ListReportsSince(r.Context(), time.Now().Add(-trendingWindow))
	if err != nil {
		logrus.Errorf("Failed to list recent reports: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	trending := graph.RankTrending(reports, time.Now())
	if trending == nil {
		trending = []models.Report{}
	}
	writeJSON(w, http.StatusOK, trending)
}

func (s *Server) handleUpvote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	report, err := s.store.IncrementVote(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		logrus.Errorf("Failed to upvote report %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.recordVote()
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.ListAllReports(r.Context())
	if err != nil {
		logrus.Errorf("Failed to load reports for network graph: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, s.builder.Build(reports))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	metrics := s.metrics
	breakdown := make(map[string]int, len(s.metrics.RiskBreakdown))
	for level, count := range s.metrics.RiskBreakdown {
		breakdown[level] = count
	}
	s.mu.RUnlock()

	metrics.RiskBreakdown = breakdown
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) recordScan(riskLevel string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.ScansTotal++
	s.metrics.RiskBreakdown[riskLevel]++
	s.metrics.LastScan = time.Now()
}

func (s *Server) recordReportCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.ReportsCreated++
}

func (s *Server) recordVote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.VotesCast++
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
