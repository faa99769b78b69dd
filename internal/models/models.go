package models

import "time"

// Risk levels assigned by the detector.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Report represents a user-submitted scam report
type Report struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "email", "message", "url", "phone", etc.
	Content   string    `json:"content"`
	Domain    string    `json:"domain,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Platform  string    `json:"platform,omitempty"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScanResult is the outcome of running the detector over a piece of content
type ScanResult struct {
	Score       int    `json:"score"`     // 0-100
	RiskLevel   string `json:"riskLevel"` // "Low", "Medium", "High"
	Explanation string `json:"explanation"`
}

// GraphNode is a node in the relationship graph. Report nodes carry votes
// and creation time; domain/phone nodes carry the size of their group.
type GraphNode struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Type      string     `json:"type"` // "report", "domain", "phone"
	Votes     int        `json:"votes,omitempty"`
	Count     int        `json:"count,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// GraphEdge links a report to a grouping node ("domain"/"phone") or two
// reports that share a grouping value ("shared-domain"/"shared-phone").
type GraphEdge struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Type       string `json:"type"`
	SharedData string `json:"sharedData,omitempty"`
}

// Graph is the full relationship graph over a set of reports
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphEdge `json:"links"`
}

// Digest summarizes report activity over a period
type Digest struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	Period        string         `json:"period"` // "daily" or "weekly"
	TotalReports  int            `json:"total_reports"`
	Trending      []Report       `json:"trending"`
	RiskBreakdown map[string]int `json:"risk_breakdown"`
	TopDomains    []string       `json:"top_domains"`
}

// Alert represents an urgent notification about high-risk reports
type Alert struct {
	Type      string    `json:"type"` // "high-risk", "info"
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Reports   []Report  `json:"reports,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
