// Package detector scores arbitrary text for scam likelihood using keyword
// and URL heuristics. All functions are pure and safe for concurrent use;
// the keyword tables and matchers are immutable after package init.
package detector

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/scamwatch/scamwatch/internal/models"
)

// ErrInvalidInput is returned by Scan when type or content is missing or
// content is blank after trimming.
var ErrInvalidInput = errors.New("invalid input")

// AnalyzeKeywords scores free text for suspicious vocabulary and stylistic
// markers. Keyword matching is whole-word and case-insensitive. The result
// is capped at 60.
func AnalyzeKeywords(content string) int {
	score := 0
	lower := strings.ToLower(content)

	keywordCount := 0
	highRiskCount := 0

	for _, p := range suspiciousPatterns {
		keywordCount += len(p.re.FindAllString(lower, -1))
	}
	for _, p := range highRiskPatterns {
		highRiskCount += len(p.re.FindAllString(lower, -1))
	}

	// Up to 30 points for suspicious keywords, up to 30 for high-risk ones
	score += min(keywordCount*5, 30)
	score += min(highRiskCount*15, 30)

	// Excessive punctuation
	if strings.Count(content, "!") > 3 {
		score += 10
	}

	// Shouting
	upperCount := 0
	for _, r := range content {
		if unicode.IsUpper(r) && r <= unicode.MaxASCII {
			upperCount++
		}
	}
	length := utf8.RuneCountInString(content)
	if length > 20 && float64(upperCount)/float64(length) > 0.3 {
		score += 10
	}

	if score > 60 {
		score = 60
	}
	return score
}

// CalculateScore combines keyword and URL analysis into the final 0-100
// scam score for a (type, content) pair.
func CalculateScore(reportType, content string) int {
	total := AnalyzeKeywords(content)

	if reportType == "url" || reportType == "link" {
		total += AnalyzeURL(content)
	} else {
		// Score the worst URL embedded in the content, if any
		if urls := ExtractURLs(content); len(urls) > 0 {
			maxURLScore := 0
			for _, u := range urls {
				if s := AnalyzeURL(u); s > maxURLScore {
					maxURLScore = s
				}
			}
			total += maxURLScore
		}
	}

	// A link buried inside an email or message is a red flag on its own
	if reportType == "email" || reportType == "message" {
		if len(ExtractURLs(content)) > 0 {
			total += 5
		}
	}

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return total
}

// ClassifyRisk maps a score onto the three risk tiers. Thresholds are fixed.
func ClassifyRisk(score int) string {
	switch {
	case score >= 70:
		return models.RiskHigh
	case score >= 40:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// Explain renders the human-readable narrative for a scan: a tier headline
// with fixed advice, then specific findings. Note the findings pass counts
// keywords by plain substring containment, deliberately looser than the
// whole-word matching used for scoring.
func Explain(score int, reportType, content string) string {
	var parts []string

	switch {
	case score >= 70:
		parts = append(parts,
			"⚠️ High scam risk detected!",
			"This content shows multiple red flags including suspicious keywords and potentially dangerous URLs.",
			"Do not click any links or provide personal information.")
	case score >= 40:
		parts = append(parts,
			"⚠️ Moderate scam risk detected.",
			"This content contains some suspicious elements. Proceed with caution.",
			"Verify the source before taking any action.")
	default:
		parts = append(parts,
			"✅ Low scam risk detected.",
			"This content appears relatively safe, but always remain vigilant.")
	}

	lower := strings.ToLower(content)
	foundKeywords := 0
	for _, keyword := range suspiciousKeywords {
		if strings.Contains(lower, keyword) {
			foundKeywords++
		}
	}
	if foundKeywords > 0 {
		parts = append(parts, fmt.Sprintf("Found %d suspicious keyword(s).", foundKeywords))
	}

	suspiciousURLs := 0
	for _, url := range ExtractURLs(content) {
		if AnalyzeURL(url) > 20 {
			suspiciousURLs++
		}
	}
	if suspiciousURLs > 0 {
		parts = append(parts, fmt.Sprintf("Detected %d potentially suspicious URL(s).", suspiciousURLs))
	}

	return strings.Join(parts, " ")
}

// Scan runs the full pipeline over a (type, content) pair. It fails with
// ErrInvalidInput when type is missing or content is blank.
func Scan(reportType, content string) (models.ScanResult, error) {
	if reportType == "" || content == "" {
		return models.ScanResult{}, fmt.Errorf("%w: type and content are required", ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return models.ScanResult{}, fmt.Errorf("%w: content must be a non-empty string", ErrInvalidInput)
	}

	score := CalculateScore(strings.ToLower(reportType), content)
	return models.ScanResult{
		Score:       score,
		RiskLevel:   ClassifyRisk(score),
		Explanation: Explain(score, reportType, content),
	}, nil
}
