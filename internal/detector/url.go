package detector

import (
	"regexp"
	"strings"
)

var (
	urlPattern       = regexp.MustCompile(`(?i)(https?://[^\s]+|www\.[^\s]+)`)
	ipAddressPattern = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+`)
)

// TLDs handed out by free registrars, heavily abused for throwaway scam sites
var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf"}

// Shortening services hide the real destination; legitimate use exists but
// scams lean on them hard
var urlShorteners = []string{"bit.ly", "tinyurl", "t.co", "goo.gl"}

var phishingPrefixes = []string{"secure-", "verify-", "update-", "confirm-"}

// AnalyzeURL scores a single URL-like string for structural red flags.
// Rules are additive and the result is capped at 50. The input does not
// need to be a well-formed URL.
func AnalyzeURL(url string) int {
	score := 0
	lower := strings.ToLower(url)

	for _, tld := range suspiciousTLDs {
		if strings.Contains(lower, tld) {
			score += 30
			break
		}
	}

	for _, shortener := range urlShorteners {
		if strings.Contains(lower, shortener) {
			score += 10
			break
		}
	}

	// IP address instead of a hostname
	host := strings.TrimPrefix(strings.TrimPrefix(lower, "https://"), "http://")
	if ipAddressPattern.MatchString(host) {
		score += 25
	}

	for _, prefix := range phishingPrefixes {
		if strings.Contains(lower, prefix) {
			score += 15
			break
		}
	}

	// Excessive subdomains
	if strings.Count(url, ".") > 3 {
		score += 10
	}

	if !strings.HasPrefix(lower, "https://") {
		score += 5
	}

	if score > 50 {
		score = 50
	}
	return score
}

// ExtractURLs returns every http://, https:// or www. token in the text,
// in order of appearance. Duplicates are preserved as found.
func ExtractURLs(content string) []string {
	return urlPattern.FindAllString(content, -1)
}
