package detector

import "regexp"

// Keyword tables driving the scam score. The high-risk set is a subset of
// the suspicious set and is weighted separately.
var suspiciousKeywords = []string{
	"urgent", "act now", "limited time", "click here", "verify account",
	"suspended", "locked", "expired", "immediately", "congratulations",
	"winner", "prize", "claim now", "free money", "guaranteed",
	"no risk", "100% safe", "secret", "exclusive", "wire transfer",
	"bitcoin", "crypto", "investment opportunity", "get rich quick",
	"nigerian prince", "inheritance", "lottery", "tax refund",
	"irs", "social security", "suspended account", "verify identity",
}

var highRiskKeywords = []string{
	"wire transfer", "bitcoin", "crypto", "nigerian prince",
	"inheritance", "verify account", "suspended", "locked account",
}

// keywordPattern pairs a table entry with its precompiled whole-word matcher,
// so the per-scan cost is matching only, never compilation.
type keywordPattern struct {
	term string
	re   *regexp.Regexp
}

var (
	suspiciousPatterns = compilePatterns(suspiciousKeywords)
	highRiskPatterns   = compilePatterns(highRiskKeywords)
)

func compilePatterns(terms []string) []keywordPattern {
	patterns := make([]keywordPattern, 0, len(terms))
	for _, term := range terms {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		patterns = append(patterns, keywordPattern{term: term, re: re})
	}
	return patterns
}
