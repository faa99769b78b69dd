package graph

import (
	"sort"
	"time"

	"github.com/scamwatch/scamwatch/internal/models"
)

// TrendingLimit caps the trending view at the top 50 reports.
const TrendingLimit = 50

// RankTrending orders reports by an ephemeral trending score combining
// vote weight and recency decay, and returns the top 50. The score is
// votes*10 plus up to 24 points for recency, and is discarded after
// sorting. Ties keep input order.
func RankTrending(reports []models.Report, now time.Time) []models.Report {
	type scored struct {
		report models.Report
		score  float64
	}

	ranked := make([]scored, 0, len(reports))
	for _, report := range reports {
		hoursSinceCreation := now.Sub(report.CreatedAt).Hours()
		recencyScore := 24 - hoursSinceCreation
		if recencyScore < 0 {
			recencyScore = 0
		}
		voteScore := float64(report.Votes * 10)
		ranked = append(ranked, scored{report: report, score: voteScore + recencyScore})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	limit := TrendingLimit
	if len(ranked) < limit {
		limit = len(ranked)
	}

	top := make([]models.Report, 0, limit)
	for _, entry := range ranked[:limit] {
		top = append(top, entry.report)
	}
	return top
}
