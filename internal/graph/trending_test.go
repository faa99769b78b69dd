package graph

import (
	"fmt"
	"testing"
	"time"

	"github.com/scamwatch/scamwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankTrending_VotesBeatRecency(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// A: 5 votes, 1 hour old -> 50 + 23 = 73
	// B: 0 votes, 23 hours old -> 0 + 1 = 1
	a := models.Report{ID: "a", Votes: 5, CreatedAt: now.Add(-1 * time.Hour)}
	b := models.Report{ID: "b", Votes: 0, CreatedAt: now.Add(-23 * time.Hour)}

	ranked := RankTrending([]models.Report{b, a}, now)

	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].ID)
	assert.Equal(t, "b", ranked[1].ID)
}

func TestRankTrending_RecencyFloorsAtZero(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// 30 hours old: recency clamps to 0 rather than going negative, so one
	// vote still outranks a fresh zero-vote report
	old := models.Report{ID: "old", Votes: 1, CreatedAt: now.Add(-30 * time.Hour)}
	fresh := models.Report{ID: "fresh", Votes: 0, CreatedAt: now.Add(-20 * time.Hour)}

	ranked := RankTrending([]models.Report{fresh, old}, now)

	require.Len(t, ranked, 2)
	assert.Equal(t, "old", ranked[0].ID)
}

func TestRankTrending_StableOnTies(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	createdAt := now.Add(-2 * time.Hour)

	var reports []models.Report
	for i := 0; i < 5; i++ {
		reports = append(reports, models.Report{
			ID:        fmt.Sprintf("r%d", i),
			Votes:     3,
			CreatedAt: createdAt,
		})
	}

	ranked := RankTrending(reports, now)

	require.Len(t, ranked, 5)
	for i := 0; i < 5; i++ {
		assert.Equal(t, fmt.Sprintf("r%d", i), ranked[i].ID)
	}
}

func TestRankTrending_TopFifty(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	var reports []models.Report
	for i := 0; i < 80; i++ {
		reports = append(reports, models.Report{
			ID:        fmt.Sprintf("r%d", i),
			Votes:     i, // later reports score higher
			CreatedAt: now.Add(-1 * time.Hour),
		})
	}

	ranked := RankTrending(reports, now)

	require.Len(t, ranked, TrendingLimit)
	assert.Equal(t, "r79", ranked[0].ID)
	assert.Equal(t, "r30", ranked[len(ranked)-1].ID)
}

func TestRankTrending_Empty(t *testing.T) {
	ranked := RankTrending(nil, time.Now())
	assert.Empty(t, ranked)
}
