package rank

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/elonfeng/newsprio/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

func sampleArticles() []article.Article {
	return []article.Article{
		{Title: "Budget cuts", Content: "Analysts fear a recession as debt rises", Category: article.CategoryBusiness, Likes: 120, Shares: 30, Timestamp: "2026-10-18"},
		{Title: "Cup final", Content: "A brilliant victory for the home side", Category: article.CategorySports, Likes: 900, Shares: 400, Timestamp: "2026-10-19"},
		{Title: "Chip plant", Content: "The new plant opens next year", Category: article.CategoryTechnology, Likes: 50, Shares: 10, Timestamp: "2026-10-12"},
		{Title: "Election day", Content: "Voters queue peacefully across the city", Category: article.CategoryPolitics, Likes: 300, Shares: 200, Timestamp: "2026-10-17"},
		{Title: "Film review", Content: "A boring and disappointing sequel", Category: article.CategoryEntertainment, Likes: 10, Shares: 0, Timestamp: "2026-09-01"},
	}
}

func TestRankScenarioDelhi(t *testing.T) {
	articles := []article.Article{
		{Title: "A", Content: "terrible news", Category: article.CategoryPolitics, Likes: 0, Shares: 0, Timestamp: "2026-10-19"},
		{Title: "B", Content: "great win", Category: article.CategorySports, Likes: 500, Shares: 500, Timestamp: "2026-10-19"},
	}

	res, err := NewPipeline(nil).Rank(articles, score.LocationDelhi, score.DefaultWeights(), now)
	require.NoError(t, err)
	require.Equal(t, 2, res.Len())

	a, b := res.Enriched[0], res.Enriched[1]
	assert.Equal(t, 1.0, a.Recency)
	assert.Equal(t, 0.0, a.Engagement)
	assert.Less(t, a.Sentiment, 0.0)
	assert.Equal(t, 1.0, b.Engagement)
	assert.Greater(t, b.Sentiment, 0.0)

	assert.Greater(t, b.Priority, a.Priority)
	assert.Equal(t, "B", res.Sorted[0].Title)
	assert.Equal(t, "A", res.Sorted[1].Title)

	wantA := 0.4*1 + 0.3*a.Sentiment + 0.2*0 + 0.1*0.25*1.2
	assert.InDelta(t, wantA, a.Priority, 1e-12)
}

func TestRankSortedDescending(t *testing.T) {
	res, err := NewPipeline(nil).Rank(sampleArticles(), score.LocationMumbai, score.DefaultWeights(), now)
	require.NoError(t, err)
	require.Len(t, res.Sorted, 5)

	for i := 1; i < len(res.Sorted); i++ {
		assert.GreaterOrEqual(t, res.Sorted[i-1].Priority, res.Sorted[i].Priority)
	}
}

func TestRankKeepsInsertionOrderInEnrichedTable(t *testing.T) {
	input := sampleArticles()
	res, err := NewPipeline(nil).Rank(input, score.LocationPune, score.DefaultWeights(), now)
	require.NoError(t, err)

	for i := range input {
		assert.Equal(t, input[i].Title, res.Enriched[i].Title)
	}
}

func TestRankStableTies(t *testing.T) {
	var input []article.Article
	for _, title := range []string{"first", "second", "third", "fourth"} {
		input = append(input, article.Article{
			Title: title, Content: "", Category: article.CategoryTechnology,
			Likes: 10, Shares: 10, Timestamp: "2026-10-19",
		})
	}

	res, err := NewPipeline(nil).Rank(input, score.LocationBangalore, score.DefaultWeights(), now)
	require.NoError(t, err)

	var titles []string
	for _, r := range res.Sorted {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, titles)
}

func TestRankIdempotent(t *testing.T) {
	p := NewPipeline(nil)
	w := score.DefaultWeights()

	first, err := p.Rank(sampleArticles(), score.LocationDelhi, w, now)
	require.NoError(t, err)
	second, err := p.Rank(sampleArticles(), score.LocationDelhi, w, now)
	require.NoError(t, err)

	assert.Equal(t, first.Sorted, second.Sorted)
	assert.Equal(t, first.Projection(), second.Projection())
}

func TestRankLocationChangesOnlyCategoryTerm(t *testing.T) {
	p := NewPipeline(nil)
	w := score.DefaultWeights()

	base, err := p.Rank(sampleArticles(), score.LocationMumbai, w, now)
	require.NoError(t, err)

	for _, loc := range score.AllLocations() {
		res, err := p.Rank(sampleArticles(), loc, w, now)
		require.NoError(t, err)
		calc, err := w.Calculator(loc)
		require.NoError(t, err)

		for i := range res.Enriched {
			got, want := res.Enriched[i], base.Enriched[i]
			assert.Equal(t, want.Features, got.Features, "%s: %s", loc, got.Title)

			term, err := calc.CategoryTerm(got.Category)
			require.NoError(t, err)
			assert.InDelta(t,
				0.4*got.Recency+0.3*got.Sentiment+0.2*got.Engagement+term,
				got.Priority, 1e-12)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	res, err := NewPipeline(nil).Rank(nil, score.LocationDelhi, score.DefaultWeights(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
	assert.Empty(t, res.Projection())

	report := res.Report(5)
	assert.Equal(t, 0, report.Count)
	assert.NotNil(t, report.Articles)
}

func TestRankFailsWholePass(t *testing.T) {
	input := sampleArticles()
	input[2].Timestamp = "2026-02-30"

	res, err := NewPipeline(nil).Rank(input, score.LocationDelhi, score.DefaultWeights(), now)
	assert.Nil(t, res)
	var dateErr *article.InvalidDateError
	assert.True(t, errors.As(err, &dateErr))

	input = sampleArticles()
	input[0].Category = "Weather"
	_, err = NewPipeline(nil).Rank(input, score.LocationDelhi, score.DefaultWeights(), now)
	var missing *score.MissingWeightError
	assert.True(t, errors.As(err, &missing))

	_, err = NewPipeline(nil).Rank(sampleArticles(), "Atlantis", score.DefaultWeights(), now)
	assert.True(t, errors.As(err, &missing))
}

type fixedSentiment float64

func (f fixedSentiment) Score(string) float64 { return float64(f) }

func TestRankUsesInjectedSentiment(t *testing.T) {
	res, err := NewPipeline(fixedSentiment(0.5)).Rank(sampleArticles(), score.LocationDelhi, score.DefaultWeights(), now)
	require.NoError(t, err)
	for _, r := range res.Sorted {
		assert.Equal(t, 0.5, r.Sentiment)
	}
}

func TestRankRejectsNonFinitePriority(t *testing.T) {
	_, err := NewPipeline(fixedSentiment(math.NaN())).Rank(sampleArticles(), score.LocationDelhi, score.DefaultWeights(), now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a finite number")
}

func TestRankNaNWeightCannotReorder(t *testing.T) {
	w := score.DefaultWeights()
	require.ErrorIs(t, w.SetCategoryWeight(article.CategoryPolitics, math.NaN()), score.ErrWeightOutOfRange)

	articles := []article.Article{
		{Title: "low", Content: "", Category: article.CategorySports, Likes: 0, Shares: 0, Timestamp: "2026-09-01"},
		{Title: "mid", Content: "", Category: article.CategoryPolitics, Likes: 10, Shares: 0, Timestamp: "2026-10-15"},
		{Title: "high", Content: "great win", Category: article.CategorySports, Likes: 500, Shares: 500, Timestamp: "2026-10-19"},
	}
	res, err := NewPipeline(nil).Rank(articles, score.LocationDelhi, w, now)
	require.NoError(t, err)
	assert.Equal(t, "high", res.Sorted[0].Title)
	for i := 1; i < len(res.Sorted); i++ {
		assert.GreaterOrEqual(t, res.Sorted[i-1].Priority, res.Sorted[i].Priority)
	}
}

func TestProjectionAndTop(t *testing.T) {
	res, err := NewPipeline(nil).Rank(sampleArticles(), score.LocationDelhi, score.DefaultWeights(), now)
	require.NoError(t, err)

	rows := res.Projection()
	require.Len(t, rows, 5)
	for i, row := range rows {
		assert.Equal(t, res.Sorted[i].Title, row.Title)
		assert.Equal(t, res.Sorted[i].Priority, row.Priority)
		assert.Equal(t, res.Sorted[i].Category, row.Category)
	}

	assert.Len(t, res.Top(2), 2)
	assert.Len(t, res.Top(0), 5)
	assert.Len(t, res.Top(50), 5)
}
