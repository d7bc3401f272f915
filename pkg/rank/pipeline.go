package rank

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/elonfeng/newsprio/pkg/score"
)

// Ranked is an article with its derived scores.
type Ranked struct {
	article.Article
	score.Features
	Priority float64 `json:"priority"`
}

// Row is the reduced view shown to readers.
type Row struct {
	Title    string           `json:"title"`
	Priority float64          `json:"priority"`
	Category article.Category `json:"category"`
}

// Result holds one ranking pass.
type Result struct {
	Location    score.Location
	GeneratedAt time.Time
	// Enriched keeps insertion order.
	Enriched []Ranked
	// Sorted is Enriched ordered by descending priority; ties keep insertion order.
	Sorted []Ranked
}

// Report is the serialized form of a Result handed to outside consumers.
type Report struct {
	Location    score.Location `json:"location"`
	GeneratedAt time.Time      `json:"generated_at"`
	Count       int            `json:"count"`
	Top         []Row          `json:"top"`
	Articles    []Ranked       `json:"articles"`
}

// Report builds the serialized view with at most top projection rows.
func (r *Result) Report(top int) Report {
	articles := r.Sorted
	if articles == nil {
		articles = []Ranked{}
	}
	return Report{
		Location:    r.Location,
		GeneratedAt: r.GeneratedAt,
		Count:       len(r.Sorted),
		Top:         r.Top(top),
		Articles:    articles,
	}
}

// Projection returns (title, priority, category) rows in ranked order.
func (r *Result) Projection() []Row {
	rows := make([]Row, len(r.Sorted))
	for i, a := range r.Sorted {
		rows[i] = Row{Title: a.Title, Priority: a.Priority, Category: a.Category}
	}
	return rows
}

// Top returns at most n rows of the projection. n <= 0 means all.
func (r *Result) Top(n int) []Row {
	rows := r.Projection()
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// Len returns the number of ranked articles.
func (r *Result) Len() int { return len(r.Sorted) }

// Pipeline enriches and orders articles. It holds no article state.
type Pipeline struct {
	sentiment score.SentimentScorer
}

// NewPipeline creates a pipeline using the given sentiment scorer.
// A nil scorer falls back to the built-in lexicon.
func NewPipeline(sentiment score.SentimentScorer) *Pipeline {
	if sentiment == nil {
		sentiment = score.NewVader(nil)
	}
	return &Pipeline{sentiment: sentiment}
}

// Rank scores every article against the weights for loc as of now, and sorts
// them by descending priority. Any error aborts the whole pass.
func (p *Pipeline) Rank(articles []article.Article, loc score.Location, weights *score.Weights, now time.Time) (*Result, error) {
	calc, err := weights.Calculator(loc)
	if err != nil {
		return nil, fmt.Errorf("weights for %s: %w", loc, err)
	}

	enriched := make([]Ranked, len(articles))
	for i, a := range articles {
		r, err := p.enrich(a, calc, now)
		if err != nil {
			return nil, fmt.Errorf("score %q: %w", a.Title, err)
		}
		enriched[i] = r
	}

	sorted := make([]Ranked, len(enriched))
	copy(sorted, enriched)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	return &Result{
		Location:    loc,
		GeneratedAt: now,
		Enriched:    enriched,
		Sorted:      sorted,
	}, nil
}

func (p *Pipeline) enrich(a article.Article, calc *score.Calculator, now time.Time) (Ranked, error) {
	recency, err := score.RecencyOf(a.Timestamp, now)
	if err != nil {
		return Ranked{}, err
	}

	f := score.Features{
		Sentiment:  p.sentiment.Score(a.Content),
		Recency:    recency,
		Engagement: score.Engagement(a.Likes, a.Shares),
	}

	priority, err := calc.Priority(f, a.Category)
	if err != nil {
		return Ranked{}, err
	}
	if math.IsNaN(priority) || math.IsInf(priority, 0) {
		return Ranked{}, fmt.Errorf("priority is not a finite number (sentiment %g)", f.Sentiment)
	}

	return Ranked{Article: a, Features: f, Priority: priority}, nil
}
