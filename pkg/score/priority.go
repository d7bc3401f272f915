package score

import "github.com/elonfeng/newsprio/pkg/article"

// Fixed component weights of the priority formula.
const (
	RecencyWeight    = 0.4
	SentimentWeight  = 0.3
	EngagementWeight = 0.2
	CategoryWeight   = 0.1
)

// Features are the per-article signals that feed the priority.
type Features struct {
	Sentiment  float64 `json:"sentiment"`
	Recency    float64 `json:"recency"`
	Engagement float64 `json:"engagement"`
}

// Calculator computes priorities against a snapshot of the weights for one location.
type Calculator struct {
	location    Location
	category    CategoryWeights
	multipliers Multipliers
}

// Calculator snapshots the tables for loc. Later weight changes do not affect it.
func (w *Weights) Calculator(loc Location) (*Calculator, error) {
	m, err := w.Multipliers(loc)
	if err != nil {
		return nil, err
	}
	return &Calculator{
		location:    loc,
		category:    w.CategoryWeights(),
		multipliers: m,
	}, nil
}

// Location returns the location the calculator was built for.
func (c *Calculator) Location() Location { return c.location }

// Priority combines the features with the category term:
//
//	0.4*recency + 0.3*sentiment + 0.2*engagement + 0.1*category[c]*location[c]
func (c *Calculator) Priority(f Features, cat article.Category) (float64, error) {
	cw, ok := c.category[cat]
	if !ok {
		return 0, &MissingWeightError{Category: cat, Table: "category"}
	}
	lw, ok := c.multipliers[cat]
	if !ok {
		return 0, &MissingWeightError{Category: cat, Location: c.location, Table: "location"}
	}

	return RecencyWeight*f.Recency +
		SentimentWeight*f.Sentiment +
		EngagementWeight*f.Engagement +
		CategoryWeight*cw*lw, nil
}

// CategoryTerm returns the location-dependent part of the priority.
func (c *Calculator) CategoryTerm(cat article.Category) (float64, error) {
	return c.Priority(Features{}, cat)
}
