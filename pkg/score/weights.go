package score

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/elonfeng/newsprio/pkg/article"
)

// Location selects which regional multiplier table applies.
type Location string

const (
	LocationMumbai    Location = "Mumbai"
	LocationDelhi     Location = "Delhi"
	LocationBangalore Location = "Bangalore"
	LocationPune      Location = "Pune"
)

// AllLocations returns the predefined publication locations.
func AllLocations() []Location {
	return []Location{LocationMumbai, LocationDelhi, LocationBangalore, LocationPune}
}

// ParseLocation matches s against the predefined locations, ignoring case.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	for _, l := range AllLocations() {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown location %q", s)
}

// Adjustable range of a category weight.
const (
	MinCategoryWeight = 0.0
	MaxCategoryWeight = 1.5
)

// ErrWeightOutOfRange is returned when a category weight leaves [MinCategoryWeight, MaxCategoryWeight].
var ErrWeightOutOfRange = errors.New("category weight out of range")

// CategoryWeights maps a category to its global importance.
type CategoryWeights map[article.Category]float64

// Multipliers maps a category to a location-specific factor.
type Multipliers map[article.Category]float64

// LocationWeights holds one Multipliers table per location.
type LocationWeights map[Location]Multipliers

// DefaultCategoryWeights returns the stock category importance values.
func DefaultCategoryWeights() CategoryWeights {
	return CategoryWeights{
		article.CategoryBusiness:      0.2,
		article.CategorySports:        0.1,
		article.CategoryTechnology:    0.15,
		article.CategoryPolitics:      0.25,
		article.CategoryEntertainment: 0.1,
	}
}

// DefaultLocationWeights returns the stock per-location multipliers.
func DefaultLocationWeights() LocationWeights {
	return LocationWeights{
		LocationMumbai: {
			article.CategoryBusiness: 1.2, article.CategorySports: 0.8, article.CategoryTechnology: 1.0,
			article.CategoryPolitics: 1.0, article.CategoryEntertainment: 1.1,
		},
		LocationDelhi: {
			article.CategoryBusiness: 1.0, article.CategorySports: 0.9, article.CategoryTechnology: 1.1,
			article.CategoryPolitics: 1.2, article.CategoryEntertainment: 1.0,
		},
		LocationBangalore: {
			article.CategoryBusiness: 1.1, article.CategorySports: 0.7, article.CategoryTechnology: 1.3,
			article.CategoryPolitics: 0.9, article.CategoryEntertainment: 1.0,
		},
		LocationPune: {
			article.CategoryBusiness: 1.4, article.CategorySports: 0.9, article.CategoryTechnology: 1.3,
			article.CategoryPolitics: 0.7, article.CategoryEntertainment: 0.5,
		},
	}
}

// Weights is the validated pair of weight tables used for a ranking pass.
// Every category has an entry in the category table and in each location table.
type Weights struct {
	category  CategoryWeights
	locations LocationWeights
}

// NewWeights copies and validates the given tables.
func NewWeights(category CategoryWeights, locations LocationWeights) (*Weights, error) {
	w := &Weights{
		category:  make(CategoryWeights, len(category)),
		locations: make(LocationWeights, len(locations)),
	}

	for _, c := range article.AllCategories() {
		v, ok := category[c]
		if !ok {
			return nil, &MissingWeightError{Category: c, Table: "category"}
		}
		if err := checkRange(c, v); err != nil {
			return nil, err
		}
		w.category[c] = v
	}

	for _, loc := range AllLocations() {
		m, ok := locations[loc]
		if !ok {
			return nil, &MissingWeightError{Location: loc, Table: "location"}
		}
		copied := make(Multipliers, len(m))
		for _, c := range article.AllCategories() {
			v, ok := m[c]
			if !ok {
				return nil, &MissingWeightError{Category: c, Location: loc, Table: "location"}
			}
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("location %s multiplier for %s must be a finite number >= 0, got %g", loc, c, v)
			}
			copied[c] = v
		}
		w.locations[loc] = copied
	}

	return w, nil
}

// DefaultWeights returns the stock tables.
func DefaultWeights() *Weights {
	w, err := NewWeights(DefaultCategoryWeights(), DefaultLocationWeights())
	if err != nil {
		panic(err)
	}
	return w
}

// CategoryWeights returns a copy of the category table.
func (w *Weights) CategoryWeights() CategoryWeights {
	out := make(CategoryWeights, len(w.category))
	for k, v := range w.category {
		out[k] = v
	}
	return out
}

// Multipliers returns a copy of the table for loc.
func (w *Weights) Multipliers(loc Location) (Multipliers, error) {
	m, ok := w.locations[loc]
	if !ok {
		return nil, &MissingWeightError{Location: loc, Table: "location"}
	}
	out := make(Multipliers, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// SetCategoryWeight adjusts one category weight. The table is unchanged on error.
func (w *Weights) SetCategoryWeight(c article.Category, v float64) error {
	if _, ok := w.category[c]; !ok {
		return &MissingWeightError{Category: c, Table: "category"}
	}
	if err := checkRange(c, v); err != nil {
		return err
	}
	w.category[c] = v
	return nil
}

// Clone returns an independent copy.
func (w *Weights) Clone() *Weights {
	c := &Weights{
		category:  w.CategoryWeights(),
		locations: make(LocationWeights, len(w.locations)),
	}
	for loc := range w.locations {
		c.locations[loc], _ = w.Multipliers(loc)
	}
	return c
}

func checkRange(c article.Category, v float64) error {
	if math.IsNaN(v) || v < MinCategoryWeight || v > MaxCategoryWeight {
		return fmt.Errorf("%s weight %g not in [%g, %g]: %w",
			c, v, MinCategoryWeight, MaxCategoryWeight, ErrWeightOutOfRange)
	}
	return nil
}
