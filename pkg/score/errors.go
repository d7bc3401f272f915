package score

import (
	"fmt"

	"github.com/elonfeng/newsprio/pkg/article"
)

// MissingWeightError means a weight table has no entry for a category or location.
// Tables are checked when built, so seeing this at ranking time indicates drift
// between the tables and the category set.
type MissingWeightError struct {
	Category article.Category
	Location Location
	Table    string // "category" or "location"
}

func (e *MissingWeightError) Error() string {
	switch {
	case e.Category == "":
		return fmt.Sprintf("missing %s weights for location %q", e.Table, e.Location)
	case e.Location == "":
		return fmt.Sprintf("missing %s weight for %q", e.Table, e.Category)
	default:
		return fmt.Sprintf("missing %s weight for %q at %q", e.Table, e.Category, e.Location)
	}
}
