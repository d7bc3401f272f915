package article

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the editorial section an article belongs to.
type Category string

const (
	CategoryBusiness      Category = "Business"
	CategorySports        Category = "Sports"
	CategoryTechnology    Category = "Technology"
	CategoryPolitics      Category = "Politics"
	CategoryEntertainment Category = "Entertainment"
)

// AllCategories returns every known category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryBusiness,
		CategorySports,
		CategoryTechnology,
		CategoryPolitics,
		CategoryEntertainment,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", s)}
}

// DateLayout is the only accepted timestamp format.
const DateLayout = "2006-01-02"

// Article is a single news article as submitted by the user.
type Article struct {
	ID        string   `json:"id" yaml:"id,omitempty" db:"id"`
	Title     string   `json:"title" yaml:"title" db:"title"`
	Content   string   `json:"content" yaml:"content" db:"content"`
	Category  Category `json:"category" yaml:"category" db:"category"`
	Likes     int      `json:"likes" yaml:"likes" db:"likes"`
	Shares    int      `json:"shares" yaml:"shares" db:"shares"`
	Timestamp string   `json:"timestamp" yaml:"timestamp" db:"timestamp"`
}

// New builds a validated article with a fresh ID.
func New(title, content string, category Category, likes, shares int, timestamp string) (Article, error) {
	a := Article{
		Title:     title,
		Content:   content,
		Category:  category,
		Likes:     likes,
		Shares:    shares,
		Timestamp: strings.TrimSpace(timestamp),
	}
	if err := a.Validate(); err != nil {
		return Article{}, err
	}
	a.ID = uuid.NewString()
	return a, nil
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &InvalidDateError{Value: s, Err: err}
	}
	return t, nil
}

// Date returns the parsed publication date.
func (a Article) Date() (time.Time, error) {
	return ParseDate(a.Timestamp)
}

// Validate checks the fields a record must satisfy before it may join a collection.
func (a Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !a.Category.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", a.Category)}
	}
	if a.Likes < 0 {
		return &ValidationError{Field: "likes", Reason: fmt.Sprintf("must be >= 0, got %d", a.Likes)}
	}
	if a.Shares < 0 {
		return &ValidationError{Field: "shares", Reason: fmt.Sprintf("must be >= 0, got %d", a.Shares)}
	}
	if _, err := a.Date(); err != nil {
		return err
	}
	return nil
}
