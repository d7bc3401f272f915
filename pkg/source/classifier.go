package source

import (
	"strings"
	"unicode"

	"github.com/elonfeng/newsprio/pkg/article"
)

// DefaultCategoryKeywords is the base vocabulary used to guess a feed entry's category.
var DefaultCategoryKeywords = map[article.Category][]string{
	article.CategoryBusiness: {
		"market", "markets", "stock", "stocks", "shares", "sensex", "nifty", "economy",
		"gdp", "inflation", "bank", "banking", "rbi", "earnings", "profit", "revenue",
		"startup", "funding", "ipo", "merger", "acquisition", "investor", "trade", "rupee",
	},
	article.CategorySports: {
		"cricket", "football", "hockey", "tennis", "kabaddi", "match", "tournament",
		"ipl", "world cup", "olympics", "league", "wicket", "goal", "coach", "stadium",
		"champion", "championship", "innings", "final",
	},
	article.CategoryTechnology: {
		"technology", "tech", "software", "ai", "artificial intelligence", "startup",
		"smartphone", "app", "chip", "semiconductor", "cyber", "internet", "cloud",
		"data", "robot", "satellite", "isro", "5g", "gadget",
	},
	article.CategoryPolitics: {
		"election", "elections", "minister", "parliament", "lok sabha", "rajya sabha",
		"assembly", "government", "party", "bjp", "congress", "vote", "voters", "policy",
		"cabinet", "opposition", "chief minister", "mla", "mp", "bill",
	},
	article.CategoryEntertainment: {
		"film", "movie", "bollywood", "actor", "actress", "music", "album", "song",
		"box office", "series", "ott", "trailer", "celebrity", "concert", "festival",
		"director", "web series",
	},
}

// Classifier assigns a category from keyword hits.
type Classifier struct {
	keywords map[article.Category][]string
	fallback article.Category
}

// NewClassifier creates a classifier with the default keywords plus extras.
// Text with no hits gets fallback.
func NewClassifier(extra map[article.Category][]string, fallback article.Category) *Classifier {
	keywords := make(map[article.Category][]string, len(DefaultCategoryKeywords))
	for c, kws := range DefaultCategoryKeywords {
		keywords[c] = append([]string(nil), kws...)
	}
	for c, kws := range extra {
		keywords[c] = append(keywords[c], kws...)
	}

	// Lowercase all keywords for case-insensitive matching.
	for c, kws := range keywords {
		for i, kw := range kws {
			kws[i] = strings.ToLower(strings.TrimSpace(kw))
		}
		keywords[c] = kws
	}

	return &Classifier{keywords: keywords, fallback: fallback}
}

// Classify returns the category with the most keyword hits in text.
// Ties go to the category listed first in article.AllCategories.
func (c *Classifier) Classify(text string) article.Category {
	padded := " " + strings.Join(words(text), " ") + " "

	best, bestHits := c.fallback, 0
	for _, cat := range article.AllCategories() {
		hits := 0
		for _, kw := range c.keywords[cat] {
			if kw != "" && strings.Contains(padded, " "+kw+" ") {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = cat, hits
		}
	}
	return best
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
