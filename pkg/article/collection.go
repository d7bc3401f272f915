package article

import "github.com/google/uuid"

// Collection is an append-only, caller-owned list of validated articles.
// It is not safe for concurrent use.
type Collection struct {
	articles []Article
}

// NewCollection returns a collection seeded with the given articles.
// Seeds go through the same validation as Add.
func NewCollection(seed ...Article) (*Collection, error) {
	c := &Collection{}
	for _, a := range seed {
		if _, err := c.Add(a); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add validates a and appends it. Rejected articles never enter the collection.
func (c *Collection) Add(a Article) (Article, error) {
	if err := a.Validate(); err != nil {
		return Article{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	c.articles = append(c.articles, a)
	return a, nil
}

// Articles returns a copy of the collection in insertion order.
func (c *Collection) Articles() []Article {
	out := make([]Article, len(c.articles))
	copy(out, c.articles)
	return out
}

// Len returns the number of articles.
func (c *Collection) Len() int {
	return len(c.articles)
}
