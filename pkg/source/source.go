// Package source turns RSS and Atom feeds into articles ready for ranking.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/mmcdole/gofeed"
)

// Feed is a named RSS/Atom feed URL. An empty Category means entries are
// classified by keywords.
type Feed struct {
	Name     string
	URL      string
	Category article.Category
}

// Importer fetches feeds and maps their entries to articles.
type Importer struct {
	client     *http.Client
	parser     *gofeed.Parser
	classifier *Classifier
	extractor  ContentExtractor
	userAgent  string
	maxContent int
	logger     *log.Logger
	now        func() time.Time
}

// Option configures an Importer.
type Option func(*Importer)

// WithTimeout sets the HTTP timeout for feed requests.
func WithTimeout(d time.Duration) Option {
	return func(im *Importer) {
		if d > 0 {
			im.client.Timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(im *Importer) { im.userAgent = ua }
}

// WithExtractor replaces entry descriptions with text extracted from the linked page.
func WithExtractor(e ContentExtractor) Option {
	return func(im *Importer) { im.extractor = e }
}

// WithMaxContent caps article content length in characters.
func WithMaxContent(n int) Option {
	return func(im *Importer) {
		if n > 0 {
			im.maxContent = n
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// WithClock sets the time used for entries that carry no date.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

// NewImporter creates a feed importer. A nil classifier files every
// unlabelled entry under Business.
func NewImporter(classifier *Classifier, opts ...Option) *Importer {
	if classifier == nil {
		classifier = NewClassifier(nil, article.CategoryBusiness)
	}
	im := &Importer{
		client:     &http.Client{Timeout: 30 * time.Second},
		parser:     gofeed.NewParser(),
		classifier: classifier,
		userAgent:  "newsprio/1.0",
		maxContent: defaultMaxContentLen,
		logger:     log.New(io.Discard),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportAll imports every feed. A failing feed is logged and skipped; the
// joined feed errors are returned alongside whatever was imported.
func (im *Importer) ImportAll(ctx context.Context, feeds []Feed) ([]article.Article, error) {
	var all []article.Article
	var errs []error

	for _, feed := range feeds {
		articles, err := im.Import(ctx, feed)
		if err != nil {
			im.logger.Warn("feed failed", "feed", feed.Name, "err", err)
			errs = append(errs, fmt.Errorf("feed %s: %w", feed.Name, err))
			continue
		}
		all = append(all, articles...)
	}

	return all, errors.Join(errs...)
}
