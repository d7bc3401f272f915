package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/mmcdole/gofeed"
)

// Import fetches one feed and converts its entries. Entries that still fail
// validation after mapping are skipped with a warning.
func (im *Importer) Import(ctx context.Context, feed Feed) ([]article.Article, error) {
	parsed, err := im.fetch(ctx, feed)
	if err != nil {
		return nil, err
	}

	var articles []article.Article
	for _, entry := range parsed.Items {
		a := im.toArticle(ctx, feed, entry)
		if err := a.Validate(); err != nil {
			im.logger.Warn("skipping entry", "feed", feed.Name, "title", a.Title, "err", err)
			continue
		}
		articles = append(articles, a)
	}

	im.logger.Debug("feed imported", "feed", feed.Name, "entries", len(parsed.Items), "articles", len(articles))
	return articles, nil
}

func (im *Importer) fetch(ctx context.Context, feed Feed) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create rss request %s: %w", feed.Name, err)
	}
	req.Header.Set("User-Agent", im.userAgent)

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rss %s: %w", feed.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss %s status %d", feed.Name, resp.StatusCode)
	}

	parsed, err := im.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse rss %s: %w", feed.Name, err)
	}
	return parsed, nil
}

func (im *Importer) toArticle(ctx context.Context, feed Feed, entry *gofeed.Item) article.Article {
	published := im.now().UTC()
	if entry.PublishedParsed != nil {
		published = entry.PublishedParsed.UTC()
	} else if entry.UpdatedParsed != nil {
		published = entry.UpdatedParsed.UTC()
	}

	content := plainText(entry.Description)
	if content == "" {
		content = plainText(entry.Content)
	}
	if im.extractor != nil {
		link := entry.Link
		if link == "" && len(entry.Links) > 0 {
			link = entry.Links[0]
		}
		if link != "" {
			text, err := im.extractor.Extract(ctx, link)
			switch {
			case err != nil:
				im.logger.Warn("content extraction failed", "url", link, "err", err)
			case text != "":
				content = text
			}
		}
	}

	category := feed.Category
	if category == "" {
		category = im.classifier.Classify(entry.Title + " " + content)
	}

	return article.Article{
		Title:     strings.TrimSpace(entry.Title),
		Content:   truncate(content, im.maxContent),
		Category:  category,
		Timestamp: published.Format(article.DateLayout),
	}
}

// plainText strips markup from feed HTML fragments.
func plainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
