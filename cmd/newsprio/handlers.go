package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/elonfeng/newsprio/internal/config"
	"github.com/elonfeng/newsprio/internal/logging"
	"github.com/elonfeng/newsprio/internal/render"
	"github.com/elonfeng/newsprio/internal/session"
	"github.com/elonfeng/newsprio/internal/store"
	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/elonfeng/newsprio/pkg/publish"
	"github.com/elonfeng/newsprio/pkg/rank"
	"github.com/elonfeng/newsprio/pkg/score"
	"github.com/elonfeng/newsprio/pkg/source"
)

// now is replaced in tests.
var now = time.Now

const emptyHint = "No articles added yet (try: newsprio add --input FILE ...)."

type rankOptions struct {
	input    string
	location string
	weights  []string
	json     bool
	export   bool
	outDir   string
	limit    int
	full     bool
	publish  bool
}

type addOptions struct {
	input    string
	title    string
	content  string
	category string
	likes    int
	shares   int
	date     string
}

type importOptions struct {
	input        string
	feeds        []string
	category     string
	fetchContent bool
}

type sessionOptions struct {
	location string
	input    string
	db       string
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Init(os.Stderr, cfg.Log.Level)
	return cfg, nil
}

func buildPipeline(cfg *config.Config) *rank.Pipeline {
	return rank.NewPipeline(score.NewVader(cfg.Sentiment.Lexicon))
}

func resolveLocation(cfg *config.Config, flag string) (score.Location, error) {
	if flag != "" {
		return score.ParseLocation(flag)
	}
	return cfg.Location()
}

// buildWeights applies Category=Weight flag values on top of the configured tables.
func buildWeights(cfg *config.Config, overrides []string) (*score.Weights, error) {
	weights, err := cfg.Weights()
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		name, value, ok := strings.Cut(o, "=")
		if !ok {
			return nil, fmt.Errorf("weight %q: want Category=Weight", o)
		}
		cat, err := article.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("weight %q: invalid number", o)
		}
		if err := weights.SetCategoryWeight(cat, v); err != nil {
			return nil, err
		}
	}
	return weights, nil
}

func buildPublishManager(cfg *config.Config) *publish.Manager {
	var publishers []publish.Publisher

	if cfg.Publish.Slack.Enabled && cfg.Publish.Slack.WebhookURL != "" {
		publishers = append(publishers, publish.NewSlack(cfg.Publish.Slack.WebhookURL, cfg.Publish.Top))
	}
	if cfg.Publish.Discord.Enabled && cfg.Publish.Discord.WebhookURL != "" {
		publishers = append(publishers, publish.NewDiscord(cfg.Publish.Discord.WebhookURL, cfg.Publish.Top))
	}
	if cfg.Publish.Webhook.Enabled && cfg.Publish.Webhook.URL != "" {
		publishers = append(publishers, publish.NewWebhook(cfg.Publish.Webhook.URL, cfg.Publish.Webhook.Secret))
	}

	return publish.NewManager(publishers...)
}

func loadArticles(path string) ([]article.Article, error) {
	records, err := article.ReadFile(path)
	if err != nil {
		return nil, err
	}
	coll, err := article.NewCollection(records...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Debug("articles loaded", "file", path, "count", coll.Len())
	return coll.Articles(), nil
}

func runRank(ctx context.Context, out io.Writer, opts rankOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := resolveLocation(cfg, opts.location)
	if err != nil {
		return err
	}
	weights, err := buildWeights(cfg, opts.weights)
	if err != nil {
		return err
	}
	articles, err := loadArticles(opts.input)
	if err != nil {
		return err
	}

	res, err := buildPipeline(cfg).Rank(articles, loc, weights, now())
	if err != nil {
		return fmt.Errorf("rank: %w", err)
	}
	logging.Debug("ranked", "articles", res.Len(), "location", loc)

	if opts.json {
		report := res.Report(opts.limit)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else if err := printRanking(out, res, opts); err != nil {
		return err
	}

	if opts.export {
		dir := opts.outDir
		if dir == "" {
			dir = cfg.Export.Dir
		}
		path, err := rank.ExportFile(dir, res)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logging.Info("exported", "path", path, "articles", res.Len())
	}

	if opts.publish {
		mgr := buildPublishManager(cfg)
		if !mgr.HasPublishers() {
			return fmt.Errorf("publish: no destinations configured")
		}
		report := res.Report(cfg.Publish.Top)
		if err := mgr.Broadcast(ctx, &report); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		logging.Info("report published", "location", loc)
	}

	return nil
}

func printRanking(out io.Writer, res *rank.Result, opts rankOptions) error {
	if res.Len() == 0 {
		fmt.Fprintln(out, emptyHint)
		return nil
	}
	if opts.full {
		rows := res.Enriched
		if opts.limit > 0 && opts.limit < len(rows) {
			rows = rows[:opts.limit]
		}
		return render.Full(out, rows)
	}
	return render.Ranking(out, res.Top(opts.limit))
}

func runAdd(out io.Writer, opts addOptions) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	cat, err := article.ParseCategory(opts.category)
	if err != nil {
		return err
	}
	date := opts.date
	if date == "" {
		date = now().Format(article.DateLayout)
	}

	a, err := article.New(opts.title, opts.content, cat, opts.likes, opts.shares, date)
	if err != nil {
		return err
	}
	if err := article.AppendFile(opts.input, a); err != nil {
		return err
	}

	fmt.Fprintf(out, "added %q to %s\n", a.Title, opts.input)
	return nil
}

func runImport(ctx context.Context, out io.Writer, opts importOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var fixed article.Category
	if opts.category != "" {
		if fixed, err = article.ParseCategory(opts.category); err != nil {
			return err
		}
	}

	feeds, err := importFeeds(cfg, opts.feeds, fixed)
	if err != nil {
		return err
	}
	if len(feeds) == 0 {
		return fmt.Errorf("import: no feeds given (use --feed or import.feeds in config)")
	}

	classifier, err := buildClassifier(cfg)
	if err != nil {
		return err
	}

	timeout := cfg.Import.ParseTimeout()
	importOpts := []source.Option{
		source.WithTimeout(timeout),
		source.WithUserAgent(cfg.Import.UserAgent),
		source.WithMaxContent(cfg.Import.MaxContent),
		source.WithLogger(logging.WithPrefix("import")),
	}
	if opts.fetchContent || cfg.Import.FetchContent {
		importOpts = append(importOpts, source.WithExtractor(
			source.NewExtractor(timeout, cfg.Import.UserAgent, cfg.Import.MaxContent)))
	}

	articles, importErr := source.NewImporter(classifier, importOpts...).ImportAll(ctx, feeds)
	if len(articles) == 0 {
		if importErr != nil {
			return importErr
		}
		fmt.Fprintln(out, "no entries found")
		return nil
	}
	if importErr != nil {
		logging.Warn("some feeds failed", "err", importErr)
	}

	if err := article.AppendFile(opts.input, articles...); err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d articles into %s\n", len(articles), opts.input)
	return nil
}

// importFeeds returns the feeds named on the command line, or the configured
// feeds when there are none. fixed, when set, overrides every feed's category.
func importFeeds(cfg *config.Config, urls []string, fixed article.Category) ([]source.Feed, error) {
	var feeds []source.Feed
	if len(urls) > 0 {
		for _, u := range urls {
			feeds = append(feeds, source.Feed{Name: u, URL: u, Category: fixed})
		}
		return feeds, nil
	}

	for _, f := range cfg.Import.Feeds {
		feed := source.Feed{Name: f.Name, URL: f.URL, Category: fixed}
		if feed.Name == "" {
			feed.Name = f.URL
		}
		if feed.Category == "" && f.Category != "" {
			cat, err := article.ParseCategory(f.Category)
			if err != nil {
				return nil, fmt.Errorf("feed %s: %w", feed.Name, err)
			}
			feed.Category = cat
		}
		feeds = append(feeds, feed)
	}
	return feeds, nil
}

func buildClassifier(cfg *config.Config) (*source.Classifier, error) {
	fallback, err := article.ParseCategory(cfg.Import.DefaultCategory)
	if err != nil {
		return nil, err
	}
	extra := make(map[article.Category][]string, len(cfg.Import.CategoryKeywords))
	for name, kws := range cfg.Import.CategoryKeywords {
		cat, err := article.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("import category_keywords: %w", err)
		}
		extra[cat] = append(extra[cat], kws...)
	}
	return source.NewClassifier(extra, fallback), nil
}

func runWeights(out io.Writer, location string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := resolveLocation(cfg, location)
	if err != nil {
		return err
	}
	weights, err := cfg.Weights()
	if err != nil {
		return err
	}
	return render.Weights(out, weights, loc)
}

func runSession(ctx context.Context, in io.Reader, out io.Writer, opts sessionOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := resolveLocation(cfg, opts.location)
	if err != nil {
		return err
	}
	weights, err := cfg.Weights()
	if err != nil {
		return err
	}

	dbPath := cfg.Database.Path
	if opts.db != "" {
		dbPath = opts.db
	}
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if opts.location != "" {
		if err := db.SetLocation(ctx, loc); err != nil {
			return err
		}
	}

	if opts.input != "" {
		articles, err := loadArticles(opts.input)
		if err != nil {
			return err
		}
		for _, a := range articles {
			a.ID = ""
			if _, err := db.AddArticle(ctx, a); err != nil {
				return err
			}
		}
		logging.Info("preloaded articles", "file", opts.input, "count", len(articles))
	}

	s := session.New(db, buildPipeline(cfg), weights, loc,
		session.WithExportDir(cfg.Export.Dir),
		session.WithClock(now),
		session.WithLogger(logging.WithPrefix("session")),
	)
	return s.Run(ctx, in, out)
}
