// Package session runs the interactive ranking loop: articles, weight
// adjustments and the location live in a session store, and every change
// re-ranks the collection.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/elonfeng/newsprio/internal/render"
	"github.com/elonfeng/newsprio/internal/store"
	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/elonfeng/newsprio/pkg/rank"
	"github.com/elonfeng/newsprio/pkg/score"
)

// EmptyHint is printed instead of a table when nothing has been added.
const EmptyHint = "No articles added yet. Use 'add' to submit one."

const helpText = `Commands:
  add TITLE | CONTENT | CATEGORY | LIKES | SHARES [| YYYY-MM-DD]
                          add an article (date defaults to today)
  location LOCATION       select Mumbai, Delhi, Bangalore or Pune
  weight CATEGORY VALUE   adjust a category weight (0 to 1.5)
  weights                 show category weights for the current location
  list                    list articles in the order they were added
  rank                    show articles sorted by priority
  table                   show all derived scores in the order articles were added
  export [DIR]            write sorted_articles_<location>.csv
  help                    show this help
  quit                    leave the session`

// Session is one interactive ranking session.
type Session struct {
	store     store.Store
	pipeline  *rank.Pipeline
	base      *score.Weights
	location  score.Location
	exportDir string
	now       func() time.Time
	logger    *log.Logger
}

// Option configures a Session.
type Option func(*Session)

func WithExportDir(dir string) Option {
	return func(s *Session) { s.exportDir = dir }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a session over st. base holds the weights before any
// adjustment; loc is used until the store records another location.
func New(st store.Store, p *rank.Pipeline, base *score.Weights, loc score.Location, opts ...Option) *Session {
	s := &Session{
		store:     st,
		pipeline:  p,
		base:      base.Clone(),
		location:  loc,
		exportDir: ".",
		now:       time.Now,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads commands from in until EOF, quit or ctx is done. Command errors
// are reported on out and do not end the session.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	loc, err := s.currentLocation(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "News priority session for %s. Type 'help' for commands.\n", loc)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := s.Exec(ctx, scanner.Text(), out)
		if err != nil {
			s.logger.Debug("command failed", "line", scanner.Text(), "err", err)
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// Exec runs a single command line.
func (s *Session) Exec(ctx context.Context, line string, out io.Writer) (quit bool, err error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(out, helpText)
		return false, nil
	case "add":
		return false, s.add(ctx, rest, out)
	case "location":
		return false, s.setLocation(ctx, rest, out)
	case "weight":
		return false, s.setWeight(ctx, rest, out)
	case "weights":
		return false, s.showWeights(ctx, out)
	case "list":
		return false, s.list(ctx, out)
	case "rank":
		return false, s.showRanking(ctx, out)
	case "table":
		return false, s.showTable(ctx, out)
	case "export":
		return false, s.export(ctx, rest, out)
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func (s *Session) add(ctx context.Context, args string, out io.Writer) error {
	fields := strings.Split(args, "|")
	if len(fields) != 5 && len(fields) != 6 {
		return fmt.Errorf("add: want TITLE | CONTENT | CATEGORY | LIKES | SHARES [| DATE], got %d fields", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	category, err := article.ParseCategory(fields[2])
	if err != nil {
		return err
	}
	likes, err := parseCount("likes", fields[3])
	if err != nil {
		return err
	}
	shares, err := parseCount("shares", fields[4])
	if err != nil {
		return err
	}
	date := s.now().Format(article.DateLayout)
	if len(fields) == 6 && fields[5] != "" {
		date = fields[5]
	}

	a, err := article.New(fields[0], fields[1], category, likes, shares, date)
	if err != nil {
		return err
	}
	if _, err := s.store.AddArticle(ctx, a); err != nil {
		return err
	}
	s.logger.Info("article added", "title", a.Title, "category", a.Category)
	fmt.Fprintf(out, "Added %q.\n", a.Title)
	return s.showRanking(ctx, out)
}

func (s *Session) setLocation(ctx context.Context, arg string, out io.Writer) error {
	loc, err := score.ParseLocation(arg)
	if err != nil {
		return err
	}
	if err := s.store.SetLocation(ctx, loc); err != nil {
		return err
	}
	s.location = loc
	fmt.Fprintf(out, "Location set to %s.\n", loc)
	return s.showRanking(ctx, out)
}

func (s *Session) setWeight(ctx context.Context, args string, out io.Writer) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return fmt.Errorf("weight: want CATEGORY VALUE")
	}
	category, err := article.ParseCategory(fields[0])
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("weight: invalid value %q", fields[1])
	}

	weights, err := s.weights(ctx)
	if err != nil {
		return err
	}
	if err := weights.SetCategoryWeight(category, v); err != nil {
		return err
	}
	if err := s.store.SetCategoryWeight(ctx, category, v); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s weight set to %.2f.\n", category, v)
	return s.showRanking(ctx, out)
}

func (s *Session) showWeights(ctx context.Context, out io.Writer) error {
	weights, err := s.weights(ctx)
	if err != nil {
		return err
	}
	loc, err := s.currentLocation(ctx)
	if err != nil {
		return err
	}
	return render.Weights(out, weights, loc)
}

func (s *Session) list(ctx context.Context, out io.Writer) error {
	n, err := s.store.CountArticles(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(out, EmptyHint)
		return nil
	}
	articles, err := s.store.ListArticles(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d articles:\n", n)
	return render.Articles(out, articles)
}

func (s *Session) showRanking(ctx context.Context, out io.Writer) error {
	res, err := s.rank(ctx)
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		fmt.Fprintln(out, EmptyHint)
		return nil
	}
	fmt.Fprintf(out, "Ranked for %s:\n", res.Location)
	return render.Ranking(out, res.Projection())
}

func (s *Session) showTable(ctx context.Context, out io.Writer) error {
	res, err := s.rank(ctx)
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		fmt.Fprintln(out, EmptyHint)
		return nil
	}
	return render.Full(out, res.Enriched)
}

func (s *Session) export(ctx context.Context, dir string, out io.Writer) error {
	res, err := s.rank(ctx)
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		fmt.Fprintln(out, EmptyHint)
		return nil
	}
	if dir == "" {
		dir = s.exportDir
	}
	path, err := rank.ExportFile(dir, res)
	if err != nil {
		return err
	}
	s.logger.Info("exported", "path", path, "articles", res.Len())
	fmt.Fprintf(out, "Exported %d articles to %s.\n", res.Len(), path)
	return nil
}

// rank runs a full pass over the stored articles.
func (s *Session) rank(ctx context.Context) (*rank.Result, error) {
	articles, err := s.store.ListArticles(ctx)
	if err != nil {
		return nil, err
	}
	weights, err := s.weights(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := s.currentLocation(ctx)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Rank(articles, loc, weights, s.now())
}

// weights applies the stored adjustments to the base tables.
func (s *Session) weights(ctx context.Context) (*score.Weights, error) {
	adjusted, err := s.store.CategoryWeights(ctx)
	if err != nil {
		return nil, err
	}
	w := s.base.Clone()
	for c, v := range adjusted {
		if err := w.SetCategoryWeight(c, v); err != nil {
			return nil, fmt.Errorf("stored weight: %w", err)
		}
	}
	return w, nil
}

func (s *Session) currentLocation(ctx context.Context) (score.Location, error) {
	loc, ok, err := s.store.Location(ctx)
	if err != nil {
		return "", err
	}
	if ok {
		return loc, nil
	}
	return s.location, nil
}

func parseCount(field, v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &article.ValidationError{Field: field, Reason: fmt.Sprintf("not an integer: %q", v)}
	}
	return n, nil
}
