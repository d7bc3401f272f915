package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/elonfeng/newsprio/pkg/score"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a database that lives only as long as the store.
const MemoryPath = ":memory:"

const settingLocation = "location"

// Store is the session persistence interface.
type Store interface {
	AddArticle(ctx context.Context, a article.Article) (article.Article, error)
	ListArticles(ctx context.Context) ([]article.Article, error)
	CountArticles(ctx context.Context) (int, error)

	SetCategoryWeight(ctx context.Context, c article.Category, w float64) error
	CategoryWeights(ctx context.Context) (score.CategoryWeights, error)

	SetLocation(ctx context.Context, loc score.Location) error
	Location(ctx context.Context) (score.Location, bool, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	if path == "" {
		path = MemoryPath
	}

	dsn := path
	if path != MemoryPath {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Every pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddArticle validates a and appends it. The stored copy is returned with its ID.
func (s *SQLiteStore) AddArticle(ctx context.Context, a article.Article) (article.Article, error) {
	if err := a.Validate(); err != nil {
		return article.Article{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (id, title, content, category, likes, shares, timestamp, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Title, a.Content, a.Category, a.Likes, a.Shares, a.Timestamp, time.Now().UTC())
	if err != nil {
		return article.Article{}, fmt.Errorf("insert article %q: %w", a.Title, err)
	}
	return a, nil
}

// ListArticles returns all articles in insertion order.
func (s *SQLiteStore) ListArticles(ctx context.Context) ([]article.Article, error) {
	var articles []article.Article
	err := s.db.SelectContext(ctx, &articles, `
		SELECT id, title, content, category, likes, shares, timestamp
		FROM articles ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (s *SQLiteStore) CountArticles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM articles"); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// SetCategoryWeight records a slider adjustment. Range checks belong to score.Weights.
func (s *SQLiteStore) SetCategoryWeight(ctx context.Context, c article.Category, w float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_weights (category, weight, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			weight = excluded.weight,
			updated_at = excluded.updated_at
	`, c, w, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set weight %s: %w", c, err)
	}
	return nil
}

// CategoryWeights returns the adjusted weights only; unadjusted categories are absent.
func (s *SQLiteStore) CategoryWeights(ctx context.Context) (score.CategoryWeights, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT category, weight FROM category_weights")
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	defer rows.Close()

	weights := make(score.CategoryWeights)
	for rows.Next() {
		var cat string
		var w float64
		if err := rows.Scan(&cat, &w); err != nil {
			return nil, err
		}
		weights[article.Category(cat)] = w
	}
	return weights, rows.Err()
}

func (s *SQLiteStore) SetLocation(ctx context.Context, loc score.Location) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, settingLocation, string(loc))
	if err != nil {
		return fmt.Errorf("set location: %w", err)
	}
	return nil
}

// Location returns the stored location, if one was set.
func (s *SQLiteStore) Location(ctx context.Context) (score.Location, bool, error) {
	var v string
	err := s.db.GetContext(ctx, &v, "SELECT value FROM settings WHERE key = ?", settingLocation)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get location: %w", err)
	}
	return score.Location(strings.TrimSpace(v)), true, nil
}
