package article

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileHeader is the column order of article CSV files.
var FileHeader = []string{"Title", "Content", "Category", "Likes", "Shares", "Timestamp"}

// ReadFile loads raw article records from a .csv, .yaml or .yml file.
// Records are decoded, not validated; pass them through a Collection.
func ReadFile(path string) ([]Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open articles %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		articles, err := ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("read articles %s: %w", path, err)
		}
		return articles, nil
	case ".yaml", ".yml":
		var articles []Article
		if err := yaml.NewDecoder(f).Decode(&articles); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse articles %s: %w", path, err)
		}
		return articles, nil
	default:
		return nil, fmt.Errorf("unsupported articles file %s: want .csv, .yaml or .yml", path)
	}
}

// AppendFile appends articles to path, creating it when missing.
func AppendFile(path string, articles ...Article) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return appendCSV(path, articles)
	case ".yaml", ".yml":
		existing, err := ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		data, err := yaml.Marshal(append(existing, articles...))
		if err != nil {
			return fmt.Errorf("marshal articles: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write articles %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported articles file %s: want .csv, .yaml or .yml", path)
	}
}

func appendCSV(path string, articles []Article) error {
	info, err := os.Stat(path)
	writeHeader := errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open articles %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, articles, writeHeader); err != nil {
		return fmt.Errorf("write articles %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes articles in FileHeader column order.
func WriteCSV(w io.Writer, articles []Article, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(FileHeader); err != nil {
			return err
		}
	}
	for _, a := range articles {
		rec := []string{
			a.Title,
			a.Content,
			string(a.Category),
			strconv.Itoa(a.Likes),
			strconv.Itoa(a.Shares),
			a.Timestamp,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV decodes article rows. Columns are matched by header name, ignoring case.
func ReadCSV(r io.Reader) ([]Article, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range FileHeader {
		if _, ok := cols[strings.ToLower(want)]; !ok {
			return nil, fmt.Errorf("missing column %q", want)
		}
	}

	field := func(rec []string, name string) string {
		i := cols[strings.ToLower(name)]
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var articles []Article
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		likes, err := parseCount("likes", field(rec, "Likes"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		shares, err := parseCount("shares", field(rec, "Shares"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		category := Category(strings.TrimSpace(field(rec, "Category")))
		if c, err := ParseCategory(string(category)); err == nil {
			category = c
		}

		articles = append(articles, Article{
			Title:     field(rec, "Title"),
			Content:   field(rec, "Content"),
			Category:  category,
			Likes:     likes,
			Shares:    shares,
			Timestamp: strings.TrimSpace(field(rec, "Timestamp")),
		})
	}
	return articles, nil
}

func parseCount(name, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Field: name, Reason: fmt.Sprintf("%q is not an integer", s)}
	}
	return n, nil
}
