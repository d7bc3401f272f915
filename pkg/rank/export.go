package rank

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/elonfeng/newsprio/pkg/score"
)

// ExportHeader lists the export columns: the article fields, then the derived ones.
var ExportHeader = append(append([]string{}, article.FileHeader...),
	"Sentiment", "Recency", "Engagement", "Priority_Score")

// ExportFilename is the download name for a location's ranking.
func ExportFilename(loc score.Location) string {
	return fmt.Sprintf("sorted_articles_%s.csv", loc)
}

// WriteCSV writes one header row and one row per ranked article, in order.
func WriteCSV(w io.Writer, rows []Ranked) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		rec := []string{
			r.Title,
			r.Content,
			string(r.Category),
			strconv.Itoa(r.Likes),
			strconv.Itoa(r.Shares),
			r.Timestamp,
			formatFloat(r.Sentiment),
			formatFloat(r.Recency),
			formatFloat(r.Engagement),
			formatFloat(r.Priority),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %q: %w", r.Title, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFile writes the sorted table to dir under ExportFilename and returns the path.
func ExportFile(dir string, res *Result) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, ExportFilename(res.Location))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, res.Sorted); err != nil {
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	return path, f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
