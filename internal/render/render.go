// Package render prints articles, rankings and weight tables as aligned text.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/elonfeng/newsprio/pkg/rank"
	"github.com/elonfeng/newsprio/pkg/score"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Ranking prints the (title, priority, category) projection with its rank.
func Ranking(w io.Writer, rows []rank.Row) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tTITLE\tCATEGORY\tPRIORITY")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\n", i+1, r.Title, r.Category, r.Priority)
	}
	return tw.Flush()
}

// Full prints every ranked article with its derived scores.
func Full(w io.Writer, ranked []rank.Ranked) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "TITLE\tCATEGORY\tLIKES\tSHARES\tDATE\tSENTIMENT\tRECENCY\tENGAGEMENT\tPRIORITY")
	for _, r := range ranked {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.4f\t%.4f\t%.4f\t%.4f\n",
			r.Title, r.Category,
			humanize.Comma(int64(r.Likes)), humanize.Comma(int64(r.Shares)),
			r.Timestamp, r.Sentiment, r.Recency, r.Engagement, r.Priority)
	}
	return tw.Flush()
}

// Articles prints the collection in insertion order.
func Articles(w io.Writer, articles []article.Article) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tTITLE\tCATEGORY\tLIKES\tSHARES\tDATE")
	for i, a := range articles {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, a.Title, a.Category,
			humanize.Comma(int64(a.Likes)), humanize.Comma(int64(a.Shares)), a.Timestamp)
	}
	return tw.Flush()
}

// Weights prints the category weights next to loc's multipliers and the
// category term each pair adds to an article's priority.
func Weights(w io.Writer, weights *score.Weights, loc score.Location) error {
	calc, err := weights.Calculator(loc)
	if err != nil {
		return err
	}
	mult, err := weights.Multipliers(loc)
	if err != nil {
		return err
	}
	cat := weights.CategoryWeights()

	tw := newTable(w)
	fmt.Fprintf(tw, "CATEGORY\tWEIGHT\t%s\tTERM\n", loc)
	for _, c := range article.AllCategories() {
		term, err := calc.CategoryTerm(c)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.3f\n", c, cat[c], mult[c], term)
	}
	return tw.Flush()
}
