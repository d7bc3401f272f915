package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/elonfeng/newsprio/internal/config"
	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/elonfeng/newsprio/pkg/publish"
	"github.com/elonfeng/newsprio/pkg/rank"
	"github.com/elonfeng/newsprio/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCSV = `Title,Content,Category,Likes,Shares,Timestamp
A,terrible news,Politics,0,0,2026-10-19
B,great win,Sports,500,500,2026-10-19
`

func setup(t *testing.T) string {
	t.Helper()
	prevNow, prevCfg := now, cfgFile
	now = func() time.Time { return time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC) }
	cfgFile = ""
	t.Cleanup(func() { now, cfgFile = prevNow, prevCfg })
	return t.TempDir()
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestBuildWeights(t *testing.T) {
	cfg := config.Default()

	w, err := buildWeights(cfg, []string{"sports=0.6", "Politics = 1.5"})
	require.NoError(t, err)
	cat := w.CategoryWeights()
	assert.Equal(t, 0.6, cat[article.CategorySports])
	assert.Equal(t, 1.5, cat[article.CategoryPolitics])
	assert.Equal(t, 0.2, cat[article.CategoryBusiness])

	_, err = buildWeights(cfg, []string{"Sports"})
	assert.Error(t, err)
	_, err = buildWeights(cfg, []string{"Weather=1"})
	assert.Error(t, err)
	_, err = buildWeights(cfg, []string{"Sports=2"})
	assert.ErrorIs(t, err, score.ErrWeightOutOfRange)
	_, err = buildWeights(cfg, []string{"Politics=NaN"})
	assert.ErrorIs(t, err, score.ErrWeightOutOfRange)
}

func TestRunRankTableAndExport(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "articles.csv")
	writeFile(t, input, scenarioCSV)

	var out bytes.Buffer
	err := runRank(context.Background(), &out, rankOptions{
		input:    input,
		location: "delhi",
		export:   true,
		outDir:   filepath.Join(dir, "out"),
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"1", "B", "Sports"}, strings.Fields(lines[1])[:3])
	assert.Equal(t, []string{"2", "A", "Politics"}, strings.Fields(lines[2])[:3])

	data, err := os.ReadFile(filepath.Join(dir, "out", "sorted_articles_Delhi.csv"))
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, rows, 3)
	assert.True(t, strings.HasPrefix(rows[1], "B,great win,Sports,500,500,2026-10-19,"))
}

func TestRunRankJSON(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "articles.csv")
	writeFile(t, input, scenarioCSV)

	var out bytes.Buffer
	require.NoError(t, runRank(context.Background(), &out, rankOptions{
		input: input, location: "Delhi", json: true, limit: 1,
	}))

	var report rank.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, score.LocationDelhi, report.Location)
	assert.Equal(t, 2, report.Count)
	require.Len(t, report.Top, 1)
	assert.Equal(t, "B", report.Top[0].Title)
	require.Len(t, report.Articles, 2)
	assert.Equal(t, 1.0, report.Articles[0].Engagement)
}

func TestRunRankEmpty(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "articles.csv")
	writeFile(t, input, "Title,Content,Category,Likes,Shares,Timestamp\n")

	var out bytes.Buffer
	require.NoError(t, runRank(context.Background(), &out, rankOptions{input: input}))
	assert.Equal(t, emptyHint+"\n", out.String())
}

func TestRunRankRejectsInvalidFile(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "articles.csv")
	writeFile(t, input, scenarioCSV+"C,text,Sports,1,1,2026-13-01\n")

	err := runRank(context.Background(), io.Discard, rankOptions{input: input})
	var dateErr *article.InvalidDateError
	assert.ErrorAs(t, err, &dateErr)
}

func TestRunRankPublish(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "articles.csv")
	writeFile(t, input, scenarioCSV)

	var body []byte
	var signature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		signature = r.Header.Get(publish.SignatureHeader)
	}))
	defer srv.Close()
	t.Setenv("NEWSPRIO_WEBHOOK_URL", srv.URL)
	t.Setenv("NEWSPRIO_WEBHOOK_SECRET", "topsecret")

	require.NoError(t, runRank(context.Background(), io.Discard, rankOptions{
		input: input, location: "Delhi", publish: true,
	}))
	assert.Equal(t, "sha256="+publish.Sign("topsecret", body), signature)

	var report rank.Report
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 2, report.Count)
}

func TestRunRankPublishWithoutDestinations(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "articles.csv")
	writeFile(t, input, scenarioCSV)

	err := runRank(context.Background(), io.Discard, rankOptions{input: input, publish: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no destinations")
}

func TestRunAdd(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "articles.yaml")

	var out bytes.Buffer
	require.NoError(t, runAdd(&out, addOptions{
		input: input, title: "Monsoon arrives", content: "Relief for farmers",
		category: "business", likes: 12, shares: 3,
	}))
	assert.Contains(t, out.String(), `added "Monsoon arrives"`)

	err := runAdd(io.Discard, addOptions{input: input, title: "Bad", category: "Sports", likes: -1})
	var vErr *article.ValidationError
	assert.ErrorAs(t, err, &vErr)

	articles, err := loadArticles(input)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, article.CategoryBusiness, articles[0].Category)
	assert.Equal(t, "2026-10-19", articles[0].Timestamp)
}

const importFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Local</title>
<item><title>Metro line opens</title><description>Commuters cheer the new line</description><pubDate>Sun, 18 Oct 2026 08:00:00 GMT</pubDate></item>
<item><title>Budget session</title><description>Parliament debates the budget</description><pubDate>Sat, 17 Oct 2026 08:00:00 GMT</pubDate></item>
</channel></rss>`

func TestRunImport(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "articles.csv")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(importFeed))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, runImport(context.Background(), &out, importOptions{
		input: input, feeds: []string{srv.URL}, category: "Politics",
	}))
	assert.Contains(t, out.String(), "imported 2 articles")

	articles, err := loadArticles(input)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Metro line opens", articles[0].Title)
	assert.Equal(t, "2026-10-18", articles[0].Timestamp)
	assert.Equal(t, article.CategoryPolitics, articles[1].Category)
}

func TestRunImportNeedsFeeds(t *testing.T) {
	dir := setup(t)
	err := runImport(context.Background(), io.Discard, importOptions{input: filepath.Join(dir, "a.csv")})
	assert.Error(t, err)
}

func TestImportFeedsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Import.Feeds = []config.FeedItem{
		{Name: "sport", URL: "http://example.com/sport", Category: "sports"},
		{URL: "http://example.com/all"},
	}

	feeds, err := importFeeds(cfg, nil, "")
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	assert.Equal(t, article.CategorySports, feeds[0].Category)
	assert.Equal(t, "http://example.com/all", feeds[1].Name)
	assert.Empty(t, feeds[1].Category)

	feeds, err = importFeeds(cfg, nil, article.CategoryTechnology)
	require.NoError(t, err)
	assert.Equal(t, article.CategoryTechnology, feeds[0].Category)
}

func TestRunSessionPreloadsInput(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "articles.csv")
	writeFile(t, input, scenarioCSV)

	var out bytes.Buffer
	err := runSession(context.Background(), strings.NewReader("rank\nquit\n"), &out, sessionOptions{
		location: "Delhi", input: input,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Ranked for Delhi:")
	assert.Less(t, strings.Index(out.String(), " B "), strings.Index(out.String(), " A "))
}

func TestRunWeights(t *testing.T) {
	setup(t)
	var out bytes.Buffer
	require.NoError(t, runWeights(&out, "Bangalore"))
	assert.Contains(t, out.String(), "Bangalore")
	assert.Contains(t, out.String(), "Technology")

	assert.Error(t, runWeights(io.Discard, "Atlantis"))
}

func TestRootCommand(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "articles.csv")
	writeFile(t, input, scenarioCSV)

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"rank", "--input", input, "--location", "Delhi", "--weight", "Politics=1.5", "--full"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "SENTIMENT")
	assert.Less(t, strings.Index(out.String(), "\nA "), strings.Index(out.String(), "\nB "))

	cmd = rootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"rank"})
	assert.Error(t, cmd.Execute())
}
