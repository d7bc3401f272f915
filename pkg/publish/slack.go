package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/elonfeng/newsprio/pkg/rank"
)

// Slack posts the top of a report to a Slack incoming webhook.
type Slack struct {
	client     *http.Client
	webhookURL string
	top        int
}

// NewSlack creates a Slack publisher listing at most top articles (top <= 0 means 5).
func NewSlack(webhookURL string, top int) *Slack {
	if top <= 0 {
		top = 5
	}
	return &Slack{
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
		top:        top,
	}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Publish(ctx context.Context, r *rank.Report) error {
	body, err := json.Marshal(s.message(r))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook status %d", resp.StatusCode)
	}
	return nil
}

// message builds a Block Kit payload.
func (s *Slack) message(r *rank.Report) map[string]any {
	blocks := []map[string]any{
		{
			"type": "header",
			"text": map[string]any{
				"type": "plain_text",
				"text": fmt.Sprintf("Top news for %s", r.Location),
			},
		},
	}

	if r.Count == 0 {
		blocks = append(blocks, section("_No articles added yet._"))
		return map[string]any{"blocks": blocks}
	}

	rows := r.Top
	if len(rows) > s.top {
		rows = rows[:s.top]
	}
	var b strings.Builder
	for i, row := range rows {
		fmt.Fprintf(&b, "%d. *%s* [%s] %.3f\n", i+1, row.Title, row.Category, row.Priority)
	}
	blocks = append(blocks, section(strings.TrimRight(b.String(), "\n")))
	blocks = append(blocks, map[string]any{
		"type":     "context",
		"elements": []map[string]any{{
			"type": "mrkdwn",
			"text": fmt.Sprintf("%s articles ranked %s", humanize.Comma(int64(r.Count)), humanize.Time(r.GeneratedAt)),
		}},
	})
	return map[string]any{"blocks": blocks}
}

func section(text string) map[string]any {
	return map[string]any{
		"type": "section",
		"text": map[string]any{"type": "mrkdwn", "text": text},
	}
}
