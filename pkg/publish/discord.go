package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elonfeng/newsprio/pkg/rank"
)

// Discord posts the top of a report as a Discord webhook embed.
type Discord struct {
	client     *http.Client
	webhookURL string
	top        int
}

// NewDiscord creates a Discord publisher listing at most top articles (top <= 0 means 5).
func NewDiscord(webhookURL string, top int) *Discord {
	if top <= 0 {
		top = 5
	}
	return &Discord{
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
		top:        top,
	}
}

func (d *Discord) Name() string { return "discord" }

func (d *Discord) Publish(ctx context.Context, r *rank.Report) error {
	body, err := json.Marshal(d.message(r))
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook status %d", resp.StatusCode)
	}
	return nil
}

func (d *Discord) message(r *rank.Report) map[string]any {
	rows := r.Top
	if len(rows) > d.top {
		rows = rows[:d.top]
	}

	var lines []string
	for i, row := range rows {
		lines = append(lines, fmt.Sprintf("%d. **%s** [%s] %.3f", i+1, row.Title, row.Category, row.Priority))
	}
	description := strings.Join(lines, "\n")
	if r.Count == 0 {
		description = "_No articles added yet._"
	}

	embed := map[string]any{
		"title":       fmt.Sprintf("Top news for %s", r.Location),
		"description": description,
		"color":       0xFF6600,
		"timestamp":   r.GeneratedAt.UTC().Format(time.RFC3339),
	}
	return map[string]any{"embeds": []map[string]any{embed}}
}
