// Package slack posts Block Kit messages to an incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gemlens/gemlens/internal/portfolio"
	"github.com/gemlens/gemlens/internal/verdict"
)

// Block is one Block Kit element.
type Block map[string]any

// Message is the webhook payload. Text is the notification fallback.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

const headerLimit = 150

// Header builds a plain-text header block. Slack rejects headers over
// 150 characters, so longer text is truncated.
func Header(text string) Block {
	if len(text) > headerLimit {
		text = text[:headerLimit-3] + "..."
	}
	return Block{
		"type": "header",
		"text": map[string]any{"type": "plain_text", "text": text, "emoji": true},
	}
}

// Section builds a mrkdwn section block.
func Section(text string) Block {
	return Block{
		"type": "section",
		"text": map[string]any{"type": "mrkdwn", "text": text},
	}
}

// Fields builds a two-column section. Slack caps sections at 10 fields.
func Fields(fields ...string) Block {
	if len(fields) > 10 {
		fields = fields[:10]
	}
	items := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		items = append(items, map[string]any{"type": "mrkdwn", "text": f})
	}
	return Block{"type": "section", "fields": items}
}

// Divider builds a divider block.
func Divider() Block {
	return Block{"type": "divider"}
}

// Context builds a small-print context block.
func Context(text string) Block {
	return Block{
		"type": "context",
		"elements": []map[string]any{
			{"type": "mrkdwn", "text": text},
		},
	}
}

// Send posts blocks to the webhook. Slack acknowledges with a literal
// "ok" body on success.
func Send(ctx context.Context, webhookURL string, blocks []Block, fallback string) error {
	if webhookURL == "" {
		return fmt.Errorf("no webhook URL configured")
	}

	payload, err := json.Marshal(Message{Text: fallback, Blocks: blocks})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to Slack: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "ok" {
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// VerdictEmoji picks the emoji shown beside a verdict.
func VerdictEmoji(v verdict.Verdict) string {
	switch v {
	case verdict.Winner:
		return "✅"
	case verdict.Loser:
		return "❌"
	case verdict.Flat:
		return "➖"
	case verdict.KeepRunning, verdict.TooEarly:
		return "⏳"
	default:
		return "❓"
	}
}

// StatusEmoji picks the emoji shown beside a health status.
func StatusEmoji(s portfolio.Status) string {
	switch s {
	case portfolio.StatusRed:
		return ":red_circle:"
	case portfolio.StatusYellow:
		return ":large_yellow_circle:"
	default:
		return ":large_green_circle:"
	}
}
