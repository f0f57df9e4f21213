package slack_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gemlens/gemlens/internal/slack"
	"github.com/gemlens/gemlens/internal/verdict"
)

func TestHeaderTruncation(t *testing.T) {
	b := slack.Header(strings.Repeat("x", 200))
	text := b["text"].(map[string]any)["text"].(string)
	if len(text) != 150 {
		t.Errorf("header length = %d, want 150", len(text))
	}
	if !strings.HasSuffix(text, "...") {
		t.Error("truncated header should end with ellipsis")
	}

	short := slack.Header("Verdict: price test")
	if short["text"].(map[string]any)["text"] != "Verdict: price test" {
		t.Error("short header should pass through unchanged")
	}
}

func TestFieldsCap(t *testing.T) {
	fields := make([]string, 14)
	for i := range fields {
		fields[i] = "f"
	}
	b := slack.Fields(fields...)
	if got := len(b["fields"].([]map[string]any)); got != 10 {
		t.Errorf("fields = %d, want capped at 10", got)
	}
}

func TestSend(t *testing.T) {
	var payload slack.Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	blocks := []slack.Block{slack.Header("Test"), slack.Divider(), slack.Section("*bold*")}
	if err := slack.Send(context.Background(), srv.URL, blocks, "fallback text"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if payload.Text != "fallback text" {
		t.Errorf("fallback = %q", payload.Text)
	}
	if len(payload.Blocks) != 3 {
		t.Errorf("blocks = %d, want 3", len(payload.Blocks))
	}
}

func TestSendRejectsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "invalid_blocks")
	}))
	defer srv.Close()

	if err := slack.Send(context.Background(), srv.URL, nil, "x"); err == nil {
		t.Fatal("expected an error on non-ok response")
	}
	if err := slack.Send(context.Background(), "", nil, "x"); err == nil {
		t.Fatal("expected an error without a webhook URL")
	}
}

func TestVerdictEmoji(t *testing.T) {
	if slack.VerdictEmoji(verdict.Winner) != "✅" {
		t.Error("winner emoji")
	}
	if slack.VerdictEmoji(verdict.Loser) != "❌" {
		t.Error("loser emoji")
	}
	if slack.VerdictEmoji(verdict.KeepRunning) != slack.VerdictEmoji(verdict.TooEarly) {
		t.Error("both waiting verdicts share the hourglass")
	}
}
