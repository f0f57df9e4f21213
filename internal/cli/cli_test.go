package cli

import (
	"strings"
	"testing"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/segment"
	"github.com/gemlens/gemlens/internal/verdict"
)

func fp(v float64) *float64 { return &v }

func TestRolloutDecision(t *testing.T) {
	contra := []segment.Result{{Name: "Mobile", Contradiction: true}}

	tests := []struct {
		name           string
		overall        verdict.Verdict
		contradictions []segment.Result
		want           string
	}{
		{"clean winner", verdict.Winner, nil, "ROLL OUT"},
		{"winner with contradiction", verdict.Winner, contra, "ROLL OUT WITH CAUTION"},
		{"loser", verdict.Loser, nil, "END TEST"},
		{"flat", verdict.Flat, nil, "END TEST"},
		{"too early", verdict.TooEarly, nil, "WAIT"},
		{"keep running", verdict.KeepRunning, nil, "KEEP RUNNING"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, rationale := rolloutDecision(tt.overall, tt.contradictions)
			if action != tt.want {
				t.Errorf("action = %q, want %q", action, tt.want)
			}
			if rationale == "" {
				t.Error("every decision needs a rationale")
			}
		})
	}
}

func TestVerdictRisk(t *testing.T) {
	top := variantRow{call: verdict.Winner, conf: fp(0.90)}
	risk := verdictRisk(top, 0.95)
	if !strings.Contains(risk, "1 in 10") {
		t.Errorf("risk at 90%% confidence should read 1 in 10: %q", risk)
	}

	confident := variantRow{call: verdict.Winner, conf: fp(0.97)}
	if r := verdictRisk(confident, 0.95); !strings.Contains(r, "minimal") {
		t.Errorf("above the high bar risk should be minimal: %q", r)
	}

	if r := verdictRisk(variantRow{call: verdict.Loser, conf: fp(0.10)}, 0.95); r != "" {
		t.Errorf("risk only applies to winners, got %q", r)
	}
}

func TestNextTestSuggestion(t *testing.T) {
	for _, typ := range analytics.TestTypes {
		for _, v := range []verdict.Verdict{verdict.Winner, verdict.Loser, verdict.Flat, verdict.KeepRunning} {
			if nextTestSuggestion(typ, v) == "" {
				t.Errorf("no suggestion for %s/%s", typ, v)
			}
		}
	}
}

func TestTruncateName(t *testing.T) {
	if got := truncateName("short", 30); got != "short" {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("a", 40)
	got := truncateName(long, 30)
	if len(got) != 30 || !strings.HasSuffix(got, "...") {
		t.Errorf("got %q (len %d)", got, len(got))
	}
}
