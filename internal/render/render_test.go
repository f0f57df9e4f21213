package render_test

import (
	"strings"
	"testing"

	"github.com/gemlens/gemlens/internal/render"
)

func fp(v float64) *float64 { return &v }

func TestFormatLift(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{fp(0.123), "+12.3%"},
		{fp(-0.045), "-4.5%"},
		{fp(0), "+0.0%"},
		{nil, "—"},
	}
	for _, tt := range tests {
		if got := render.FormatLift(tt.in); got != tt.want {
			t.Errorf("FormatLift(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatConfidence(t *testing.T) {
	if got := render.FormatConfidence(fp(0.82)); got != "82%" {
		t.Errorf("got %q", got)
	}
	if got := render.FormatConfidence(nil); got != "Low data" {
		t.Errorf("nil confidence = %q, want Low data", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1_234_567, "$1.2M"},
		{73000, "$73,000"},
		{1234, "$1,234"},
		{150, "$150"},
		{12.34, "$12.34"},
		{-73000, "-$73,000"},
	}
	for _, tt := range tests {
		if got := render.FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := render.FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("got %q", got)
	}
	if got := render.FormatNumber(999); got != "999" {
		t.Errorf("got %q", got)
	}
	if got := render.FormatNumber(-4200); got != "-4,200" {
		t.Errorf("got %q", got)
	}
}

func TestFormatRuntime(t *testing.T) {
	if got := render.FormatRuntime(0); got != "< 1 day" {
		t.Errorf("got %q", got)
	}
	if got := render.FormatRuntime(1); got != "1 day" {
		t.Errorf("got %q", got)
	}
	if got := render.FormatRuntime(14); got != "14 days" {
		t.Errorf("got %q", got)
	}
}

func TestWrap(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	wrapped := render.Wrap(text, 15)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 15 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(strings.Fields(wrapped), " ") != text {
		t.Error("wrapping must preserve the words")
	}
	if render.Wrap("unchanged", 0) != "unchanged" {
		t.Error("non-positive width leaves text unchanged")
	}
}
