// Package render formats analysis output for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gemlens/gemlens/internal/portfolio"
	"github.com/gemlens/gemlens/internal/verdict"
)

var (
	colorGreen  = lipgloss.Color("#2ECC71")
	colorRed    = lipgloss.Color("#E74C3C")
	colorYellow = lipgloss.Color("#F4D03F")
	colorMuted  = lipgloss.Color("245")
	colorAccent = lipgloss.Color("#5DADE2")
)

// Styles groups the pre-configured lipgloss styles used by commands.
var Styles = struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Good    lipgloss.Style
	Bad     lipgloss.Style
	Warn    lipgloss.Style
	Muted   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Section: lipgloss.NewStyle().Bold(true),
	Good:    lipgloss.NewStyle().Foreground(colorGreen),
	Bad:     lipgloss.NewStyle().Foreground(colorRed),
	Warn:    lipgloss.NewStyle().Foreground(colorYellow),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
}

// Title renders a command banner.
func Title(text string) string {
	return Styles.Title.Render(text)
}

// Rule renders a horizontal divider.
func Rule() string {
	return Styles.Muted.Render(strings.Repeat("─", 60))
}

// VerdictStyle colors a verdict for the terminal.
func VerdictStyle(v verdict.Verdict) lipgloss.Style {
	switch v {
	case verdict.Winner:
		return Styles.Good
	case verdict.Loser:
		return Styles.Bad
	case verdict.Flat:
		return Styles.Muted
	default:
		return Styles.Warn
	}
}

// StatusStyle colors a health status.
func StatusStyle(s portfolio.Status) lipgloss.Style {
	switch s {
	case portfolio.StatusRed:
		return Styles.Bad
	case portfolio.StatusYellow:
		return Styles.Warn
	default:
		return Styles.Good
	}
}

// FormatLift renders a fractional uplift as a signed percentage, or a
// dash when the value is absent.
func FormatLift(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%+.1f%%", *v*100)
}

// FormatPct renders a 0..1 fraction as a whole percentage.
func FormatPct(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}

// FormatConfidence renders p2bb, labeling absent values.
func FormatConfidence(v *float64) string {
	if v == nil {
		return "Low data"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}

// FormatCurrency renders dollars compactly: "$1.2M" above a million,
// whole dollars with thousands separators above a hundred, cents below.
func FormatCurrency(v float64) string {
	neg := ""
	if v < 0 {
		neg = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", neg, v/1_000_000)
	case v >= 100:
		return fmt.Sprintf("%s$%s", neg, groupThousands(fmt.Sprintf("%.0f", v)))
	default:
		return fmt.Sprintf("%s$%.2f", neg, v)
	}
}

// FormatNumber renders an integer with thousands separators.
func FormatNumber(n int) string {
	neg := ""
	if n < 0 {
		neg = "-"
		n = -n
	}
	return neg + groupThousands(fmt.Sprintf("%d", n))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatRuntime renders a day count for humans.
func FormatRuntime(days int) string {
	switch {
	case days < 1:
		return "< 1 day"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

// Wrap breaks text into lines no wider than width, on word boundaries.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if i > 0 {
			if lineLen+1+len(w) > width {
				b.WriteByte('\n')
				lineLen = 0
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}
