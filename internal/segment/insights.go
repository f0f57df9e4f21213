package segment

import (
	"fmt"
	"math"
	"strings"
)

// Spread thresholds for cross-segment comparisons: a device gap over
// 5% or a new-vs-returning gap over 3% is worth calling out.
const (
	deviceSpreadThreshold  = 0.05
	visitorSpreadThreshold = 0.03
)

// Insights derives customer-behavior narratives from segment patterns:
// strongest and weakest segments, device spread, new-versus-returning
// response, and traffic-source splits.
func Insights(results []Result, overallUplift *float64, neutralLift float64) []string {
	var insights []string

	var withData []Result
	for _, r := range results {
		if r.Uplift != nil {
			withData = append(withData, r)
		}
	}
	if len(withData) == 0 {
		return nil
	}

	strongest := withData[0]
	weakest := withData[0]
	for _, r := range withData[1:] {
		if *r.Uplift > *strongest.Uplift {
			strongest = r
		}
		if *r.Uplift < *weakest.Uplift {
			weakest = r
		}
	}

	if *strongest.Uplift > neutralLift {
		insights = append(insights, fmt.Sprintf(
			"%s (%s) responded strongest at %s lift.",
			strongest.Name, strongest.Type, fmtLift(*strongest.Uplift)))
	}

	if overallUplift != nil && *overallUplift > 0 && *weakest.Uplift < -neutralLift {
		insights = append(insights, fmt.Sprintf(
			"%s (%s) is the outlier: actually negative at %s while overall is positive.",
			weakest.Name, weakest.Type, fmtLift(*weakest.Uplift)))
	} else if *weakest.Uplift < -neutralLift {
		insights = append(insights, fmt.Sprintf(
			"%s (%s) is underperforming at %s.",
			weakest.Name, weakest.Type, fmtLift(*weakest.Uplift)))
	}

	if s := deviceInsight(withData); s != "" {
		insights = append(insights, s)
	}
	if s := visitorTypeInsight(withData); s != "" {
		insights = append(insights, s)
	}
	if s := trafficSourceInsight(withData, neutralLift); s != "" {
		insights = append(insights, s)
	}

	return insights
}

func deviceInsight(results []Result) string {
	var best, worst *Result
	for i := range results {
		if results[i].Type != "Device" {
			continue
		}
		if best == nil || *results[i].Uplift > *best.Uplift {
			best = &results[i]
		}
		if worst == nil || *results[i].Uplift < *worst.Uplift {
			worst = &results[i]
		}
	}
	if best == nil || best == worst {
		return ""
	}
	diff := *best.Uplift - *worst.Uplift
	if diff <= deviceSpreadThreshold {
		return ""
	}
	return fmt.Sprintf("%s outperforms %s by %s. Consider device-specific optimization.",
		best.Name, worst.Name, fmtLift(diff))
}

func visitorTypeInsight(results []Result) string {
	var newVisitors, returning *Result
	for i := range results {
		if results[i].Type != "Visitor Type" {
			continue
		}
		name := strings.ToLower(results[i].Name)
		switch {
		case strings.Contains(name, "new"):
			newVisitors = &results[i]
		case strings.Contains(name, "return"):
			returning = &results[i]
		}
	}
	if newVisitors == nil || returning == nil {
		return ""
	}
	diff := math.Abs(*newVisitors.Uplift - *returning.Uplift)
	if diff <= visitorSpreadThreshold {
		return ""
	}
	if *newVisitors.Uplift > *returning.Uplift {
		return fmt.Sprintf("New visitors drove more of the lift (%s) vs returning (%s).",
			fmtLift(*newVisitors.Uplift), fmtLift(*returning.Uplift))
	}
	return fmt.Sprintf("Returning visitors responded more (%s) vs new visitors (%s).",
		fmtLift(*returning.Uplift), fmtLift(*newVisitors.Uplift))
}

func trafficSourceInsight(results []Result, neutralLift float64) string {
	var positive, negative []string
	for _, r := range results {
		if r.Type != "Traffic Source" {
			continue
		}
		if *r.Uplift > neutralLift {
			positive = append(positive, r.Name)
		} else if *r.Uplift < -neutralLift {
			negative = append(negative, r.Name)
		}
	}
	if len(positive) == 0 || len(negative) == 0 {
		return ""
	}
	if len(positive) > 2 {
		positive = positive[:2]
	}
	if len(negative) > 2 {
		negative = negative[:2]
	}
	return fmt.Sprintf("Works for %s traffic but not %s traffic; audience intent may differ.",
		strings.Join(positive, ", "), strings.Join(negative, ", "))
}

func fmtLift(lift float64) string {
	sign := ""
	if lift > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, lift*100)
}
