package segment

import (
	"fmt"
	"strings"

	"github.com/gemlens/gemlens/internal/verdict"
)

// Action is the rollout call derived from segment composition.
type Action string

const (
	RollOut         Action = "ROLL OUT"
	SegmentSpecific Action = "SEGMENT-SPECIFIC"
	DontRollOut     Action = "DON'T ROLL OUT"
	Hold            Action = "HOLD"
)

// Recommendation is a rollout action with its reasoning.
type Recommendation struct {
	Action Action
	Reason string
}

// Recommend derives a rollout recommendation from the composition of
// segment verdicts: no losers and at least half winners rolls out
// broadly; a mix of winners and losers suggests a segment-specific
// rollout naming both sides; losers alone block the rollout; mostly
// missing data holds for more; anything else is a mixed-signal hold.
func Recommend(results []Result) Recommendation {
	if len(results) == 0 {
		return Recommendation{Hold, "No segment data available for analysis."}
	}

	var winners, losers, lowData []Result
	for _, r := range results {
		switch r.Verdict {
		case verdict.Winner:
			winners = append(winners, r)
		case verdict.Loser:
			losers = append(losers, r)
		case verdict.LowData:
			lowData = append(lowData, r)
		}
	}
	total := len(results)

	if len(losers) == 0 && float64(len(winners)) >= float64(total)*0.5 {
		return Recommendation{RollOut, "No losing segments. Roll out to all traffic."}
	}

	if len(losers) > 0 && len(winners) > 0 {
		verb := "are"
		if len(losers) == 1 {
			verb = "is"
		}
		return Recommendation{SegmentSpecific, fmt.Sprintf(
			"Consider rolling out to %s only. %s %s underperforming; exclude or investigate.",
			segmentNames(winners, 3), segmentNames(losers, 3), verb,
		)}
	}

	if len(losers) > 0 {
		return Recommendation{DontRollOut, "No winning segments found. The variant is hurting performance."}
	}

	if float64(len(lowData)) > float64(total)*0.5 {
		return Recommendation{Hold, "Most segments have insufficient data. Let the test run longer."}
	}

	return Recommendation{Hold, "Mixed signals. Monitor for another few days before making a call."}
}

func segmentNames(results []Result, limit int) string {
	if len(results) > limit {
		results = results[:limit]
	}
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}
