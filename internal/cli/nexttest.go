package cli

import (
	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/verdict"
)

type suggestionKey struct {
	t analytics.TestType
	v verdict.Verdict
}

var nextTestTable = map[suggestionKey]string{
	{analytics.TypePricing, verdict.Winner}:  "Push further: test an even higher price point, or try premium anchoring with a higher-tier option.",
	{analytics.TypePricing, verdict.Loser}:   "Customers pushed back on this price. Test a smaller increase, or pair the price with added value like free shipping.",
	{analytics.TypePricing, verdict.Flat}:    "Price isn't the lever here. Test how the price is framed (per-unit, bundled, anchored) instead of the number itself.",
	{analytics.TypeShipping, verdict.Winner}: "Shipping matters to your buyers. Test a lower free-shipping threshold or faster delivery options next.",
	{analytics.TypeShipping, verdict.Loser}:  "This shipping change hurt. Test absorbing shipping into the product price instead of showing it at checkout.",
	{analytics.TypeShipping, verdict.Flat}:   "Shipping terms barely moved behavior. Try testing delivery speed messaging rather than cost.",
	{analytics.TypeOffer, verdict.Winner}:    "Offers resonate. Test a different discount structure next, like a gift-with-purchase against the percentage off.",
	{analytics.TypeOffer, verdict.Loser}:     "This offer cheapened the brand or confused buyers. Test a subtler incentive, like loyalty points or bundles.",
	{analytics.TypeOffer, verdict.Flat}:      "The offer didn't register. Test making it more prominent, or a threshold offer to lift order values.",
	{analytics.TypeContent, verdict.Winner}:  "This messaging works. Carry the winning angle into your ads and email, and test a bolder version of it on site.",
	{analytics.TypeContent, verdict.Loser}:   "This content variant underperformed. Test social proof or urgency elements instead of copy changes.",
	{analytics.TypeContent, verdict.Flat}:    "Copy tweaks alone aren't moving the needle. Test a structural change like page layout or imagery.",
}

// nextTestSuggestion proposes a follow-up test based on the lever
// tested and how it resolved.
func nextTestSuggestion(t analytics.TestType, v verdict.Verdict) string {
	if s, ok := nextTestTable[suggestionKey{t, v}]; ok {
		return s
	}
	switch v {
	case verdict.KeepRunning, verdict.TooEarly:
		return "Let this test mature before planning the next one. Queue up one idea per lever so you can launch immediately after the call."
	default:
		return "Review the segment spotlight for pockets of impact worth a targeted follow-up test."
	}
}
