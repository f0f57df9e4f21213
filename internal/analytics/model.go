// Package analytics holds the in-memory model for a fetched analytics
// snapshot: per-variation metric records, the experiment/variation list,
// and lookup helpers over them. Everything here is read-only after
// construction; absent values stay absent (nil) and are never coerced
// to zero.
package analytics

import "encoding/json"

// Metric names as they appear in the analytics API response.
const (
	MetricNetRevenuePerVisitor  = "net_revenue_per_visitor"
	MetricGrossProfitPerVisitor = "gross_profit_per_visitor"
	MetricConversionRate        = "conversion_rate"
	MetricNetRevenuePerOrder    = "net_revenue_per_order"
	MetricVisitors              = "n_visitors"
	MetricOrders                = "n_orders"
	MetricPctRevenueWithCOGS    = "pct_revenue_with_cogs"
	MetricAddToCartRate         = "add_to_cart_rate"
	MetricCheckoutBeginRate     = "checkout_begin_rate"
	MetricCheckoutContactRate   = "checkout_enter_contact_info_rate"
	MetricCheckoutAddressRate   = "checkout_address_submitted_rate"
)

// MetricLabels maps metric names to display names.
var MetricLabels = map[string]string{
	MetricNetRevenuePerVisitor:  "Revenue / Visitor",
	MetricGrossProfitPerVisitor: "Profit / Visitor",
	MetricConversionRate:        "Conversion Rate",
	MetricNetRevenuePerOrder:    "AOV",
	MetricVisitors:              "Visitors",
	MetricOrders:                "Orders",
	MetricAddToCartRate:         "Add to Cart Rate",
	MetricCheckoutBeginRate:     "Checkout Rate",
}

// MetricLabel returns the display name for a metric, falling back to the
// raw metric name.
func MetricLabel(name string) string {
	if l, ok := MetricLabels[name]; ok {
		return l
	}
	return name
}

// UpliftStats is the lift of a variation versus control on one metric,
// with optional confidence-interval bounds. Any field may be absent.
type UpliftStats struct {
	Value  *float64 `json:"value"`
	CILow  *float64 `json:"ci_low"`
	CIHigh *float64 `json:"ci_high"`
}

// MetricValue is one metric's reading for one variation. P2BB is the
// probability to beat baseline (0..1); nil means the API had
// insufficient data, which is not the same as zero.
type MetricValue struct {
	Value  *float64     `json:"value"`
	P2BB   *float64     `json:"p2bb"`
	Uplift *UpliftStats `json:"uplift"`
}

// MetricRecord is one variation's row in a metrics feed. The API puts
// metric objects directly on the record keyed by metric name, alongside
// variation_id and (for segmented fetches) audience.
type MetricRecord struct {
	VariationID string
	Audience    string
	Metrics     map[string]MetricValue
}

// UnmarshalJSON splits the record's known identity fields from the
// dynamic metric-name keys.
func (r *MetricRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Metrics = make(map[string]MetricValue, len(raw))
	for key, val := range raw {
		switch key {
		case "variation_id":
			if err := json.Unmarshal(val, &r.VariationID); err != nil {
				return err
			}
		case "audience":
			if err := json.Unmarshal(val, &r.Audience); err != nil {
				return err
			}
		default:
			var mv MetricValue
			if err := json.Unmarshal(val, &mv); err != nil {
				// Non-object values (flags, labels) are not metrics.
				continue
			}
			r.Metrics[key] = mv
		}
	}
	return nil
}

// Feed is an ordered list of metric records, one per variation (per
// audience segment, when the fetch was segmented).
type Feed []MetricRecord
