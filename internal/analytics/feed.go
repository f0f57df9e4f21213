package analytics

import "sort"

// metric returns the named metric for a variation, or nil if the feed
// has no record for that variation or the record lacks the metric. In a
// segmented feed the first matching record wins; group with
// GroupBySegment first when per-segment values are needed.
func (f Feed) metric(name, variationID string) *MetricValue {
	for i := range f {
		if f[i].VariationID != variationID {
			continue
		}
		if mv, ok := f[i].Metrics[name]; ok {
			return &mv
		}
		return nil
	}
	return nil
}

// Value returns the raw value for a metric + variation, or nil when absent.
func (f Feed) Value(name, variationID string) *float64 {
	if mv := f.metric(name, variationID); mv != nil {
		return mv.Value
	}
	return nil
}

// UpliftValue returns the lift versus control for a metric + variation.
func (f Feed) UpliftValue(name, variationID string) *float64 {
	if mv := f.metric(name, variationID); mv != nil && mv.Uplift != nil {
		return mv.Uplift.Value
	}
	return nil
}

// Confidence returns p2bb for a metric + variation. Nil means the API
// had insufficient data.
func (f Feed) Confidence(name, variationID string) *float64 {
	if mv := f.metric(name, variationID); mv != nil {
		return mv.P2BB
	}
	return nil
}

// CILow returns the lower confidence-interval bound on the uplift.
func (f Feed) CILow(name, variationID string) *float64 {
	if mv := f.metric(name, variationID); mv != nil && mv.Uplift != nil {
		return mv.Uplift.CILow
	}
	return nil
}

// CIHigh returns the upper confidence-interval bound on the uplift.
func (f Feed) CIHigh(name, variationID string) *float64 {
	if mv := f.metric(name, variationID); mv != nil && mv.Uplift != nil {
		return mv.Uplift.CIHigh
	}
	return nil
}

// TotalVisitors sums visitors across every record in an unsegmented
// feed. Segmented feeds must not be summed this way: each segment
// repeats the variations, so the sum would double count.
func (f Feed) TotalVisitors() int {
	return f.sum(MetricVisitors)
}

// TotalOrders sums orders across every record in an unsegmented feed.
func (f Feed) TotalOrders() int {
	return f.sum(MetricOrders)
}

func (f Feed) sum(name string) int {
	total := 0.0
	for i := range f {
		if mv, ok := f[i].Metrics[name]; ok && mv.Value != nil {
			total += *mv.Value
		}
	}
	return int(total)
}

// VariationVisitors returns the visitor count for one variation, 0 when absent.
func (f Feed) VariationVisitors(variationID string) int {
	if v := f.Value(MetricVisitors, variationID); v != nil {
		return int(*v)
	}
	return 0
}

// VariationOrders returns the order count for one variation, 0 when absent.
func (f Feed) VariationOrders(variationID string) int {
	if v := f.Value(MetricOrders, variationID); v != nil {
		return int(*v)
	}
	return 0
}

// HasCOGSData reports whether cost-of-goods data exists, meaning gross
// profit metrics reflect real margin. When pct_revenue_with_cogs is 0,
// GPV equals RPV.
func (f Feed) HasCOGSData() bool {
	for i := range f {
		if mv, ok := f[i].Metrics[MetricPctRevenueWithCOGS]; ok {
			if mv.Value != nil && *mv.Value > 0 {
				return true
			}
		}
	}
	return false
}

// PrimaryRevenueMetric returns gross profit per visitor when COGS data
// exists, otherwise net revenue per visitor. Callers must make this
// choice once per analysis and reuse it for every downstream
// computation in the run.
func (f Feed) PrimaryRevenueMetric() string {
	if f.HasCOGSData() {
		return MetricGrossProfitPerVisitor
	}
	return MetricNetRevenuePerVisitor
}

// GroupBySegment splits a segmented feed by its audience label.
// Records without an audience group under "Unknown".
func (f Feed) GroupBySegment() map[string]Feed {
	groups := make(map[string]Feed)
	for i := range f {
		seg := f[i].Audience
		if seg == "" {
			seg = "Unknown"
		}
		groups[seg] = append(groups[seg], f[i])
	}
	return groups
}

// SegmentNames returns the sorted segment labels of a grouped feed, so
// iteration order is stable across runs.
func SegmentNames(groups map[string]Feed) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
