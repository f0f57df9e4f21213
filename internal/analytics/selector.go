package analytics

// BestVariant returns the variant with the strictly greatest uplift on
// the given metric among variants that have uplift data. Ties keep the
// first encountered, so the input order is the tie-break. Returns nil
// when no variant has uplift data.
func BestVariant(feed Feed, variants []Variation, metricName string) *Variation {
	var best *Variation
	var bestUplift float64
	for i := range variants {
		uplift := feed.UpliftValue(metricName, variants[i].ID)
		if uplift == nil {
			continue
		}
		if best == nil || *uplift > bestUplift {
			best = &variants[i]
			bestUplift = *uplift
		}
	}
	return best
}

// BestVariantOrFirst is the default-selection policy used throughout
// the analysis commands: the best variant by uplift, or, when no
// variant has uplift data yet, the first variant in declared order.
// Analysis never blocks on missing uplift data.
func BestVariantOrFirst(feed Feed, variants []Variation, metricName string) Variation {
	if best := BestVariant(feed, variants, metricName); best != nil {
		return *best
	}
	return variants[0]
}
