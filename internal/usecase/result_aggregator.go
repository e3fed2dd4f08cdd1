package usecase

import (
	"github.com/menucompare/backend/internal/domain"
)

// AggregateStats extends the public counters with the reasons mapped items were dropped
type AggregateStats struct {
	domain.ComparisonStats
	MissingCounterpart int
	NotComparable      int
}

// AggregateComparisons walks the base catalog, resolves each item's counterpart through
// the mappings and keeps every pair the comparison engine accepts. Unmapped items, mapped
// items absent from the counterpart catalog and non-comparable pairs are left out.
func AggregateComparisons(
	base, counterpart domain.Catalog,
	mappings domain.ItemMappings,
) (domain.ComparisonSet, AggregateStats) {
	set := make(domain.ComparisonSet)
	var stats AggregateStats

	for baseID, baseProduct := range base {
		counterpartID, ok := mappings.Resolve(baseID)
		if !ok {
			continue
		}
		stats.MappingsFound++

		counterpartProduct, ok := counterpart[counterpartID]
		if !ok {
			stats.MissingCounterpart++
			continue
		}

		result, err := CompareProducts(baseProduct, counterpartProduct)
		if err != nil {
			stats.NotComparable++
			continue
		}

		set[baseID] = *result
		stats.ValidComparisons++
	}

	return set, stats
}
