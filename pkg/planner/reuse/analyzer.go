package reuse

import (
	"math"
	"sort"

	"ai-outfit-planner-be/internal/dto"
)

// Analyze computes per-item usage across days. The percentage is the
// share of distinct SKUs worn on more than one day, rounded to the
// nearest integer; the map records only reused SKUs with their sorted
// unique day numbers.
func Analyze(outfits map[int]dto.DailyOutfit) *dto.ReusabilityAnalysis {
	usage := make(map[string]map[int]bool)
	record := func(item *dto.OutfitItem, day int) {
		if item == nil || item.Sku == "" {
			return
		}
		if usage[item.Sku] == nil {
			usage[item.Sku] = make(map[int]bool)
		}
		usage[item.Sku][day] = true
	}

	for day, outfit := range outfits {
		record(outfit.Outfit.Topwear, day)
		record(outfit.Outfit.Bottomwear, day)
		record(outfit.Outfit.Footwear, day)
		record(outfit.Outfit.Outerwear, day)
		for i := range outfit.Outfit.Accessories {
			record(&outfit.Outfit.Accessories[i], day)
		}
	}

	analysis := &dto.ReusabilityAnalysis{
		TotalItems:     len(usage),
		ReusabilityMap: make(map[string][]int),
	}
	for sku, days := range usage {
		if len(days) < 2 {
			continue
		}
		analysis.ReusedItems++
		sorted := make([]int, 0, len(days))
		for d := range days {
			sorted = append(sorted, d)
		}
		sort.Ints(sorted)
		analysis.ReusabilityMap[sku] = sorted
	}

	if analysis.TotalItems > 0 {
		analysis.ReusabilityPercentage = int(math.Round(100 * float64(analysis.ReusedItems) / float64(analysis.TotalItems)))
	}
	return analysis
}
