package recipe

import (
	"context"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

const (
	// coldBelow and hotAbove are the temperature thresholds in °C.
	coldBelow = 20.0
	hotAbove  = 30.0

	// RecommendCount is the default number of recommendations.
	RecommendCount = 3
)

// Recommend suggests up to count recipes for the weather and region.
//
// Without weather it samples random recipes. Rain or cold adds one western
// soup and one regional soto; otherwise heat adds one salad and one rujak;
// otherwise one random recipe. A region adds one regional recipe filtered by
// that region only. Duplicates are dropped by (source, id), first wins.
func (s *Service) Recommend(ctx context.Context, weather *common.Weather, region string, count int) []common.Recipe {
	if weather == nil {
		return s.Random(ctx, count)
	}

	var recs []common.Recipe
	switch {
	case weather.IsRainy() || weather.Temp < coldBelow:
		recs = append(recs, s.western.SearchByName(ctx, "soup", 1, common.SearchConstraints{})...)
		recs = append(recs, s.SearchRegional(ctx, "soto", region, 1)...)
	case weather.Temp > hotAbove:
		recs = append(recs, s.western.SearchByName(ctx, "salad", 1, common.SearchConstraints{})...)
		recs = append(recs, s.SearchRegional(ctx, "rujak", region, 1)...)
	default:
		recs = append(recs, s.Random(ctx, 1)...)
	}

	if region != "" && region != common.AllRegions {
		recs = append(recs, s.SearchRegional(ctx, "", region, 1)...)
	}

	return dedupe(recs, count)
}

// dedupe keeps the first occurrence of every (source, id) in order and stops
// at limit.
func dedupe(recipes []common.Recipe, limit int) []common.Recipe {
	seen := make(map[string]struct{}, len(recipes))
	out := make([]common.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[r.Key()]; ok {
			continue
		}
		seen[r.Key()] = struct{}{}
		out = append(out, r)
	}
	return out
}
