package recipe

import (
	"context"
	"strings"

	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

// candidate is a regional search hit before normalisation. It carries every
// field the region filter inspects.
type candidate struct {
	id       string
	title    string
	source   common.Source
	thumb    string
	image    string
	area     string
	category string
	region   string
}

func fallbackCandidates(recipes []FallbackRecipe) []candidate {
	out := make([]candidate, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, candidate{
			id:     r.ID,
			title:  r.Title,
			source: common.SourceFallback,
			image:  r.Image,
			region: r.Region,
		})
	}
	return out
}

// matchesRegion reports whether region (lowercased) occurs in the area,
// category or title, or equals the explicit region.
func (c candidate) matchesRegion(region string) bool {
	return strings.Contains(strings.ToLower(c.area), region) ||
		strings.Contains(strings.ToLower(c.category), region) ||
		strings.Contains(strings.ToLower(c.title), region) ||
		strings.ToLower(c.region) == region
}

// SearchRegional searches the regional catalog by name and always answers
// with something from the curated fallback when the provider has nothing.
//
// Empty provider results are replaced by fallback recipes whose title
// contains the query. A region other than AllRegions filters candidates; if
// nothing survives, fallback recipes matching both the query and the exact
// region are used. Results are truncated to number only after filtering.
func (s *Service) SearchRegional(ctx context.Context, query, region string, number int) []common.Recipe {
	q := strings.ToLower(strings.TrimSpace(query))

	meals := s.regional.Search(ctx, q)
	cands := make([]candidate, 0, len(meals))
	for _, m := range meals {
		if m.Thumb == "" {
			common.LogWarn("regional meal without image", zap.String("meal", m.Name))
		}
		cands = append(cands, candidate{
			id:       m.ID,
			title:    m.Name,
			source:   common.SourceTheMealDB,
			thumb:    m.Thumb,
			image:    m.Image,
			area:     m.Area,
			category: m.Category,
		})
	}

	if len(cands) == 0 {
		common.LogWarn("no regional results, using curated recipes", zap.String("query", q))
		cands = fallbackCandidates(FallbackMatching(q, ""))
	}

	if region != "" && region != common.AllRegions {
		r := strings.ToLower(region)
		filtered := make([]candidate, 0, len(cands))
		for _, c := range cands {
			if c.matchesRegion(r) {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			filtered = fallbackCandidates(FallbackMatching(q, region))
		}
		cands = filtered
	}

	if len(cands) > number {
		cands = cands[:number]
	}

	out := make([]common.Recipe, 0, len(cands))
	for _, c := range cands {
		out = append(out, common.Recipe{
			ID:     c.id,
			Title:  c.title,
			Source: c.source,
			Image:  common.ImageOr(s.placeholder, c.thumb, c.image),
		})
	}

	if len(out) == 0 {
		common.LogWarn("no regional results after filtering",
			zap.String("query", q),
			zap.String("region", region),
		)
		for _, c := range fallbackCandidates(FallbackMatching(q, "")) {
			if len(out) >= number {
				break
			}
			out = append(out, common.Recipe{
				ID:     c.id,
				Title:  c.title,
				Source: c.source,
				Image:  common.ImageOr(s.placeholder, c.image),
			})
		}
	}
	return out
}
