package history

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	// WarnRecordFailed is the soft warning shown when a search could not be counted.
	WarnRecordFailed = "Failed to log search history."

	relatedLimit = 5
	popularAbove = 10
)

// Store persists search popularity counters.
type Store interface {
	// UpsertSearch increments the entry for (query, cuisine, region) or
	// creates it with count 1, stamping it with at.
	UpsertSearch(ctx context.Context, query, cuisine, region string, at time.Time) error
	// TopSearches returns up to limit entries by count descending.
	TopSearches(ctx context.Context, limit int) ([]common.SearchEntry, error)
}

// RelatedSearch 相關搜尋建議
type RelatedSearch struct {
	Query     string `json:"query"`
	Cuisine   string `json:"cuisine"`
	Region    string `json:"region,omitempty"`
	Title     string `json:"title"`
	Count     int    `json:"count"`
	IsPopular bool   `json:"is_popular"`
}

// curated seeds, merged with persisted popularity
var seeds = []RelatedSearch{
	{Query: "soto", Cuisine: "indonesian", Title: "Soto Ayam", Count: 10},
	{Query: "salad", Cuisine: "western", Title: "Fresh Salad", Count: 8},
	{Query: "rendang", Cuisine: "indonesian", Region: "Sumatra", Title: "Beef Rendang", Count: 12},
	{Query: "pasta", Cuisine: "western", Title: "Creamy Pasta", Count: 7},
	{Query: "gudeg", Cuisine: "indonesian", Region: "Java", Title: "Gudeg Jogja", Count: 9},
}

var rainySeed = RelatedSearch{Query: "soup", Cuisine: "western", Title: "Warm Soup", Count: 15}

// Tracker 搜尋紀錄追蹤
type Tracker struct {
	store Store
	now   func() time.Time
}

// NewTracker 創建新的搜尋紀錄追蹤器
func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		now:   time.Now,
	}
}

// Record counts one search. Blank queries are not recorded. Storage
// failures are logged and returned so callers can surface WarnRecordFailed
// without failing the search.
func (t *Tracker) Record(ctx context.Context, query, cuisine, region string) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if err := t.store.UpsertSearch(ctx, query, cuisine, region, t.now().UTC()); err != nil {
		common.LogError("updating search history failed",
			zap.String("query", query),
			zap.String("cuisine", cuisine),
			zap.String("region", region),
			zap.Error(err),
		)
		return common.ErrPersistence.Wrap(err)
	}
	return nil
}

// Related merges the curated seeds (plus a soup seed when it rains) with the
// five most popular persisted searches, keyed by query. A persisted entry
// replaces a seed with the same query but keeps the seed's position, so on
// equal counts it sorts where the seed was. The top five by count are
// returned and flagged popular above ten.
func (t *Tracker) Related(ctx context.Context, weather *common.Weather) []RelatedSearch {
	merged := make([]RelatedSearch, 0, len(seeds)+1+relatedLimit)
	if weather != nil && weather.IsRainy() {
		merged = append(merged, rainySeed)
	}
	merged = append(merged, seeds...)

	popular, err := t.store.TopSearches(ctx, relatedLimit)
	if err != nil {
		common.LogError("querying search history failed", zap.Error(err))
	}
	// a Caser is stateful, one per call
	title := cases.Title(language.Und)
	for _, e := range popular {
		merged = append(merged, RelatedSearch{
			Query:   e.Query,
			Cuisine: e.Cuisine,
			Region:  e.Region,
			Title:   title.String(e.Query),
			Count:   e.Count,
		})
	}

	index := make(map[string]int, len(merged))
	unique := make([]RelatedSearch, 0, len(merged))
	for _, s := range merged {
		if i, ok := index[s.Query]; ok {
			unique[i] = s
			continue
		}
		index[s.Query] = len(unique)
		unique = append(unique, s)
	}

	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Count > unique[j].Count })
	if len(unique) > relatedLimit {
		unique = unique[:relatedLimit]
	}
	for i := range unique {
		unique[i].IsPopular = unique[i].Count > popularAbove
	}
	return unique
}
