package recipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pasarde/recipe-app/internal/core/provider/themealdb"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

func TestRecommendWeatherPrecedence(t *testing.T) {
	tests := []struct {
		name            string
		weather         common.Weather
		westernQueries  []string
		regionalQueries []string
	}{
		{
			name:            "rain and cold picks soup",
			weather:         common.Weather{Temp: 15, WeatherMain: "Rain", Condition: "light rain"},
			westernQueries:  []string{"soup"},
			regionalQueries: []string{"soto"},
		},
		{
			name:            "rain beats heat",
			weather:         common.Weather{Temp: 35, WeatherMain: "Rain", Condition: "heavy rain"},
			westernQueries:  []string{"soup"},
			regionalQueries: []string{"soto"},
		},
		{
			name:            "cold without rain picks soup",
			weather:         common.Weather{Temp: 19.9, WeatherMain: "Clouds", Condition: "overcast"},
			westernQueries:  []string{"soup"},
			regionalQueries: []string{"soto"},
		},
		{
			name:            "hot picks salad",
			weather:         common.Weather{Temp: 35, WeatherMain: "Clear", Condition: "clear"},
			westernQueries:  []string{"salad"},
			regionalQueries: []string{"rujak"},
		},
		{
			name:            "mild picks one random",
			weather:         common.Weather{Temp: 25, WeatherMain: "Clear", Condition: "clear"},
			westernQueries:  []string{"main course"},
			regionalQueries: []string{"indonesian"},
		},
		{
			name:            "thirty is not hot",
			weather:         common.Weather{Temp: 30, WeatherMain: "Clear", Condition: "clear"},
			westernQueries:  []string{"main course"},
			regionalQueries: []string{"indonesian"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			w := tt.weather
			f.svc.Recommend(context.Background(), &w, "", RecommendCount)
			assert.Equal(t, tt.westernQueries, f.western.queries)
			assert.Equal(t, tt.regionalQueries, f.regional.queries)
		})
	}
}

func TestRecommendSoupCandidates(t *testing.T) {
	f := newFixture()
	f.western.byQuery["soup"] = []common.Recipe{{ID: "11", Title: "Tomato Soup", Source: common.SourceSpoonacular, Image: "i"}}

	got := f.svc.Recommend(context.Background(), &common.Weather{Temp: 15, Condition: "rain"}, "", RecommendCount)
	assert.Equal(t, []string{"11", "soto"}, ids(got))
}

func TestRecommendMildAppendsRandomBeforeRegion(t *testing.T) {
	f := newFixture()
	f.western.byQuery["main course"] = []common.Recipe{{ID: "7", Title: "Steak", Source: common.SourceSpoonacular, Image: "i"}}

	got := f.svc.Recommend(context.Background(), &common.Weather{Temp: 25, Condition: "clear"}, "Sumatra", RecommendCount)
	assert.Equal(t, []string{"7", "rendang"}, ids(got))
	assert.Equal(t, []string{"indonesian", ""}, f.regional.queries)
}

func TestRecommendDedupesAndTruncates(t *testing.T) {
	f := newFixture()
	f.western.byQuery["soup"] = []common.Recipe{{ID: "soto", Title: "Western Soto", Source: common.SourceSpoonacular, Image: "i"}}

	got := f.svc.Recommend(context.Background(), &common.Weather{Temp: 10}, "Java", RecommendCount)
	// the region candidate duplicates the soto candidate
	assert.Equal(t, []string{"soto", "soto"}, ids(got))
	assert.Equal(t, common.SourceSpoonacular, got[0].Source)
	assert.Equal(t, common.SourceFallback, got[1].Source)

	got = f.svc.Recommend(context.Background(), &common.Weather{Temp: 10}, "Java", 1)
	assert.Len(t, got, 1)
}

func TestRecommendAllRegionsAddsNoRegionCandidate(t *testing.T) {
	f := newFixture()
	f.svc.Recommend(context.Background(), &common.Weather{Temp: 35}, common.AllRegions, RecommendCount)
	assert.Equal(t, []string{"rujak"}, f.regional.queries)
}

func TestRecommendWithoutWeatherIsRandom(t *testing.T) {
	f := newFixture()
	f.regional.byQuery["indonesian"] = []themealdb.Meal{
		{ID: "1", Name: "A"}, {ID: "2", Name: "B"}, {ID: "3", Name: "C"}, {ID: "4", Name: "D"},
	}

	got := f.svc.Recommend(context.Background(), nil, "Java", 3)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestRandomSamplesAcrossSources(t *testing.T) {
	f := newFixture()
	f.western.byQuery["main course"] = []common.Recipe{{ID: "w1", Source: common.SourceSpoonacular, Image: "i"}}
	f.regional.byQuery["indonesian"] = []themealdb.Meal{{ID: "r1", Name: "Rawon"}, {ID: "r2", Name: "Pecel"}}
	f.users.recipes = []common.UserRecipe{{ID: 5, Title: "Mine"}}

	got := f.svc.Random(context.Background(), 50)
	assert.Equal(t, []string{"w1", "r1", "r2", "5"}, ids(got))
	assert.Equal(t, common.SourceUser, got[len(got)-1].Source)
	assert.Equal(t, common.DefaultPlaceholderImage, got[len(got)-1].Image)

	assert.Len(t, f.svc.Random(context.Background(), 2), 2)
	assert.Empty(t, f.svc.Random(context.Background(), 0))
}

func TestRandomSurvivesUserStoreFailure(t *testing.T) {
	f := newFixture()
	f.users.err = errStore
	f.regional.byQuery["indonesian"] = []themealdb.Meal{{ID: "r1", Name: "Rawon"}, {ID: "r2", Name: "Pecel"}}

	got := f.svc.Random(context.Background(), 3)
	assert.Equal(t, []string{"r1", "r2"}, ids(got))
}
