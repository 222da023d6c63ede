package recipe

import (
	"strings"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// FallbackRecipe is a curated regional recipe served when live providers fail
// or return nothing relevant.
type FallbackRecipe struct {
	common.Recipe
	Region string `json:"region"`
}

// fallbackCatalog is read-only. Accessors hand out copies.
var fallbackCatalog = []FallbackRecipe{
	{
		Recipe: common.Recipe{
			ID:     "rendang",
			Title:  "Beef Rendang",
			Source: common.SourceFallback,
			Image:  "https://www.themealdb.com/images/media/meals/ypxrvg1515362401.jpg",
			Ingredients: []string{
				"500g beef", "400ml coconut milk", "2 lemongrass stalks", "5 kaffir lime leaves",
				"2 turmeric leaves", "10 shallots", "5 garlic cloves", "5 red chilies", "1 inch ginger",
				"1 inch galangal", "1 tsp turmeric powder", "Salt to taste",
			},
			Instructions: "Blend shallots, garlic, chilies, ginger, galangal, and turmeric into a paste. " +
				"Cook the paste with lemongrass, lime leaves, and turmeric leaves until fragrant. " +
				"Add beef and coconut milk, simmer for 3-4 hours until the sauce thickens and the beef is tender. Season with salt.",
		},
		Region: "Sumatra",
	},
	{
		Recipe: common.Recipe{
			ID:     "soto",
			Title:  "Soto Ayam",
			Source: common.SourceFallback,
			Image:  "https://www.themealdb.com/images/media/meals/8mpqzz1508507655.jpg",
			Ingredients: []string{
				"500g chicken", "2L water", "2 lemongrass stalks", "3 kaffir lime leaves", "2 bay leaves",
				"5 shallots", "3 garlic cloves", "1 inch ginger", "1 tsp turmeric powder",
				"1 tsp coriander powder", "Salt to taste", "Vermicelli noodles", "Boiled eggs", "Lime wedges",
			},
			Instructions: "Boil chicken in water with lemongrass, lime leaves, and bay leaves. " +
				"Blend shallots, garlic, ginger, turmeric, and coriander into a paste. " +
				"Sauté the paste until fragrant, then add to the broth. Simmer for 30 minutes. " +
				"Shred the chicken. Serve with vermicelli, boiled eggs, and lime wedges.",
		},
		Region: "Java",
	},
	{
		Recipe: common.Recipe{
			ID:     "gudeg",
			Title:  "Gudeg Jogja",
			Source: common.SourceFallback,
			Image:  "https://www.themealdb.com/images/media/meals/1529445893.jpg",
			Ingredients: []string{
				"1kg young jackfruit", "500ml coconut milk", "200g palm sugar", "5 shallots",
				"3 garlic cloves", "5 candlenuts", "1 tsp coriander powder", "2 bay leaves",
				"2 teak leaves", "Salt to taste",
			},
			Instructions: "Boil jackfruit until tender. Blend shallots, garlic, candlenuts, and coriander into a paste. " +
				"Cook the paste with coconut milk, palm sugar, bay leaves, teak leaves, and jackfruit. " +
				"Simmer for 4-5 hours until the jackfruit is soft and the sauce thickens. Season with salt.",
		},
		Region: "Java",
	},
	{
		Recipe: common.Recipe{
			ID:     "satay",
			Title:  "Chicken Satay",
			Source: common.SourceFallback,
			Image:  "https://www.themealdb.com/images/media/meals/1526418975.jpg",
			Ingredients: []string{
				"500g chicken", "2 tbsp soy sauce", "2 tbsp peanut butter", "1 tbsp lime juice",
				"5 shallots", "3 garlic cloves", "1 tsp turmeric powder", "1 tsp coriander powder", "Skewers",
			},
			Instructions: "Blend shallots, garlic, turmeric, and coriander into a paste. " +
				"Marinate chicken with the paste, soy sauce, peanut butter, and lime juice for 1 hour. " +
				"Skewer the chicken and grill until cooked. Serve with peanut sauce.",
		},
		Region: "Java",
	},
	{
		Recipe: common.Recipe{
			ID:     "nasi_goreng",
			Title:  "Nasi Goreng",
			Source: common.SourceFallback,
			Image:  "https://www.themealdb.com/images/media/meals/1529445893.jpg",
			Ingredients: []string{
				"2 cups cooked rice", "100g chicken", "2 eggs", "5 shallots", "3 garlic cloves",
				"2 red chilies", "1 tbsp soy sauce", "1 tbsp sweet soy sauce", "Salt to taste", "Fried shallots",
			},
			Instructions: "Blend shallots, garlic, and chilies into a paste. Sauté the paste until fragrant. " +
				"Add chicken and cook until done. Push to the side, scramble the eggs. " +
				"Add rice, soy sauce, sweet soy sauce, and salt. Stir-fry until mixed. Garnish with fried shallots.",
		},
		Region: "Java",
	},
	{
		Recipe: common.Recipe{
			ID:     "soto_banjar",
			Title:  "Soto Banjar",
			Source: common.SourceFallback,
			Image:  "https://www.themealdb.com/images/media/meals/8mpqzz1508507655.jpg",
			Ingredients: []string{
				"500g chicken", "2L water", "2 lemongrass stalks", "3 kaffir lime leaves", "2 cloves",
				"2 star anise", "5 shallots", "3 garlic cloves", "1 inch ginger", "1 tsp turmeric powder",
				"Salt to taste", "Rice cakes", "Boiled eggs",
			},
			Instructions: "Boil chicken with lemongrass, lime leaves, cloves, and star anise. " +
				"Blend shallots, garlic, ginger, and turmeric into a paste. " +
				"Sauté the paste until fragrant, then add to the broth. Simmer for 30 minutes. " +
				"Shred the chicken. Serve with rice cakes and boiled eggs.",
		},
		Region: "Kalimantan Selatan",
	},
}

// FallbackCatalog returns a copy of every curated recipe in catalog order.
func FallbackCatalog() []FallbackRecipe {
	out := make([]FallbackRecipe, len(fallbackCatalog))
	for i, r := range fallbackCatalog {
		out[i] = r.clone()
	}
	return out
}

// FallbackByID looks a curated recipe up by its fixed id.
func FallbackByID(id string) (FallbackRecipe, bool) {
	for _, r := range fallbackCatalog {
		if r.ID == id {
			return r.clone(), true
		}
	}
	return FallbackRecipe{}, false
}

// FallbackMatching returns curated recipes whose title contains query
// (case-insensitive). A non-empty region additionally requires an exact
// case-insensitive region match.
func FallbackMatching(query, region string) []FallbackRecipe {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []FallbackRecipe
	for _, r := range fallbackCatalog {
		if !strings.Contains(strings.ToLower(r.Title), q) {
			continue
		}
		if region != "" && !strings.EqualFold(r.Region, region) {
			continue
		}
		out = append(out, r.clone())
	}
	return out
}

func (r FallbackRecipe) clone() FallbackRecipe {
	r.Ingredients = append([]string(nil), r.Ingredients...)
	return r
}
