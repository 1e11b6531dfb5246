// Package concerns maps free-text aesthetic concerns to service
// suggestions with a static keyword table. It is a lookup heuristic, not
// a recommendation engine.
package concerns

import "strings"

// Suggestion pairs a service with the keyword that matched
type Suggestion struct {
	Service     string   `json:"service"`
	Description string   `json:"description"`
	Matched     []string `json:"matched"`
}

type service struct {
	name        string
	description string
	keywords    []string
}

var catalog = []service{
	{
		name:        "Neurotoxin (Botox/Dysport)",
		description: "Softens dynamic lines in the forehead, frown area, and around the eyes.",
		keywords:    []string{"wrinkle", "wrinkles", "fine lines", "forehead", "frown", "crow's feet", "crows feet", "botox", "eleven lines"},
	},
	{
		name:        "Dermal Filler",
		description: "Restores volume in lips, cheeks, and deeper folds.",
		keywords:    []string{"lips", "lip", "volume", "cheeks", "plump", "filler", "nasolabial", "smile lines", "thin lips"},
	},
	{
		name:        "Chemical Peel",
		description: "Improves tone, texture, and mild discoloration.",
		keywords:    []string{"texture", "dull", "uneven", "discoloration", "dark spots", "sun damage", "melasma", "tone"},
	},
	{
		name:        "Microneedling",
		description: "Stimulates collagen for scarring and overall skin quality.",
		keywords:    []string{"acne scars", "scarring", "scars", "pores", "collagen", "skin quality"},
	},
	{
		name:        "Laser Hair Removal",
		description: "Long-term reduction of unwanted hair.",
		keywords:    []string{"hair", "shaving", "waxing", "unwanted hair", "ingrown"},
	},
	{
		name:        "HydraFacial",
		description: "Deep cleanse and hydration with no downtime.",
		keywords:    []string{"dry", "dehydrated", "dull", "congestion", "blackheads", "glow", "hydration"},
	},
	{
		name:        "Acne Treatment Program",
		description: "Combination plan for active breakouts.",
		keywords:    []string{"acne", "breakout", "breakouts", "pimples", "blemish", "oily"},
	},
}

// Suggest returns the services whose keywords appear in the given
// free-text concern, in catalog order. An empty result means nothing
// matched; callers typically fall back to a general consultation.
func Suggest(text string) []Suggestion {
	normalized := strings.ToLower(text)

	var suggestions []Suggestion
	for _, svc := range catalog {
		var matched []string
		for _, kw := range svc.keywords {
			if strings.Contains(normalized, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			suggestions = append(suggestions, Suggestion{
				Service:     svc.name,
				Description: svc.description,
				Matched:     matched,
			})
		}
	}

	return suggestions
}
