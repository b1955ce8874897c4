// Package catalog holds the fixed set of challenges users can join.
package catalog

import "zenmindful/internal/domain"

var challenges = []domain.Challenge{
	{
		ID:          "mindful-week",
		Title:       "7-Day Mindfulness Challenge",
		Description: "Practice 5 minutes of mindful breathing daily for one week",
		Duration:    7,
		Type:        "breathing",
		Difficulty:  "Beginner",
		Points:      50,
		Icon:        "🧘‍♀️",
	},
	{
		ID:          "gratitude-streak",
		Title:       "14-Day Gratitude Streak",
		Description: "Write 3 things you're grateful for every day for 2 weeks",
		Duration:    14,
		Type:        "gratitude",
		Difficulty:  "Easy",
		Points:      70,
		Icon:        "🙏",
	},
	{
		ID:          "mood-tracker",
		Title:       "21-Day Mood Awareness",
		Description: "Log your mood twice daily and reflect on patterns",
		Duration:    21,
		Type:        "mood",
		Difficulty:  "Easy",
		Points:      80,
		Icon:        "😊",
	},
	{
		ID:          "stress-buster",
		Title:       "10-Day Stress Relief",
		Description: "Use stress management tools daily when feeling overwhelmed",
		Duration:    10,
		Type:        "wellness",
		Difficulty:  "Intermediate",
		Points:      60,
		Icon:        "🌟",
	},
}

var byID = func() map[string]domain.Challenge {
	m := make(map[string]domain.Challenge, len(challenges))
	for _, c := range challenges {
		m[c.ID] = c
	}
	return m
}()

// All returns a copy of the catalog in display order.
func All() []domain.Challenge {
	out := make([]domain.Challenge, len(challenges))
	copy(out, challenges)
	return out
}

func Get(id string) (domain.Challenge, bool) {
	c, ok := byID[id]
	return c, ok
}
