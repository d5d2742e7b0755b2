package schemas

import "github.com/Pradeep2535/Comic-AI-Generator/internal/models"

// DefaultStory builds the fixed fallback story used whenever text
// generation or parsing fails. Its output always passes the validity
// gate, so it is the safe terminal answer for any premise.
func DefaultStory(premise string) models.Story {
	title := premise
	if runes := []rune(title); len(runes) > 30 {
		title = string(runes[:30])
	}

	scene := models.Scene{
		Description: premise + ". The story begins...",
		VisualStyle: "Cartoon style",
		Colors:      "Vibrant colors",
	}

	return models.Story{
		Title: title + "...",
		Genre: "Adventure",
		MainCharacter: models.Character{
			Name:        "Hero",
			Appearance:  "A brave protagonist",
			Personality: "Courageous and kind",
			Special:     "Special item or ability",
		},
		SupportingCharacters: []string{"Sidekick"},
		Setting:              "A mysterious world",
		Scenes:               []models.Scene{scene, scene, scene},
	}
}
