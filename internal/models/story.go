package models

// Story is the structured outline produced for one comic. It is built
// once per generation request and not mutated afterwards; the pipeline
// attaches generated images to a ComicResult instead of the Story.
type Story struct {
	Title                string    `json:"title"`
	Genre                string    `json:"genre"`
	MainCharacter        Character `json:"main_character"`
	SupportingCharacters []string  `json:"supporting_characters"`
	Setting              string    `json:"setting"`
	Scenes               []Scene   `json:"scenes"`
}

// Character describes the protagonist of a Story.
type Character struct {
	Name        string `json:"name"`
	Appearance  string `json:"appearance"`
	Personality string `json:"personality"`
	Special     string `json:"special"`
}

// Scene is one unit of narrative with visual styling notes.
type Scene struct {
	Description string `json:"description"`
	VisualStyle string `json:"visual_style"`
	Colors      string `json:"colors"`
}

// IsValid reports whether the story can be handed to the image and PDF
// stages: it needs a named protagonist and at least one scene. Stories
// failing this gate are replaced by the default story.
func (s Story) IsValid() bool {
	return s.MainCharacter.Name != "" && len(s.Scenes) > 0
}
