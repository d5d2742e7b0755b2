package schemas

import (
	"strconv"
	"strings"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/models"
)

// Section kinds the parser dispatches on. Headers are normalized
// (lowercase, spaces to underscores) before classification; anything
// outside this set is an unknown section whose lines are dropped.
const (
	sectionNone       = ""
	sectionTitle      = "title"
	sectionGenre      = "genre"
	sectionCharacter  = "main_character"
	sectionSupporting = "supporting_characters"
	sectionSetting    = "setting"
	sectionScenes     = "scenes"
	sectionUnknown    = "unknown"
)

// ParseStory converts the free-form text an LLM returns for the story
// prompt into a structured Story. It never fails: malformed input
// degrades field values, never the record shape. The walk is a single
// forward pass with a current-section cursor; lines before any header
// or under an unknown section contribute nothing.
//
// Headers are lines whose only colon is the trailing one. A header
// starting with the word "scene" appends a fresh scene and moves the
// scene cursor; the body lines of that scene follow until the next
// header. Single-value fields like title accumulate every content
// line newline-joined, on top of their default.
func ParseStory(raw string) models.Story {
	story := models.Story{
		Title:                "Untitled Story",
		Genre:                "Fantasy",
		SupportingCharacters: []string{},
		Scenes:               []models.Scene{},
	}

	section := sectionNone
	sceneIdx := -1 // index into story.Scenes, -1 when no usable scene cursor

	for _, rawLine := range strings.Split(raw, "\n") {
		line := strings.TrimSpace(rawLine)

		if isHeader(line) {
			header := strings.TrimSuffix(line, ":")
			section = classifySection(header)
			if strings.HasPrefix(strings.ToLower(header), "scene") {
				section = sectionScenes
				sceneIdx = startScene(&story, header)
			}
			continue
		}

		switch section {
		case sectionCharacter:
			parseCharacterLine(&story.MainCharacter, line)
		case sectionScenes:
			if sceneIdx >= 0 && sceneIdx < len(story.Scenes) {
				parseSceneLine(&story.Scenes[sceneIdx], line)
			}
		case sectionTitle:
			story.Title += line + "\n"
		case sectionGenre:
			story.Genre += line + "\n"
		case sectionSetting:
			story.Setting += line + "\n"
		default:
			// Unknown sections and list-valued sections such as
			// supporting_characters take no content lines.
		}
	}

	return story
}

// isHeader reports whether a trimmed line is a section header: it ends
// with a colon and carries no other colon, i.e. no content after the
// name on the same line.
func isHeader(line string) bool {
	return strings.HasSuffix(line, ":") && strings.Count(line, ":") == 1
}

// classifySection maps a raw header to one of the known section kinds.
func classifySection(header string) string {
	switch normalized := normalizeKey(header); normalized {
	case sectionTitle, sectionGenre, sectionCharacter, sectionSupporting, sectionSetting, sectionScenes:
		return normalized
	default:
		return sectionUnknown
	}
}

// startScene appends a fresh scene for a "Scene N" header and returns
// the scene cursor. Headers must arrive as consecutive integers
// starting at 1 for append order and declared number to agree; a
// header that breaks that (duplicate, skipped or unparseable number)
// leaves the cursor cleared so its body lines are dropped instead of
// landing on the wrong scene. A bare "scenes" header has no number
// and appends nothing.
func startScene(story *models.Story, header string) int {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return -1
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return -1
	}
	story.Scenes = append(story.Scenes, models.Scene{})
	if n-1 != len(story.Scenes)-1 {
		return -1
	}
	return n - 1
}

// parseCharacterLine applies one "key: value" line to the character.
// Keys match by exact normalized equality only; unknown keys and
// lines without a colon are ignored.
func parseCharacterLine(c *models.Character, line string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return
	}
	key := strings.ToLower(strings.TrimSpace(line[:idx]))
	val := strings.TrimSpace(line[idx+1:])
	switch key {
	case "name":
		c.Name = val
	case "appearance":
		c.Appearance = val
	case "personality":
		c.Personality = val
	case "special":
		c.Special = val
	}
}

// parseSceneLine applies one "key: value" line to a scene. Scene keys
// additionally normalize spaces to underscores ("visual style" and
// "visual_style" both match).
func parseSceneLine(s *models.Scene, line string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return
	}
	key := normalizeKey(line[:idx])
	val := strings.TrimSpace(line[idx+1:])
	switch key {
	case "description":
		s.Description = val
	case "visual_style":
		s.VisualStyle = val
	case "colors":
		s.Colors = val
	}
}

// normalizeKey lowercases and converts spaces to underscores.
func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
