package service

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/models"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/schemas"
)

// storyTemplate is the fixed instruction sent to the text-generation
// collaborator with the user premise embedded.
const storyTemplate = `Please generate a comic story with this exact structure based on: %s

1. TITLE: [Creative story title]
2. GENRE: [Story genre]
3. MAIN_CHARACTER:
   - name: [Character name]
   - appearance: [Physical description]
   - personality: [Key traits]
   - special: [Unique abilities/items]
4. SUPPORTING_CHARACTERS: [List other characters]
5. SETTING: [World description]
6. SCENES:
   - Scene 1:
     - description: [2-3 sentence scene]
     - visual_style: [Art style notes]
     - colors: [Color palette]
   - Scene 2:
     - description: [2-3 sentence scene]
     - visual_style: [Art style notes]
     - colors: [Color palette]
   [Continue for 5 scenes total]

Return ONLY the structured content, no additional commentary.`

var storyFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "comic_generator_story_fallbacks_total",
		Help: "Total number of story generations replaced by the default story.",
	},
	[]string{"reason"},
)

// StoryService produces a structured story for a premise. It wraps the
// AI call, the parser and the validity gate; whenever any of those
// fail it hands back the default story instead of an error.
type StoryService struct {
	aiClient AIClient
	logger   *zap.Logger
}

// NewStoryService creates a StoryService.
func NewStoryService(aiClient AIClient, log *zap.Logger) *StoryService {
	return &StoryService{aiClient: aiClient, logger: log}
}

// Generate returns a story for the premise and whether the default
// story was substituted. It never returns an invalid story.
func (s *StoryService) Generate(ctx context.Context, premise string) (models.Story, bool) {
	prompt := fmt.Sprintf(storyTemplate, premise)

	raw, err := s.aiClient.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Warn("Story generation failed, using fallback story",
			zap.String("premise", premise), zap.Error(err))
		storyFallbacksTotal.With(prometheus.Labels{"reason": "ai_error"}).Inc()
		return schemas.DefaultStory(premise), true
	}

	story := schemas.ParseStory(raw)
	if !story.IsValid() {
		s.logger.Warn("Parsed story failed validation, using fallback story",
			zap.String("premise", premise),
			zap.String("character_name", story.MainCharacter.Name),
			zap.Int("scene_count", len(story.Scenes)))
		storyFallbacksTotal.With(prometheus.Labels{"reason": "invalid_story"}).Inc()
		return schemas.DefaultStory(premise), true
	}

	s.logger.Info("Story generated",
		zap.String("premise", premise),
		zap.Int("scene_count", len(story.Scenes)))
	return story, false
}
