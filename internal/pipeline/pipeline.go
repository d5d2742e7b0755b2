package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/models"
)

// maxScenes caps how many scenes get an image regardless of how many
// the parser produced.
const maxScenes = 5

// StoryProducer yields a valid story for a premise along with a flag
// saying whether the default story was substituted.
type StoryProducer interface {
	Generate(ctx context.Context, premise string) (models.Story, bool)
}

// ImageGenerator mirrors the diffusion collaborator contract consumed
// by the pipeline (see internal/service for the HTTP implementation).
type ImageGenerator interface {
	GenerateCharacter(ctx context.Context, description string, steps int, guidance float64) ([]byte, error)
	GenerateScene(ctx context.Context, baseImage []byte, description string, strength float64, steps int, guidance float64) ([]byte, error)
	Release(ctx context.Context) error
}

// ComicRenderer renders the story and its images into PDF bytes.
type ComicRenderer interface {
	Render(story models.Story, images [][]byte) ([]byte, error)
}

// ProgressNotifier receives structured stage events while a request
// runs. Implementations must not block for long; the pipeline calls
// it inline.
type ProgressNotifier interface {
	Notify(event models.ProgressEvent)
}

// NopNotifier discards progress events.
type NopNotifier struct{}

func (NopNotifier) Notify(models.ProgressEvent) {}

// Options tune the pipeline beyond per-request settings.
type Options struct {
	CharacterGuidance float64
	SceneGuidance     float64
	// PacingHook runs after each generated image, giving the caller a
	// place to pace resource usage between images. Optional.
	PacingHook func()
}

// Pipeline sequences one comic generation request: story, character
// image, scene images, PDF. Steps run strictly in order; the diffusion
// collaborator is owned exclusively by the running request.
type Pipeline struct {
	stories  StoryProducer
	images   ImageGenerator
	renderer ComicRenderer
	notifier ProgressNotifier
	store    *Store
	opts     Options
	logger   *zap.Logger
}

// New creates a Pipeline. A nil notifier is replaced by NopNotifier.
func New(
	stories StoryProducer,
	images ImageGenerator,
	renderer ComicRenderer,
	notifier ProgressNotifier,
	store *Store,
	opts Options,
	log *zap.Logger,
) *Pipeline {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Pipeline{
		stories:  stories,
		images:   images,
		renderer: renderer,
		notifier: notifier,
		store:    store,
		opts:     opts,
		logger:   log,
	}
}

// Run executes one end-to-end generation. Story production never
// fails; any failure after it aborts the request, releases diffusion
// resources, stores nothing and surfaces a single error. There are no
// automatic retries.
func (p *Pipeline) Run(ctx context.Context, settings models.GenerationSettings) (*models.ComicResult, error) {
	requestID := uuid.NewString()
	log := p.logger.With(zap.String("request_id", requestID))
	metricsRecordRunStarted()
	startTime := time.Now()

	// Step 1: story outline. Falls back internally, never fails.
	p.progress(requestID, models.StageStory, "Generating story outline...")
	story, fallbackUsed := p.stories.Generate(ctx, settings.Premise)
	if fallbackUsed {
		p.progress(requestID, models.StageStory, "Used fallback story content due to generation issues")
	}

	// Step 2: character portrait. Personality stays out of the image
	// prompt on purpose; it describes behavior, not looks.
	p.progress(requestID, models.StageCharacter, "Creating main character...")
	charDesc := characterDescription(story.MainCharacter)
	characterImage, err := p.images.GenerateCharacter(ctx, charDesc, settings.Steps, p.opts.CharacterGuidance)
	if err != nil {
		return nil, p.fail(ctx, requestID, models.StageCharacter, log, err)
	}

	// Step 3: cap the scene list before any scene image is drawn.
	scenes := story.Scenes
	if len(scenes) > maxScenes {
		log.Info("Truncating scenes", zap.Int("from", len(scenes)), zap.Int("to", maxScenes))
		scenes = scenes[:maxScenes]
	}
	story.Scenes = scenes

	// Step 4: scene images, conditioned on the character, in order.
	// Batching paces resource usage only; order and output match an
	// unbatched loop.
	p.progress(requestID, models.StageScenes, "Generating comic scenes...")
	sceneImages := make([][]byte, 0, len(scenes))
	batchSize := settings.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	for start := 0; start < len(scenes); start += batchSize {
		end := start + batchSize
		if end > len(scenes) {
			end = len(scenes)
		}
		for i, scene := range scenes[start:end] {
			img, err := p.images.GenerateScene(ctx, characterImage, scene.Description,
				settings.Strength, settings.Steps, p.opts.SceneGuidance)
			if err != nil {
				return nil, p.fail(ctx, requestID, models.StageScenes, log, err)
			}
			sceneImages = append(sceneImages, img)
			metricsRecordSceneImage()
			log.Debug("Scene image generated", zap.Int("scene", start+i+1))
			if p.opts.PacingHook != nil {
				p.opts.PacingHook()
			}
		}
	}

	// Step 5: PDF.
	p.progress(requestID, models.StagePDF, "Creating printable PDF...")
	pdfBytes, err := p.renderer.Render(story, sceneImages)
	if err != nil {
		return nil, p.fail(ctx, requestID, models.StagePDF, log, err)
	}

	result := &models.ComicResult{
		ID:             requestID,
		Story:          story,
		FallbackUsed:   fallbackUsed,
		CharacterImage: characterImage,
		SceneImages:    sceneImages,
		PDF:            pdfBytes,
		CreatedAt:      time.Now(),
	}
	p.store.Put(result)

	metricsRecordRunDuration(time.Since(startTime))
	p.progress(requestID, models.StageDone, "Generation complete")
	log.Info("Comic generated",
		zap.String("title", strings.TrimSpace(story.Title)),
		zap.Int("scene_count", len(scenes)),
		zap.Bool("fallback_used", fallbackUsed),
		zap.Duration("duration", time.Since(startTime)))
	return result, nil
}

// fail handles the fatal path shared by steps 2, 4 and 5: release the
// diffusion resources, record metrics, emit a terminal progress event
// and wrap the error once.
func (p *Pipeline) fail(ctx context.Context, requestID, stage string, log *zap.Logger, err error) error {
	log.Error("Comic generation failed", zap.String("stage", stage), zap.Error(err))
	metricsRecordRunFailed(stage)

	if releaseErr := p.images.Release(ctx); releaseErr != nil {
		log.Warn("Failed to release diffusion resources", zap.Error(releaseErr))
	}

	wrapped := fmt.Errorf("comic generation failed at %s stage: %w", stage, err)
	p.notifier.Notify(models.ProgressEvent{
		RequestID: requestID,
		Stage:     models.StageFailed,
		Message:   "Generation failed",
		Error:     wrapped.Error(),
	})
	return wrapped
}

func (p *Pipeline) progress(requestID, stage, message string) {
	p.notifier.Notify(models.ProgressEvent{RequestID: requestID, Stage: stage, Message: message})
}

// characterDescription builds the diffusion prompt for the character
// portrait from name, appearance and special, comma-separated.
func characterDescription(c models.Character) string {
	return fmt.Sprintf("%s, %s, %s", c.Name, c.Appearance, c.Special)
}
