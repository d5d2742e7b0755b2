package models

import "time"

// GenerationSettings are the per-request knobs collected from the UI.
type GenerationSettings struct {
	Premise   string  `json:"premise"`
	LowMemory bool    `json:"low_memory"`
	Strength  float64 `json:"strength"`
	Steps     int     `json:"steps"`
	BatchSize int     `json:"batch_size"`
}

// Bounds for the generation settings. BatchSize only varies in
// low-memory mode; otherwise it collapses to MaxBatchSize.
const (
	MinStrength  = 0.3
	MaxStrength  = 0.8
	MinSteps     = 15
	MaxSteps     = 40
	MinBatchSize = 1
	MaxBatchSize = 3

	DefaultStrength  = 0.6
	DefaultSteps     = 25
	DefaultBatchSize = 1
)

// ComicResult is the composed output of one pipeline run. It lives in
// memory for the duration of a session only; nothing is persisted.
type ComicResult struct {
	ID             string
	Story          Story
	FallbackUsed   bool
	CharacterImage []byte
	SceneImages    [][]byte
	PDF            []byte
	CreatedAt      time.Time
}

// Progress stages reported while a generation request is running.
const (
	StageStory     = "story"
	StageCharacter = "character"
	StageScenes    = "scenes"
	StagePDF       = "pdf"
	StageDone      = "done"
	StageFailed    = "failed"
)

// ProgressEvent is one structured progress update for an in-flight
// generation, pushed to subscribed websocket clients.
type ProgressEvent struct {
	RequestID string `json:"request_id"`
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
}
