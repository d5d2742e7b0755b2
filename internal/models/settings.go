package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSettings marks a request whose generation settings fall
// outside the allowed bounds.
var ErrInvalidSettings = errors.New("invalid generation settings")

// Normalize fills unset knobs with their defaults and enforces the
// bounds. A zero value means "not provided" for every numeric knob.
// When low-memory mode is off the batch size always collapses to
// MaxBatchSize, whatever the client sent.
func (s *GenerationSettings) Normalize() error {
	if strings.TrimSpace(s.Premise) == "" {
		return fmt.Errorf("%w: premise is required", ErrInvalidSettings)
	}

	if s.Strength == 0 {
		s.Strength = DefaultStrength
	}
	if s.Strength < MinStrength || s.Strength > MaxStrength {
		return fmt.Errorf("%w: strength %.2f outside [%.1f, %.1f]", ErrInvalidSettings, s.Strength, MinStrength, MaxStrength)
	}

	if s.Steps == 0 {
		s.Steps = DefaultSteps
	}
	if s.Steps < MinSteps || s.Steps > MaxSteps {
		return fmt.Errorf("%w: steps %d outside [%d, %d]", ErrInvalidSettings, s.Steps, MinSteps, MaxSteps)
	}

	if !s.LowMemory {
		s.BatchSize = MaxBatchSize
		return nil
	}
	if s.BatchSize == 0 {
		s.BatchSize = DefaultBatchSize
	}
	if s.BatchSize < MinBatchSize || s.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: batch size %d outside [%d, %d]", ErrInvalidSettings, s.BatchSize, MinBatchSize, MaxBatchSize)
	}
	return nil
}
