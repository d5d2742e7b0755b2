package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/config"
)

// ErrImageGenerationFailed marks a failure of the diffusion server.
// The pipeline treats it as fatal to the whole request.
var ErrImageGenerationFailed = errors.New("image generation failed")

// Prompt decoration applied around the story text, mirroring the
// diffusion defaults the comic style was tuned with.
const (
	characterPromptSuffix = ", high quality, detailed, cartoon style, vibrant colors"
	scenePromptSuffix     = ", consistent character, detailed background"
	negativePrompt        = "blurry, deformed, ugly, low quality"
)

// ImageGenerator is the contract to the image-diffusion collaborator.
// The character image comes from text alone; scene images are
// conditioned on it. Release frees the model memory held by the server
// and is safe to call more than once.
type ImageGenerator interface {
	GenerateCharacter(ctx context.Context, description string, steps int, guidance float64) ([]byte, error)
	GenerateScene(ctx context.Context, baseImage []byte, description string, strength float64, steps int, guidance float64) ([]byte, error)
	Release(ctx context.Context) error
}

// diffusionClient talks to a diffusion HTTP server exposing txt2img
// and img2img endpoints returning PNG bytes.
type diffusionClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewImageGenerator creates the HTTP diffusion client.
func NewImageGenerator(cfg *config.Config, log *zap.Logger) ImageGenerator {
	return &diffusionClient{
		baseURL:    cfg.DiffusionBaseURL,
		httpClient: &http.Client{Timeout: cfg.DiffusionTimeout},
		logger:     log,
	}
}

type txt2imgRequest struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Steps          int     `json:"steps"`
	Guidance       float64 `json:"guidance"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
}

type img2imgRequest struct {
	Prompt    string  `json:"prompt"`
	BaseImage string  `json:"base_image"` // base64-encoded PNG
	Strength  float64 `json:"strength"`
	Steps     int     `json:"steps"`
	Guidance  float64 `json:"guidance"`
}

func (c *diffusionClient) GenerateCharacter(ctx context.Context, description string, steps int, guidance float64) ([]byte, error) {
	req := txt2imgRequest{
		Prompt:         description + characterPromptSuffix,
		NegativePrompt: negativePrompt,
		Steps:          steps,
		Guidance:       guidance,
		Width:          384,
		Height:         512,
	}
	c.logger.Info("Generating character image", zap.Int("steps", steps))
	return c.post(ctx, "/txt2img", req)
}

func (c *diffusionClient) GenerateScene(ctx context.Context, baseImage []byte, description string, strength float64, steps int, guidance float64) ([]byte, error) {
	req := img2imgRequest{
		Prompt:    description + scenePromptSuffix,
		BaseImage: base64.StdEncoding.EncodeToString(baseImage),
		Strength:  strength,
		Steps:     steps,
		Guidance:  guidance,
	}
	c.logger.Info("Generating scene image",
		zap.Int("steps", steps), zap.Float64("strength", strength))
	return c.post(ctx, "/img2img", req)
}

// Release asks the diffusion server to unload transient model state.
// Idempotent on the server side; an unreachable server is still an
// error so callers can log it.
func (c *diffusionClient) Release(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/release", nil)
	if err != nil {
		return fmt.Errorf("failed to create release request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("release request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("release returned status %d: %s", resp.StatusCode, string(body))
	}
	c.logger.Debug("Diffusion resources released")
	return nil
}

// post sends a JSON request and returns the PNG body of the response.
func (c *diffusionClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrImageGenerationFailed, err)
	}

	endpointURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrImageGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http request failed: %v", ErrImageGenerationFailed, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Diffusion server returned non-OK status",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", body))
		return nil, fmt.Errorf("%w: server returned status %d: %s", ErrImageGenerationFailed, resp.StatusCode, string(body))
	}
	if readErr != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrImageGenerationFailed, readErr)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: server returned empty image data", ErrImageGenerationFailed)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("%w: response is not a valid PNG: %v", ErrImageGenerationFailed, err)
	}

	c.logger.Debug("Image received from diffusion server",
		zap.String("path", path),
		zap.Int("size_bytes", len(body)),
		zap.Duration("duration", time.Since(startTime)))
	return body, nil
}
