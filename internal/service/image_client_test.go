package service_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/config"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/service"
)

func newImageGenerator(t *testing.T, serverURL string) service.ImageGenerator {
	t.Helper()
	cfg := &config.Config{
		DiffusionBaseURL: serverURL,
		DiffusionTimeout: 5 * time.Second,
	}
	return service.NewImageGenerator(cfg, zap.NewNop())
}

func TestDiffusionClient_GenerateCharacter(t *testing.T) {
	img := tinyPNG(t)

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/txt2img", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	}))
	defer server.Close()

	gen := newImageGenerator(t, server.URL)
	out, err := gen.GenerateCharacter(context.Background(), "Axiom, chrome android, perfect recall", 25, 7.5)

	require.NoError(t, err)
	assert.Equal(t, img, out)
	assert.Contains(t, gotBody["prompt"], "Axiom")
	assert.Contains(t, gotBody["prompt"], "cartoon style")
	assert.Equal(t, float64(25), gotBody["steps"])
	assert.Equal(t, 7.5, gotBody["guidance"])
	assert.Equal(t, "blurry, deformed, ugly, low quality", gotBody["negative_prompt"])
}

func TestDiffusionClient_GenerateSceneEncodesBaseImage(t *testing.T) {
	img := tinyPNG(t)
	base := []byte{0x01, 0x02, 0x03}

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/img2img", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write(img)
	}))
	defer server.Close()

	gen := newImageGenerator(t, server.URL)
	out, err := gen.GenerateScene(context.Background(), base, "A rooftop chase", 0.6, 25, 7.0)

	require.NoError(t, err)
	assert.Equal(t, img, out)
	assert.Equal(t, base64.StdEncoding.EncodeToString(base), gotBody["base_image"])
	assert.Contains(t, gotBody["prompt"], "A rooftop chase")
	assert.Contains(t, gotBody["prompt"], "consistent character")
	assert.Equal(t, 0.6, gotBody["strength"])
}

func TestDiffusionClient_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "out of memory", http.StatusInternalServerError)
	}))
	defer server.Close()

	gen := newImageGenerator(t, server.URL)
	_, err := gen.GenerateCharacter(context.Background(), "desc", 25, 7.5)

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrImageGenerationFailed)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestDiffusionClient_InvalidPNGIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a png"))
	}))
	defer server.Close()

	gen := newImageGenerator(t, server.URL)
	_, err := gen.GenerateCharacter(context.Background(), "desc", 25, 7.5)

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrImageGenerationFailed)
}

func TestDiffusionClient_Release(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/release", r.URL.Path)
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gen := newImageGenerator(t, server.URL)
	require.NoError(t, gen.Release(context.Background()))
	require.NoError(t, gen.Release(context.Background()))
	assert.Equal(t, 2, calls)
}
