package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/models"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/pipeline"
)

// ComicHandler exposes the comic generation API. Generation is
// deliberately single-flight: the diffusion collaborator is a
// resource-constrained singleton, so concurrent requests are rejected
// instead of queued.
type ComicHandler struct {
	pipeline *pipeline.Pipeline
	store    *pipeline.Store
	logger   *zap.Logger
	inFlight atomic.Bool
}

// NewComicHandler creates the handler.
func NewComicHandler(p *pipeline.Pipeline, store *pipeline.Store, log *zap.Logger) *ComicHandler {
	return &ComicHandler{pipeline: p, store: store, logger: log}
}

// comicSummary is the JSON shape returned for a finished comic.
type comicSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Genre        string    `json:"genre"`
	FallbackUsed bool      `json:"fallback_used"`
	SceneCount   int       `json:"scene_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func summarize(result *models.ComicResult) comicSummary {
	return comicSummary{
		ID:           result.ID,
		Title:        strings.TrimSpace(result.Story.Title),
		Genre:        strings.TrimSpace(result.Story.Genre),
		FallbackUsed: result.FallbackUsed,
		SceneCount:   len(result.Story.Scenes),
		CreatedAt:    result.CreatedAt,
	}
}

// Generate handles POST /api/comics. It runs the whole pipeline
// synchronously; progress is observable over the websocket feed.
func (h *ComicHandler) Generate(c *gin.Context) {
	var settings models.GenerationSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := settings.Normalize(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.inFlight.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "a comic generation is already in progress"})
		return
	}
	defer h.inFlight.Store(false)

	result, err := h.pipeline.Run(c.Request.Context(), settings)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summarize(result))
}

// Get handles GET /api/comics/:id. The special id "latest" returns
// the most recent result.
func (h *ComicHandler) Get(c *gin.Context) {
	result, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "comic not found"})
		return
	}
	c.JSON(http.StatusOK, summarize(result))
}

// DownloadPDF handles GET /api/comics/:id/pdf, naming the file after
// the story title.
func (h *ComicHandler) DownloadPDF(c *gin.Context) {
	result, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "comic not found"})
		return
	}

	filename := sanitizeFilename(result.Story.Title) + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

// DownloadCharacter handles GET /api/comics/:id/character.png.
func (h *ComicHandler) DownloadCharacter(c *gin.Context) {
	result, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "comic not found"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="character.png"`)
	c.Data(http.StatusOK, "image/png", result.CharacterImage)
}

// DownloadScene handles GET /api/comics/:id/scenes/:n with n counted
// from 1 in narrative order.
func (h *ComicHandler) DownloadScene(c *gin.Context) {
	result, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "comic not found"})
		return
	}

	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 || n > len(result.SceneImages) {
		c.JSON(http.StatusNotFound, gin.H{"error": "scene not found"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="scene_%d.png"`, n))
	c.Data(http.StatusOK, "image/png", result.SceneImages[n-1])
}

func (h *ComicHandler) lookup(id string) (*models.ComicResult, bool) {
	if id == "latest" {
		return h.store.Latest()
	}
	return h.store.Get(id)
}

// sanitizeFilename flattens a story title into something safe for a
// Content-Disposition filename.
func sanitizeFilename(title string) string {
	title = strings.TrimSpace(title)
	replacer := strings.NewReplacer(
		"\n", " ", "\r", " ", "/", "-", "\\", "-", "\"", "'",
	)
	title = strings.TrimSpace(replacer.Replace(title))
	if title == "" {
		return "comic"
	}
	return title
}
