package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/handler"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/mocks"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/models"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testStory = models.Story{
	Title:         "Untitled StoryThe Clockwork Detective\n",
	Genre:         "Mystery",
	Setting:       "A rainy city",
	MainCharacter: models.Character{Name: "Axiom"},
	Scenes: []models.Scene{
		{Description: "A dark alley"},
		{Description: "The detective's office"},
	},
}

type fixture struct {
	router   *gin.Engine
	store    *pipeline.Store
	stories  *mocks.MockStoryProducer
	images   *mocks.MockImageGenerator
	renderer *mocks.MockComicRenderer
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		store:    pipeline.NewStore(),
		stories:  mocks.NewMockStoryProducer(t),
		images:   mocks.NewMockImageGenerator(t),
		renderer: mocks.NewMockComicRenderer(t),
	}
	p := pipeline.New(f.stories, f.images, f.renderer, nil, f.store,
		pipeline.Options{CharacterGuidance: 7.5, SceneGuidance: 7.0}, zap.NewNop())
	comics := handler.NewComicHandler(p, f.store, zap.NewNop())
	hub := handler.NewProgressHub(zap.NewNop())
	f.router = handler.NewRouter(comics, hub, zap.NewNop())
	return f
}

func (f *fixture) expectHappyPipeline() {
	f.stories.On("Generate", mock.Anything, mock.Anything).Return(testStory, false)
	f.images.On("GenerateCharacter", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte("char"), nil)
	f.images.On("GenerateScene", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte("scene"), nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("%PDF-1.4"), nil)
}

func postComic(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/comics", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerate_Success(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPipeline()

	w := postComic(f.router, `{"premise": "A robot detective solves mysteries"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Untitled StoryThe Clockwork Detective", resp["title"])
	assert.Equal(t, "Mystery", resp["genre"])
	assert.Equal(t, float64(2), resp["scene_count"])
	assert.Equal(t, false, resp["fallback_used"])
	assert.NotEmpty(t, resp["id"])
}

func TestGenerate_RejectsEmptyPremise(t *testing.T) {
	f := newFixture(t)

	w := postComic(f.router, `{"premise": "   "}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_RejectsOutOfRangeSettings(t *testing.T) {
	f := newFixture(t)

	w := postComic(f.router, `{"premise": "p", "strength": 0.95}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_RejectsMalformedJSON(t *testing.T) {
	f := newFixture(t)

	w := postComic(f.router, `{"premise": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_PipelineFailureIsBadGateway(t *testing.T) {
	f := newFixture(t)
	f.stories.On("Generate", mock.Anything, mock.Anything).Return(testStory, false)
	f.images.On("GenerateCharacter", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)
	f.images.On("Release", mock.Anything).Return(nil)

	w := postComic(f.router, `{"premise": "p"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "character stage")
}

func TestGenerate_SecondConcurrentRequestConflicts(t *testing.T) {
	f := newFixture(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.stories.On("Generate", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(testStory, false)
	f.images.On("GenerateCharacter", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte("char"), nil)
	f.images.On("GenerateScene", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte("scene"), nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("%PDF-1.4"), nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var first *httptest.ResponseRecorder
	go func() {
		defer wg.Done()
		first = postComic(f.router, `{"premise": "p"}`)
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never reached the pipeline")
	}

	second := postComic(f.router, `{"premise": "p"}`)
	assert.Equal(t, http.StatusConflict, second.Code)

	close(release)
	wg.Wait()
	assert.Equal(t, http.StatusOK, first.Code)
}

func seedResult(store *pipeline.Store, id string) *models.ComicResult {
	result := &models.ComicResult{
		ID:             id,
		Story:          testStory,
		CharacterImage: []byte("char-png"),
		SceneImages:    [][]byte{[]byte("scene-1"), []byte("scene-2")},
		PDF:            []byte("%PDF-1.4 fake"),
		CreatedAt:      time.Now(),
	}
	store.Put(result)
	return result
}

func TestGet_ByIDAndLatest(t *testing.T) {
	f := newFixture(t)
	seedResult(f.store, "abc-123")

	for _, path := range []string{"/api/comics/abc-123", "/api/comics/latest"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, path)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "abc-123", resp["id"])
	}
}

func TestGet_UnknownIDIsNotFound(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/comics/nope", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadPDF_NamesFileAfterTitle(t *testing.T) {
	f := newFixture(t)
	seedResult(f.store, "abc-123")

	req := httptest.NewRequest(http.MethodGet, "/api/comics/abc-123/pdf", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Untitled StoryThe Clockwork Detective.pdf"`,
		w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 fake", w.Body.String())
}

func TestDownloadCharacter(t *testing.T) {
	f := newFixture(t)
	seedResult(f.store, "abc-123")

	req := httptest.NewRequest(http.MethodGet, "/api/comics/abc-123/character.png", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "char-png", w.Body.String())
}

func TestDownloadScene_OneBasedIndex(t *testing.T) {
	f := newFixture(t)
	seedResult(f.store, "abc-123")

	req := httptest.NewRequest(http.MethodGet, "/api/comics/abc-123/scenes/2", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "scene-2", w.Body.String())
}

func TestDownloadScene_OutOfRangeIsNotFound(t *testing.T) {
	f := newFixture(t)
	seedResult(f.store, "abc-123")

	for _, n := range []string{"0", "3", "x"} {
		req := httptest.NewRequest(http.MethodGet, "/api/comics/abc-123/scenes/"+n, nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code, "scene %s", n)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
