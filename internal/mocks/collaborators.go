package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/models"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/pipeline"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/service"
)

// MockAIClient is a mock type for the service.AIClient type.
type MockAIClient struct {
	mock.Mock
}

func (_m *MockAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	ret := _m.Called(ctx, prompt)
	return ret.String(0), ret.Error(1)
}

// NewMockAIClient creates a new MockAIClient bound to the test.
func NewMockAIClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAIClient {
	m := &MockAIClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ service.AIClient = (*MockAIClient)(nil)

// MockStoryProducer is a mock type for the pipeline.StoryProducer type.
type MockStoryProducer struct {
	mock.Mock
}

func (_m *MockStoryProducer) Generate(ctx context.Context, premise string) (models.Story, bool) {
	ret := _m.Called(ctx, premise)
	return ret.Get(0).(models.Story), ret.Bool(1)
}

func NewMockStoryProducer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStoryProducer {
	m := &MockStoryProducer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ pipeline.StoryProducer = (*MockStoryProducer)(nil)

// MockImageGenerator is a mock type for the ImageGenerator contract.
type MockImageGenerator struct {
	mock.Mock
}

func (_m *MockImageGenerator) GenerateCharacter(ctx context.Context, description string, steps int, guidance float64) ([]byte, error) {
	ret := _m.Called(ctx, description, steps, guidance)
	var img []byte
	if ret.Get(0) != nil {
		img = ret.Get(0).([]byte)
	}
	return img, ret.Error(1)
}

func (_m *MockImageGenerator) GenerateScene(ctx context.Context, baseImage []byte, description string, strength float64, steps int, guidance float64) ([]byte, error) {
	ret := _m.Called(ctx, baseImage, description, strength, steps, guidance)
	var img []byte
	if ret.Get(0) != nil {
		img = ret.Get(0).([]byte)
	}
	return img, ret.Error(1)
}

func (_m *MockImageGenerator) Release(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func NewMockImageGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockImageGenerator {
	m := &MockImageGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ pipeline.ImageGenerator = (*MockImageGenerator)(nil)
var _ service.ImageGenerator = (*MockImageGenerator)(nil)

// MockComicRenderer is a mock type for the ComicRenderer contract.
type MockComicRenderer struct {
	mock.Mock
}

func (_m *MockComicRenderer) Render(story models.Story, images [][]byte) ([]byte, error) {
	ret := _m.Called(story, images)
	var pdf []byte
	if ret.Get(0) != nil {
		pdf = ret.Get(0).([]byte)
	}
	return pdf, ret.Error(1)
}

func NewMockComicRenderer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockComicRenderer {
	m := &MockComicRenderer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ pipeline.ComicRenderer = (*MockComicRenderer)(nil)
