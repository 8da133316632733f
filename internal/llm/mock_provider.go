package llm

import "context"

// MockProvider is a configurable fake implementing both provider
// interfaces for handler and pipeline tests.
type MockProvider struct {
	BlueprintText string
	BlueprintErr  error
	Image         *GeneratedImage
	ImageErr      error

	// Captured requests for assertions
	LastBlueprintRequest *BlueprintRequest
	LastImageRequest     *ImageRequest
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) GenerateBlueprint(_ context.Context, request *BlueprintRequest) (string, error) {
	m.LastBlueprintRequest = request
	if m.BlueprintErr != nil {
		return "", m.BlueprintErr
	}
	return m.BlueprintText, nil
}

func (m *MockProvider) GenerateImage(_ context.Context, request *ImageRequest) (*GeneratedImage, error) {
	m.LastImageRequest = request
	if m.ImageErr != nil {
		return nil, m.ImageErr
	}
	if m.Image == nil {
		return nil, ErrNoImage
	}
	return m.Image, nil
}
