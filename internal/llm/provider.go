// Package llm wraps the model providers behind small interfaces so the
// generation pipeline can swap between Gemini, OpenAI, and test fakes.
package llm

import (
	"context"
	"errors"

	"github.com/graphgen/infographic-api/internal/models"
)

// ErrNoImage is returned when the image model responds without any
// inline image data.
var ErrNoImage = errors.New("no image generated")

// BlueprintProvider turns document text into raw Visual Blueprint JSON.
// The returned string is the model's raw text output; parsing and
// validation happen downstream.
type BlueprintProvider interface {
	GenerateBlueprint(ctx context.Context, request *BlueprintRequest) (string, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// ImageProvider renders a compiled prompt into an infographic image.
type ImageProvider interface {
	GenerateImage(ctx context.Context, request *ImageRequest) (*GeneratedImage, error)

	Name() string
}

// BlueprintRequest contains all parameters needed for the blueprint step
type BlueprintRequest struct {
	Model        string
	DocumentText string
	Settings     models.GenerationSettings
}

// ImageRequest contains all parameters needed for the rendering step
type ImageRequest struct {
	Model          string
	CompiledPrompt string
	TextDensity    string
}

// GeneratedImage is one rendered image returned by an ImageProvider.
type GeneratedImage struct {
	Data     string `json:"data"` // base64-encoded
	MIMEType string `json:"mime_type"`
	Text     string `json:"-"` // any text the model returned alongside the image
}
