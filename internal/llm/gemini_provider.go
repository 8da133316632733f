package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	geminiUserRole     = "user"
	maxRawPreviewChars = 500
)

// GeminiProvider implements BlueprintProvider and ImageProvider using
// Google's Gemini API.
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// GenerateBlueprint calls Gemini with the blueprint instruction prompt
// and returns the raw text output.
func (p *GeminiProvider) GenerateBlueprint(ctx context.Context, request *BlueprintRequest) (string, error) {
	startTime := time.Now()
	log.Printf("📐 GEMINI BLUEPRINT REQUEST STARTED (Model: %s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "gemini.blueprint")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	prompt := BuildBlueprintPrompt(request.DocumentText, request.Settings)
	contents := []*genai.Content{{
		Role:  geminiUserRole,
		Parts: []*genai.Part{{Text: prompt}},
	}}

	span := transaction.StartChild("gemini.api_call")
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, nil)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text, err := collectText(result)
	if err != nil {
		transaction.SetTag("success", "false")
		return "", err
	}

	preview := text
	if len(preview) > maxRawPreviewChars {
		preview = preview[:maxRawPreviewChars]
	}
	log.Printf("📥 GEMINI BLUEPRINT RESPONSE in %v (first %d chars): %s...",
		time.Since(startTime), len(preview), preview)

	if result.UsageMetadata != nil {
		log.Printf("📊 GEMINI USAGE: input=%d, output=%d, total=%d",
			result.UsageMetadata.PromptTokenCount,
			result.UsageMetadata.CandidatesTokenCount,
			result.UsageMetadata.TotalTokenCount)
	}

	transaction.SetTag("success", "true")
	return text, nil
}

// GenerateImage calls the image model with the compiled prompt and
// returns the first inline image.
func (p *GeminiProvider) GenerateImage(ctx context.Context, request *ImageRequest) (*GeneratedImage, error) {
	startTime := time.Now()
	log.Printf("🖼️  GEMINI IMAGE REQUEST STARTED (Model: %s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "gemini.image")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	finalPrompt := BuildImagePrompt(request.CompiledPrompt, request.TextDensity)
	contents := []*genai.Content{{
		Role:  geminiUserRole,
		Parts: []*genai.Part{{Text: finalPrompt}},
	}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	span := transaction.StartChild("gemini.api_call")
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	image, textResponse := extractImage(result)
	log.Printf("🖼️  GEMINI IMAGE RESPONSE in %v (image: %t, text: %d chars)",
		time.Since(startTime), image != nil, len(textResponse))

	if image == nil {
		transaction.SetTag("success", "false")
		return nil, ErrNoImage
	}

	image.Text = textResponse
	transaction.SetTag("success", "true")
	return image, nil
}

// collectText concatenates all text parts of the first candidate.
func collectText(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in Gemini response")
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no parts in Gemini response")
	}

	var text string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("gemini response did not include any output text")
	}
	return text, nil
}

// extractImage pulls the first inline image and any accompanying text
// from the response.
func extractImage(result *genai.GenerateContentResponse) (*GeneratedImage, string) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, ""
	}

	var image *GeneratedImage
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
		if part.InlineData != nil && image == nil {
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			image = &GeneratedImage{
				Data:     base64.StdEncoding.EncodeToString(part.InlineData.Data),
				MIMEType: mimeType,
			}
		}
	}
	return image, text
}
