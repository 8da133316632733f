package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const (
	providerNameOpenAI = "openai"
)

// OpenAIProvider implements BlueprintProvider using OpenAI's Responses
// API. OpenAI models are only used for the blueprint step; rendering
// always goes through Gemini.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client: &client,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// GenerateBlueprint calls the Responses API with the blueprint
// instruction prompt and returns the raw text output.
func (p *OpenAIProvider) GenerateBlueprint(ctx context.Context, request *BlueprintRequest) (string, error) {
	startTime := time.Now()
	log.Printf("📐 OPENAI BLUEPRINT REQUEST STARTED (Model: %s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "openai.blueprint")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	prompt := BuildBlueprintPrompt(request.DocumentText, request.Settings)
	params := responses.ResponseNewParams{
		Model: request.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	}

	span := transaction.StartChild("openai.api_call")
	resp, err := p.client.Responses.New(ctx, params)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	text := resp.OutputText()
	if text == "" {
		transaction.SetTag("success", "false")
		return "", fmt.Errorf("openai response did not include any output text")
	}

	log.Printf("📥 OPENAI BLUEPRINT RESPONSE in %v (%d chars)", time.Since(startTime), len(text))

	transaction.SetTag("success", "true")
	return text, nil
}
