package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/graphgen/infographic-api/internal/blueprint"
	"github.com/graphgen/infographic-api/internal/compiler"
	"github.com/graphgen/infographic-api/internal/config"
	"github.com/graphgen/infographic-api/internal/llm"
	"github.com/graphgen/infographic-api/internal/logger"
	"github.com/graphgen/infographic-api/internal/metrics"
	"github.com/graphgen/infographic-api/internal/middleware"
	"github.com/graphgen/infographic-api/internal/models"
	"github.com/graphgen/infographic-api/internal/observability"
	"github.com/graphgen/infographic-api/internal/pdf"
	"github.com/graphgen/infographic-api/internal/services"
)

// ProviderSource yields the model providers for a generation. Satisfied
// by llm.ProviderFactory in production and by fakes in tests.
type ProviderSource interface {
	BlueprintProvider(ctx context.Context, model string) (llm.BlueprintProvider, error)
	ImageProvider(ctx context.Context) (llm.ImageProvider, error)
}

type GenerationHandler struct {
	cfg       *config.Config
	usage     *services.UsageService
	debug     *services.DebugStore
	providers ProviderSource
	cw        *metrics.Client
	sentry    *metrics.SentryMetrics
}

func NewGenerationHandler(
	cfg *config.Config,
	usage *services.UsageService,
	debug *services.DebugStore,
	providers ProviderSource,
	cw *metrics.Client,
) *GenerationHandler {
	return &GenerationHandler{
		cfg:       cfg,
		usage:     usage,
		debug:     debug,
		providers: providers,
		cw:        cw,
		sentry:    metrics.NewSentryMetrics(),
	}
}

// Generate runs the full pipeline: extract text, build the Visual
// Blueprint, compile the image prompt, render, and return either the
// image payload or the block layout depending on the render setting.
func (h *GenerationHandler) Generate(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Authentication required"})
		return
	}

	settings := parseSettings(c.PostForm("settings"))

	// Quota check before any model work.
	if err := h.usage.CheckAllowance(user.Username, user.Role); err != nil {
		if errors.Is(err, services.ErrUsageLimitReached) {
			h.cw.RecordUsageReject(user.Role)
			h.sentry.RecordCustomMetric("usage_limit_reject", map[string]interface{}{
				"username": user.Username,
				"role":     user.Role,
			})
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "Usage limit reached. Contact admin for more access."})
			return
		}
		logger.Error("Usage check failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to check usage"})
		return
	}

	// Assemble the document text: typed prompt first, extracted PDF
	// text appended after it.
	userText := strings.TrimSpace(c.PostForm("prompt"))

	fileHeader, err := c.FormFile("file")
	if err == nil && fileHeader != nil && fileHeader.Filename != "" {
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Only PDF files are supported"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Failed to read uploaded file"})
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Failed to read uploaded file"})
			return
		}

		extracted, err := pdf.ExtractText(data)
		if err != nil {
			logger.Error("PDF extraction failed", err, logger.WithContext(c))
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Failed to extract text from PDF"})
			return
		}
		if extracted != "" {
			if userText != "" {
				userText = userText + "\n\n" + extracted
			} else {
				userText = extracted
			}
		}
	}

	if userText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "No text or file provided"})
		return
	}

	inputText := preparePayloadText(userText)
	logger.Info("Processing generation request", logger.Fields{
		"request_id": c.GetString("request_id"),
		"username":   user.Username,
		"chars":      len(inputText),
		"render":     settings.Render,
	})

	trace := observability.GetClient().StartTrace(ctx, "infographic.generate", map[string]interface{}{
		"username": user.Username,
		"render":   settings.Render,
	})
	defer trace.Finish()

	// Step 1: Visual Blueprint.
	rawBlueprint, rawJSON, errResp := h.buildBlueprint(ctx, c, trace, inputText, settings)
	if errResp {
		h.finish(c, user.Username, settings.Render, false, start)
		return
	}

	h.debug.SaveBlueprint(rawJSON)

	// Layout variant skips compilation and rendering entirely.
	if settings.Render == models.RenderLayout {
		if err := h.usage.Increment(user.Username); err != nil {
			logger.Error("Failed to record usage", err, logger.WithContext(c))
		}
		h.finish(c, user.Username, settings.Render, true, start)
		c.JSON(http.StatusOK, gin.H{
			"ok":          true,
			"infographic": rawBlueprint.ToBlockLayout(),
		})
		return
	}

	// Step 2: Deterministic prompt compilation.
	compiledPrompt := compiler.Compile(rawBlueprint)
	h.debug.SaveCompiledPrompt(compiledPrompt)
	logger.Info("Compiled prompt", logger.Fields{
		"request_id": c.GetString("request_id"),
		"chars":      len(compiledPrompt),
	})

	// Step 3: Image rendering.
	image, errResp := h.renderImage(ctx, c, trace, compiledPrompt, settings)
	if errResp {
		h.finish(c, user.Username, settings.Render, false, start)
		return
	}

	if err := h.usage.Increment(user.Username); err != nil {
		logger.Error("Failed to record usage", err, logger.WithContext(c))
	}
	h.finish(c, user.Username, settings.Render, true, start)

	preview := compiledPrompt
	if len(preview) > compiledPromptPrev {
		preview = preview[:compiledPromptPrev]
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"blueprint": rawJSON,
		"image": gin.H{
			"data":      image.Data,
			"mime_type": image.MIMEType,
		},
		"compiled_prompt_preview": preview + "...",
	})
}

// buildBlueprint runs the blueprint model, parses and validates its
// output. A true second return value means an error response has
// already been written.
func (h *GenerationHandler) buildBlueprint(
	ctx context.Context,
	c *gin.Context,
	trace *observability.Trace,
	inputText string,
	settings models.GenerationSettings,
) (*blueprint.Blueprint, json.RawMessage, bool) {
	provider, err := h.providers.BlueprintProvider(ctx, h.cfg.BlueprintModel)
	if err != nil {
		logger.Error("Blueprint provider unavailable", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return nil, nil, true
	}

	gen := trace.Generation("blueprint", map[string]interface{}{"model": h.cfg.BlueprintModel})
	gen.Model(h.cfg.BlueprintModel)
	gen.Input(inputText)

	stageStart := time.Now()
	rawText, err := provider.GenerateBlueprint(ctx, &llm.BlueprintRequest{
		Model:        h.cfg.BlueprintModel,
		DocumentText: inputText,
		Settings:     settings,
	})
	h.sentry.RecordPipelineStage(ctx, "blueprint", h.cfg.BlueprintModel, time.Since(stageStart), err == nil)

	if err != nil {
		gen.SetLevel("ERROR")
		gen.Finish()
		logger.Error("Blueprint generation failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return nil, nil, true
	}

	gen.Output(rawText)
	gen.Finish()

	bp, rawJSON, err := blueprint.Parse(rawText)
	if err != nil {
		raw := rawText
		if len(raw) > maxRawErrorChars {
			raw = raw[:maxRawErrorChars]
		}
		logger.Error("Blueprint output not valid JSON", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Model output not valid JSON", "raw": raw})
		return nil, nil, true
	}

	if err := bp.Validate(); err != nil {
		logger.Error("Blueprint validation failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":        false,
			"error":     "Blueprint validation failed: " + err.Error(),
			"blueprint": rawJSON,
		})
		return nil, nil, true
	}

	return bp, rawJSON, false
}

// renderImage runs the image model. A true second return value means an
// error response has already been written.
func (h *GenerationHandler) renderImage(
	ctx context.Context,
	c *gin.Context,
	trace *observability.Trace,
	compiledPrompt string,
	settings models.GenerationSettings,
) (*llm.GeneratedImage, bool) {
	provider, err := h.providers.ImageProvider(ctx)
	if err != nil {
		logger.Error("Image provider unavailable", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return nil, true
	}

	gen := trace.Generation("render", map[string]interface{}{"model": h.cfg.ImageModel})
	gen.Model(h.cfg.ImageModel)

	stageStart := time.Now()
	image, err := provider.GenerateImage(ctx, &llm.ImageRequest{
		Model:          h.cfg.ImageModel,
		CompiledPrompt: compiledPrompt,
		TextDensity:    settings.TextDensity,
	})
	h.sentry.RecordPipelineStage(ctx, "render", h.cfg.ImageModel, time.Since(stageStart), err == nil)

	if err != nil {
		gen.SetLevel("ERROR")
		gen.Finish()
		logger.Error("Image generation failed", err, logger.WithContext(c))
		if errors.Is(err, llm.ErrNoImage) {
			c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "No image generated"})
		} else {
			c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		}
		return nil, true
	}

	gen.Finish()
	return image, false
}

func (h *GenerationHandler) finish(c *gin.Context, username, render string, success bool, start time.Time) {
	duration := time.Since(start)
	h.sentry.RecordGenerationDuration(c.Request.Context(), duration, success)
	h.cw.RecordGenerationDuration(duration, success)
	logger.LogGenerationRequest(c.Request.Context(), h.cfg.BlueprintModel, duration, logger.Fields{
		"username": username,
		"render":   render,
		"success":  success,
	})

	errMsg := ""
	if !success {
		errMsg = "generation failed"
	}
	if err := h.usage.LogGeneration(username, h.cfg.BlueprintModel, render, success, errMsg, duration); err != nil {
		logger.Warn("Failed to log generation", logger.Fields{"username": username, "error": err.Error()})
	}
}

// parseSettings decodes the settings form field, tolerating absent or
// malformed JSON the same way older clients were tolerated.
func parseSettings(raw string) models.GenerationSettings {
	var settings models.GenerationSettings
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &settings)
	}
	return settings.Normalize()
}

// preparePayloadText trims overlong inputs so the blueprint prompt
// stays inside the model's practical context window.
func preparePayloadText(text string) string {
	if len(text) > maxPayloadChars {
		return text[:maxPayloadChars]
	}
	return text
}
