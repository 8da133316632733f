package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphgen/infographic-api/internal/config"
	"github.com/graphgen/infographic-api/internal/llm"
	"github.com/graphgen/infographic-api/internal/metrics"
	"github.com/graphgen/infographic-api/internal/models"
	"github.com/graphgen/infographic-api/internal/services"
)

type fakeProviders struct {
	mock *llm.MockProvider
}

func (f *fakeProviders) BlueprintProvider(_ context.Context, _ string) (llm.BlueprintProvider, error) {
	return f.mock, nil
}

func (f *fakeProviders) ImageProvider(_ context.Context) (llm.ImageProvider, error) {
	return f.mock, nil
}

const validBlueprintJSON = `{
	"title": "Climate Change",
	"subtitle": "Causes and Effects",
	"layout": "process_flow",
	"palette": "teal",
	"sections": [
		{"id": "causes", "type": "findings_actions", "heading": "Causes", "findings": ["CO2"]},
		{"id": "effects", "type": "outcome", "heading": "Effects", "points": ["Sea level rise"]}
	]
}`

func newGenerationTestServer(t *testing.T, mock *llm.MockProvider, user models.User) (*gin.Engine, *services.UsageService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		BlueprintModel: "gemini-2.5-flash",
		ImageModel:     "nano-banana-pro-preview",
	}
	usage := services.NewUsageService(nil)
	debug := services.NewDebugStore(t.TempDir())
	cw, err := metrics.NewClient(context.Background(), "test")
	require.NoError(t, err)

	handler := NewGenerationHandler(cfg, usage, debug, &fakeProviders{mock: mock}, cw)

	router := gin.New()
	router.POST("/api/generate", func(c *gin.Context) {
		c.Set("user", user)
		c.Set("username", user.Username)
		c.Next()
	}, handler.Generate)

	return router, usage
}

func multipartRequest(t *testing.T, fields map[string]string, fileName string, fileData []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/generate", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func doRequest(router *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestGenerateRequiresInput(t *testing.T) {
	mock := &llm.MockProvider{}
	router, _ := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	w, body := doRequest(router, multipartRequest(t, map[string]string{"prompt": "   "}, "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "No text or file provided", body["error"])
	assert.Nil(t, mock.LastBlueprintRequest, "pipeline should not run without input")
}

func TestGenerateRejectsNonPDFUploads(t *testing.T) {
	mock := &llm.MockProvider{}
	router, _ := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	req := multipartRequest(t, map[string]string{"prompt": "text"}, "notes.txt", []byte("hello"))
	w, body := doRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only PDF files are supported", body["error"])
}

func TestGenerateEnforcesContributorCap(t *testing.T) {
	mock := &llm.MockProvider{
		BlueprintText: validBlueprintJSON,
		Image:         &llm.GeneratedImage{Data: "aW1n", MIMEType: "image/png"},
	}
	user := models.User{Username: "contributor", Role: models.RoleContributor}
	router, usage := newGenerationTestServer(t, mock, user)

	for i := 0; i < models.ContributorGenerationCap; i++ {
		w, _ := doRequest(router, multipartRequest(t, map[string]string{"prompt": "report"}, "", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := doRequest(router, multipartRequest(t, map[string]string{"prompt": "report"}, "", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["error"], "Usage limit reached")

	u, err := usage.Get(user.Username, user.Role)
	require.NoError(t, err)
	assert.Equal(t, models.ContributorGenerationCap, u.Used)
}

func TestGenerateFailuresDoNotConsumeQuota(t *testing.T) {
	mock := &llm.MockProvider{BlueprintText: "not json at all"}
	user := models.User{Username: "contributor", Role: models.RoleContributor}
	router, usage := newGenerationTestServer(t, mock, user)

	w, _ := doRequest(router, multipartRequest(t, map[string]string{"prompt": "report"}, "", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	u, err := usage.Get(user.Username, user.Role)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Used)
}

func TestGenerateInvalidModelJSON(t *testing.T) {
	mock := &llm.MockProvider{BlueprintText: "The model rambled instead of JSON"}
	router, _ := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	w, body := doRequest(router, multipartRequest(t, map[string]string{"prompt": "report"}, "", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Model output not valid JSON", body["error"])
	assert.Equal(t, "The model rambled instead of JSON", body["raw"])
}

func TestGenerateInvalidBlueprint(t *testing.T) {
	mock := &llm.MockProvider{BlueprintText: `{"title": "No sections", "sections": []}`}
	router, _ := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	w, body := doRequest(router, multipartRequest(t, map[string]string{"prompt": "report"}, "", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, body["error"], "Blueprint validation failed")
	assert.NotNil(t, body["blueprint"])
}

func TestGenerateNoImage(t *testing.T) {
	mock := &llm.MockProvider{BlueprintText: validBlueprintJSON, Image: nil}
	router, _ := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	w, body := doRequest(router, multipartRequest(t, map[string]string{"prompt": "report"}, "", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "No image generated", body["error"])
}

func TestGenerateImageProviderError(t *testing.T) {
	mock := &llm.MockProvider{BlueprintText: validBlueprintJSON, ImageErr: errors.New("upstream timeout")}
	router, _ := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	w, body := doRequest(router, multipartRequest(t, map[string]string{"prompt": "report"}, "", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, body["error"], "upstream timeout")
}

func TestGenerateImageSuccess(t *testing.T) {
	mock := &llm.MockProvider{
		BlueprintText: validBlueprintJSON,
		Image:         &llm.GeneratedImage{Data: "aW1hZ2VkYXRh", MIMEType: "image/png"},
	}
	router, usage := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	w, body := doRequest(router, multipartRequest(t, map[string]string{"prompt": "Climate change causes and effects"}, "", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, true, body["ok"])
	image := body["image"].(map[string]any)
	assert.Equal(t, "aW1hZ2VkYXRh", image["data"])
	assert.Equal(t, "image/png", image["mime_type"])
	assert.NotNil(t, body["blueprint"])
	assert.Contains(t, body["compiled_prompt_preview"], "...")

	// Image pipeline got the text density through to the provider.
	require.NotNil(t, mock.LastImageRequest)
	assert.Equal(t, "nano-banana-pro-preview", mock.LastImageRequest.Model)

	u, err := usage.Get("admin", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Used)
}

func TestGenerateLayoutVariant(t *testing.T) {
	mock := &llm.MockProvider{BlueprintText: validBlueprintJSON}
	router, _ := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	w, body := doRequest(router, multipartRequest(t, map[string]string{
		"prompt":   "report",
		"settings": `{"render": "layout"}`,
	}, "", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])

	infographic := body["infographic"].(map[string]any)
	assert.Equal(t, "Climate Change", infographic["title"])
	assert.Equal(t, "timeline", infographic["layout"])

	blocks := infographic["blocks"].([]any)
	require.Len(t, blocks, 2)
	first := blocks[0].(map[string]any)
	second := blocks[1].(map[string]any)
	assert.Equal(t, "Causes", first["heading"])
	assert.Equal(t, "Effects", second["heading"])

	// No render step for the layout variant.
	assert.Nil(t, mock.LastImageRequest)
}

func TestGenerateSettingsNormalization(t *testing.T) {
	mock := &llm.MockProvider{
		BlueprintText: validBlueprintJSON,
		Image:         &llm.GeneratedImage{Data: "aW1n", MIMEType: "image/png"},
	}
	router, _ := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	w, _ := doRequest(router, multipartRequest(t, map[string]string{
		"prompt":   "report",
		"settings": `{"creativity": "bogus", "textDensity": "low"}`,
	}, "", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, mock.LastBlueprintRequest)
	assert.Equal(t, "moderate", mock.LastBlueprintRequest.Settings.Creativity)
	assert.Equal(t, models.LayoutBeforeAfter, mock.LastBlueprintRequest.Settings.Layout)
}

func TestGenerateLayoutPreferenceReachesProvider(t *testing.T) {
	mock := &llm.MockProvider{
		BlueprintText: validBlueprintJSON,
		Image:         &llm.GeneratedImage{Data: "aW1n", MIMEType: "image/png"},
	}
	router, _ := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	w, _ := doRequest(router, multipartRequest(t, map[string]string{
		"prompt":   "report",
		"settings": `{"layout": "summary_grid"}`,
	}, "", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, mock.LastBlueprintRequest)
	assert.Equal(t, models.LayoutSummaryGrid, mock.LastBlueprintRequest.Settings.Layout)
}

func TestGenerateUnknownLayoutFallsBackToDefault(t *testing.T) {
	mock := &llm.MockProvider{
		BlueprintText: validBlueprintJSON,
		Image:         &llm.GeneratedImage{Data: "aW1n", MIMEType: "image/png"},
	}
	router, _ := newGenerationTestServer(t, mock, models.User{Username: "admin", Role: models.RoleAdmin})

	w, _ := doRequest(router, multipartRequest(t, map[string]string{
		"prompt":   "report",
		"settings": `{"layout": "mosaic"}`,
	}, "", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, mock.LastBlueprintRequest)
	assert.Equal(t, models.LayoutBeforeAfter, mock.LastBlueprintRequest.Settings.Layout)
}
