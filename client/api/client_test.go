package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body["password"] != "admin123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "Invalid username or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ok":           true,
			"user":         map[string]string{"username": "admin", "role": "admin"},
			"access_token": "jwt",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	resp, err := client.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Equal(t, "jwt", resp.AccessToken)

	resp, err = client.Login(context.Background(), "admin", "wrong")
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "Invalid username or password", resp.Error)
}

func TestUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/usage/contributor", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"ok": true, "usage_count": 1, "limit": 2, "remaining": 1, "role": "contributor",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	resp, err := client.Usage(context.Background(), "contributor")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.UsageCount)
	assert.Equal(t, 1, resp.Remaining)
}

func TestGenerateSendsMultipartFields(t *testing.T) {
	var gotPrompt, gotSettings, gotUsername, gotFile, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotPrompt = r.FormValue("prompt")
		gotSettings = r.FormValue("settings")
		gotUsername = r.FormValue("username")
		if file, header, err := r.FormFile("file"); err == nil {
			gotFile = header.Filename
			file.Close()
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"infographic": map[string]any{
				"title": "T", "layout": "vertical_steps",
				"blocks": []map[string]any{{"id": "b1", "iconKey": "leaf", "heading": "H", "bullets": []string{"x"}}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "jwt")
	resp, err := client.Generate(context.Background(), GenerateInput{
		Text:     "report text",
		FileName: "/tmp/notes.pdf",
		File:     strings.NewReader("%PDF-1.4"),
		Settings: map[string]string{"palette": "teal"},
		Username: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer jwt", gotAuth)
	assert.Equal(t, "report text", gotPrompt)
	assert.JSONEq(t, `{"palette":"teal"}`, gotSettings)
	assert.Equal(t, "admin", gotUsername)
	assert.Equal(t, "notes.pdf", gotFile)

	result := resp.Result()
	require.NotNil(t, result)
	require.NotNil(t, result.Layout)
	assert.Equal(t, "leaf", result.Layout.Blocks[0].IconKey)
}

func TestGenerateBackendFailureIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "Usage limit reached. Contact admin for more access."})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	resp, err := client.Generate(context.Background(), GenerateInput{Text: "report"})
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "Usage limit reached. Contact admin for more access.", resp.Error)
	assert.Nil(t, resp.Result())
}

func TestResultBranchesOnImageFields(t *testing.T) {
	resp := &GenerateResponse{
		OK:                    true,
		Image:                 &ImagePayload{Data: "aGk=", MIMEType: "image/png"},
		Blueprint:             json.RawMessage(`{"title":"T"}`),
		CompiledPromptPreview: "preview...",
	}
	result := resp.Result()
	require.NotNil(t, result)
	require.NotNil(t, result.Image)
	assert.Nil(t, result.Layout)
	assert.Equal(t, "image/png", result.Image.MIMEType)
	assert.Equal(t, "aGk=", result.Image.Base64Data)
	assert.Equal(t, "preview...", result.Image.CompiledPromptPreview)
}
