package config

import "os"

// Config holds the application configuration.
// Everything is read from the environment; a .env file is loaded in main
// for local development.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Storage
	DatabaseURL string // Postgres DSN; empty falls back to in-memory usage tracking

	// LLM API Keys
	GeminiAPIKey string // Google Gemini API key (blueprint + image generation)
	OpenAIAPIKey string // OpenAI API key (alternative blueprint provider)

	// Models
	BlueprintModel string // Model used for the Visual Blueprint step
	ImageModel     string // Model used for the image rendering step

	// Auth
	JWTSecret string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// Debug artifact directory (last blueprint / compiled prompt)
	DebugDir string
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8000"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		BlueprintModel:    getEnv("BLUEPRINT_MODEL", "gemini-2.5-flash"),
		ImageModel:        getEnv("IMAGE_MODEL", "nano-banana-pro-preview"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
		DebugDir:          getEnv("DEBUG_DIR", "/tmp/debug"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
