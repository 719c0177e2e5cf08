package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "gemini", cfg.ExplainerProvider)
	require.Equal(t, "secret", cfg.ExplainerAPIKey())
	require.Equal(t, "gemini-2.0-flash", cfg.ExplainerModel())
	require.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.ExplainerBaseURL())
	require.Equal(t, 10*time.Second, cfg.ExplainTimeout)
	require.Equal(t, "models/pneumonia_vgg19.onnx", cfg.ModelPath)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.TelegramToken)
}

func TestFromEnv_MissingGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := FromEnv()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GEMINI_API_KEY is required")
}

func TestFromEnv_OpenAIProvider(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("EXPLAINER_PROVIDER", "openai")

	_, err := FromEnv()
	require.Error(t, err)
	require.Contains(t, err.Error(), "OPENAI_API_KEY is required when EXPLAINER_PROVIDER=openai")

	t.Setenv("OPENAI_API_KEY", "sk-1")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")
	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "sk-1", cfg.ExplainerAPIKey())
	require.Equal(t, "gpt-4o-mini", cfg.ExplainerModel())
	require.Equal(t, "http://localhost:11434/v1", cfg.ExplainerBaseURL())
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("EXPLAINER_PROVIDER", "llama")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := FromEnv()
	require.Error(t, err)
	require.Contains(t, err.Error(), "EXPLAINER_PROVIDER must be one of")
	require.Contains(t, err.Error(), "LOG_LEVEL must be one of")
}

func TestFromEnv_BadDuration(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("EXPLAIN_TIMEOUT", "soon")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnv_NonPositiveTimeout(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("EXPLAIN_TIMEOUT", "0s")

	_, err := FromEnv()
	require.Error(t, err)
	require.Contains(t, err.Error(), "EXPLAIN_TIMEOUT is invalid")
}
