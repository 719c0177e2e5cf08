package main

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"pneumo-bot/config"
	"pneumo-bot/internal/domain/entity"
)

func TestRun_MissingModelIsFatal(t *testing.T) {
	cfg := &config.Config{
		ExplainerProvider: "gemini",
		GeminiAPIKey:      "secret",
		ModelPath:         filepath.Join(t.TempDir(), "absent.onnx"),
		HTTPAddr:          "127.0.0.1:0",
		MaxUploadBytes:    1 << 20,
	}

	err := run(cfg, zerolog.Nop())
	require.ErrorIs(t, err, entity.ErrModelUnavailable)
}
