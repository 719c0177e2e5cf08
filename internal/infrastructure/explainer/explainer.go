package explainer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net"
	"time"

	"github.com/rs/zerolog"

	"pneumo-bot/internal/domain/entity"
	"pneumo-bot/internal/domain/port"
)

const (
	// Prompt: фиксированная инструкция для модели.
	Prompt = "Analyze this X-ray and provide an accurate medical explanation."

	// DefaultTimeout: единственная попытка запроса ограничена этим временем.
	DefaultTimeout = 10 * time.Second

	// FallbackText возвращается, когда ответ корректен, но текста в нём нет.
	FallbackText = "Explanation not available."

	jpegQuality = 90
)

// Provider: имя внешнего сервиса пояснений.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Config общий для всех провайдеров.
type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New создаёт объяснитель выбранного провайдера. Пустой ключ: ошибка старта.
func New(cfg Config, log zerolog.Logger) (port.Explainer, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGemini(cfg, log)
	case ProviderOpenAI:
		return NewOpenAI(cfg, log)
	default:
		return nil, fmt.Errorf("unknown explainer provider %q", cfg.Provider)
	}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

// encodeJPEG кодирует снимок в base64 JPEG.
func encodeJPEG(img image.Image) (string, error) {
	if img == nil {
		return "", errors.New("no image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// failure логирует сбой и превращает его в результат для отчёта.
func failure(log zerolog.Logger, timeout time.Duration, cause error) entity.ExplanationResult {
	log.Warn().Err(fmt.Errorf("%w: %w", entity.ErrExplanationService, cause)).Msg("Explanation unavailable")

	if isTimeout(cause) {
		return entity.ExplanationResult{
			Text: fmt.Sprintf("Explanation unavailable: the service did not answer within %s.", timeout),
		}
	}
	return entity.ExplanationResult{
		Text: fmt.Sprintf("Explanation unavailable: %v", cause),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
