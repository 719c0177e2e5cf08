package explainer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pneumo-bot/internal/domain/entity"
	"pneumo-bot/internal/domain/port"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.0-flash"

	maxErrorBody = 4 << 10
)

// Gemini ходит в REST API generateContent.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	client  *http.Client
	log     zerolog.Logger
}

// NewGemini создаёт клиента. Без ключа сервис стартовать не должен.
func NewGemini(cfg Config, log zerolog.Logger) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini explainer requires an API key")
	}

	model := strings.TrimPrefix(strings.TrimSpace(cfg.Model), "models/")
	if model == "" {
		model = DefaultGeminiModel
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	timeout := timeoutOrDefault(cfg.Timeout)

	return &Gemini{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "explainer").Str("provider", string(ProviderGemini)).Logger(),
	}, nil
}

func (g *Gemini) Name() string {
	return string(ProviderGemini)
}

// Explain отправляет промпт и снимок одним запросом без повторов.
func (g *Gemini) Explain(ctx context.Context, img image.Image) entity.ExplanationResult {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	data, err := encodeJPEG(img)
	if err != nil {
		return failure(g.log, g.timeout, err)
	}

	resp, err := g.generate(ctx, newGenerateRequest(Prompt, "image/jpeg", data))
	if err != nil {
		return failure(g.log, g.timeout, err)
	}

	if text, ok := resp.firstText(); ok {
		return entity.ExplanationResult{Text: text, Succeeded: true}
	}

	ev := g.log.Warn().Int("candidates", len(resp.Candidates))
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		ev = ev.Str("block_reason", resp.PromptFeedback.BlockReason)
	}
	ev.Msg("Explanation response has no text")
	return entity.ExplanationResult{Text: FallbackText}
}

func (g *Gemini) endpoint() string {
	return g.baseURL + "/models/" + g.model + ":generateContent"
}

func (g *Gemini) generate(ctx context.Context, payload generateRequest) (*generateResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	g.log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Explanation response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, apiErrorMessage(raw))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("unexpected response: %w", err)
	}
	return &out, nil
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

func newGenerateRequest(prompt, mimeType, data string) generateRequest {
	return generateRequest{
		Contents: []requestContent{{
			Parts: []requestPart{
				{Text: prompt},
				{InlineData: &inlineData{MimeType: mimeType, Data: data}},
			},
		}},
	}
}

// generateResponse: только используемые поля, каждое может отсутствовать.
type generateResponse struct {
	Candidates     []responseCandidate `json:"candidates"`
	PromptFeedback *promptFeedback     `json:"promptFeedback"`
}

type responseCandidate struct {
	Content      *responseContent `json:"content"`
	FinishReason string           `json:"finishReason"`
}

type responseContent struct {
	Parts []responsePart `json:"parts"`
}

type responsePart struct {
	Text *string `json:"text"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason"`
}

// firstText возвращает candidates[0].content.parts[0].text, если он есть.
func (r *generateResponse) firstText() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}
	text := content.Parts[0].Text
	if text == nil || strings.TrimSpace(*text) == "" {
		return "", false
	}
	return *text, true
}

// apiErrorMessage достаёт error.message из тела ошибки Google API.
func apiErrorMessage(raw []byte) string {
	var body struct {
		Error *struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != nil && body.Error.Message != "" {
		if body.Error.Status != "" {
			return body.Error.Status + ": " + body.Error.Message
		}
		return body.Error.Message
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "empty body"
	}
	return msg
}

// Проверка реализации интерфейса
var _ port.Explainer = (*Gemini)(nil)
