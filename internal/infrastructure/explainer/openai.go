package explainer

import (
	"context"
	"errors"
	"image"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"pneumo-bot/internal/domain/entity"
	"pneumo-bot/internal/domain/port"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI использует chat completions любого OpenAI-совместимого API.
type OpenAI struct {
	client  openai.Client
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// NewOpenAI создаёт клиента без повторов: одна попытка на запрос.
func NewOpenAI(cfg Config, log zerolog.Logger) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai explainer requires an API key")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}
	timeout := timeoutOrDefault(cfg.Timeout)

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAI{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
		log:     log.With().Str("component", "explainer").Str("provider", string(ProviderOpenAI)).Logger(),
	}, nil
}

func (o *OpenAI) Name() string {
	return string(ProviderOpenAI)
}

func (o *OpenAI) Explain(ctx context.Context, img image.Image) entity.ExplanationResult {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	data, err := encodeJPEG(img)
	if err != nil {
		return failure(o.log, o.timeout, err)
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{imageMessage(Prompt, "data:image/jpeg;base64,"+data)},
	})
	if err != nil {
		return failure(o.log, o.timeout, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		o.log.Warn().Int("choices", len(resp.Choices)).Msg("Explanation response has no text")
		return entity.ExplanationResult{Text: FallbackText}
	}
	return entity.ExplanationResult{Text: resp.Choices[0].Message.Content, Succeeded: true}
}

func imageMessage(prompt, imageURL string) openai.ChatCompletionMessageParamUnion {
	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
					{OfText: &openai.ChatCompletionContentPartTextParam{Text: prompt}},
					{OfImageURL: &openai.ChatCompletionContentPartImageParam{
						ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL},
					}},
				},
			},
		},
	}
}

// Проверка реализации интерфейса
var _ port.Explainer = (*OpenAI)(nil)
