package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Сервис пояснений
	ExplainerProvider string        `envconfig:"EXPLAINER_PROVIDER" default:"gemini" validate:"oneof=gemini openai"`
	GeminiAPIKey      string        `envconfig:"GEMINI_API_KEY" validate:"required_if=ExplainerProvider gemini"`
	GeminiModel       string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiBaseURL     string        `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta" validate:"url"`
	OpenAIAPIKey      string        `envconfig:"OPENAI_API_KEY" validate:"required_if=ExplainerProvider openai"`
	OpenAIModel       string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL     string        `envconfig:"OPENAI_BASE_URL" validate:"omitempty,url"`
	ExplainTimeout    time.Duration `envconfig:"EXPLAIN_TIMEOUT" default:"10s" validate:"gt=0s"`

	// Модель
	ModelPath       string `envconfig:"MODEL_PATH" default:"models/pneumonia_vgg19.onnx" validate:"required"`
	OnnxLibraryPath string `envconfig:"ONNX_LIBRARY_PATH"`
	ModelInputName  string `envconfig:"MODEL_INPUT_NAME"`
	ModelOutputName string `envconfig:"MODEL_OUTPUT_NAME"`

	// Транспорт
	HTTPAddr       string `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760" validate:"gt=0"`
	TelegramToken  string `envconfig:"TELEGRAM_TOKEN"`

	// Логи
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// ExplainerAPIKey возвращает ключ выбранного провайдера.
func (c *Config) ExplainerAPIKey() string {
	if c.ExplainerProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// ExplainerModel возвращает модель выбранного провайдера.
func (c *Config) ExplainerModel() string {
	if c.ExplainerProvider == "openai" {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

// ExplainerBaseURL возвращает адрес API выбранного провайдера.
func (c *Config) ExplainerBaseURL() string {
	if c.ExplainerProvider == "openai" {
		return c.OpenAIBaseURL
	}
	return c.GeminiBaseURL
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv читает и проверяет конфигурацию только из окружения.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := newValidator().Struct(&cfg); err != nil {
		return nil, describe(err)
	}

	return &cfg, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В ошибках показываем имя переменной окружения, а не поля.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("envconfig")
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "required_if":
			msg := fe.Field() + " is required"
			if fe.Tag() == "required_if" {
				msg += " when EXPLAINER_PROVIDER=" + strings.Fields(fe.Param())[1]
			}
			msgs = append(msgs, msg)
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}
