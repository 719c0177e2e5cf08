package onnx

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
	ort "github.com/yalue/onnxruntime_go"

	"pneumo-bot/internal/domain/entity"
	"pneumo-bot/internal/domain/port"
)

// Config описывает артефакт модели.
type Config struct {
	ModelPath   string
	LibraryPath string // путь к libonnxruntime, пусто: системный
	InputName   string // пусто: берётся из модели
	OutputName  string // пусто: берётся из модели
}

// Classifier держит загруженную модель. После NewClassifier поля не меняются,
// тензоры создаются на каждый вызов, поэтому Predict безопасен для горутин.
type Classifier struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	log        zerolog.Logger
	closed     atomic.Bool
}

// NewClassifier загружает модель один раз. Любая ошибка оборачивает
// entity.ErrModelUnavailable: без модели сервис не стартует.
func NewClassifier(cfg Config, log zerolog.Logger) (*Classifier, error) {
	if err := checkArtifact(cfg.ModelPath); err != nil {
		return nil, err
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: failed to initialize ONNX environment: %v", entity.ErrModelUnavailable, err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read model %s: %v", entity.ErrModelUnavailable, cfg.ModelPath, err)
	}

	inputName, outputName, err := resolveNames(cfg, inputs, outputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrModelUnavailable, err)
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{inputName}, []string{outputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create ONNX session: %v", entity.ErrModelUnavailable, err)
	}

	log = log.With().Str("component", "classifier").Logger()
	log.Info().
		Str("model", cfg.ModelPath).
		Str("input", inputName).
		Str("output", outputName).
		Msg("Model loaded")

	return &Classifier{
		session:    session,
		inputName:  inputName,
		outputName: outputName,
		log:        log,
	}, nil
}

// Predict выполняет прямой проход над тензором (1, 224, 224, 3).
func (c *Classifier) Predict(ctx context.Context, tensor entity.Tensor) (entity.ScoreVector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.Ready() {
		return nil, fmt.Errorf("%w: session is closed", entity.ErrModelUnavailable)
	}
	if len(tensor.Data) != tensor.Len() {
		return nil, fmt.Errorf("tensor has %d values, shape %v expects %d", len(tensor.Data), tensor.Shape, tensor.Len())
	}

	input, err := ort.NewTensor(ort.NewShape(tensor.Shape[:]...), tensor.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, entity.NumClasses))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := c.session.Run([]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output}); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	return scoresFromOutput(output.GetData()), nil
}

// Ready сообщает, загружена ли модель и не закрыта ли сессия.
func (c *Classifier) Ready() bool {
	return c.session != nil && !c.closed.Load()
}

// Close освобождает сессию и окружение ONNX Runtime. Повторный вызов ничего не делает.
func (c *Classifier) Close() {
	if c.closed.Swap(true) {
		return
	}
	if c.session != nil {
		c.session.Destroy()
	}
	ort.DestroyEnvironment()
}

func checkArtifact(path string) error {
	if path == "" {
		return fmt.Errorf("%w: model path is empty", entity.ErrModelUnavailable)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrModelUnavailable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", entity.ErrModelUnavailable, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", entity.ErrModelUnavailable, path)
	}
	return nil
}

// resolveNames выбирает имена входа и выхода и сверяет формы с ожидаемыми
// (N, 224, 224, 3) и (N, 2).
func resolveNames(cfg Config, inputs, outputs []ort.InputOutputInfo) (string, string, error) {
	in, err := pickInfo(inputs, cfg.InputName, "input")
	if err != nil {
		return "", "", err
	}
	out, err := pickInfo(outputs, cfg.OutputName, "output")
	if err != nil {
		return "", "", err
	}

	want := []int64{entity.InputSize, entity.InputSize, entity.InputChannels}
	if !shapeMatches(in.Dimensions, want) {
		return "", "", fmt.Errorf("input %q has shape %v, expected (N, %d, %d, %d)",
			in.Name, in.Dimensions, entity.InputSize, entity.InputSize, entity.InputChannels)
	}
	if !shapeMatches(out.Dimensions, []int64{entity.NumClasses}) {
		return "", "", fmt.Errorf("output %q has shape %v, expected (N, %d)", out.Name, out.Dimensions, entity.NumClasses)
	}

	return in.Name, out.Name, nil
}

func pickInfo(infos []ort.InputOutputInfo, name, kind string) (ort.InputOutputInfo, error) {
	if len(infos) == 0 {
		return ort.InputOutputInfo{}, fmt.Errorf("model has no %ss", kind)
	}
	if name == "" {
		return infos[0], nil
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return ort.InputOutputInfo{}, fmt.Errorf("model has no %s named %q", kind, name)
}

// shapeMatches сравнивает хвост формы; отрицательная размерность совпадает с любой.
func shapeMatches(dims ort.Shape, tail []int64) bool {
	if len(dims) != len(tail)+1 {
		return false
	}
	for i, want := range tail {
		got := dims[i+1]
		if got >= 0 && got != want {
			return false
		}
	}
	return true
}

func scoresFromOutput(data []float32) entity.ScoreVector {
	scores := make(entity.ScoreVector, len(data))
	for i, v := range data {
		scores[i] = float64(v)
	}
	return scores
}

// Проверка реализации интерфейса
var _ port.Classifier = (*Classifier)(nil)
