package onnx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	ort "github.com/yalue/onnxruntime_go"

	"pneumo-bot/internal/domain/entity"
)

func TestNewClassifier_MissingArtifact(t *testing.T) {
	_, err := NewClassifier(Config{ModelPath: filepath.Join(t.TempDir(), "missing.onnx")}, zerolog.Nop())
	require.ErrorIs(t, err, entity.ErrModelUnavailable)
}

func TestNewClassifier_EmptyPath(t *testing.T) {
	_, err := NewClassifier(Config{}, zerolog.Nop())
	require.ErrorIs(t, err, entity.ErrModelUnavailable)
}

func TestNewClassifier_DirectoryArtifact(t *testing.T) {
	_, err := NewClassifier(Config{ModelPath: t.TempDir()}, zerolog.Nop())
	require.ErrorIs(t, err, entity.ErrModelUnavailable)
}

func TestNewClassifier_EmptyArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := NewClassifier(Config{ModelPath: path}, zerolog.Nop())
	require.ErrorIs(t, err, entity.ErrModelUnavailable)
}

func TestResolveNames(t *testing.T) {
	inputs := []ort.InputOutputInfo{{Name: "input_1", Dimensions: ort.NewShape(-1, 224, 224, 3)}}
	outputs := []ort.InputOutputInfo{
		{Name: "dense_2", Dimensions: ort.NewShape(-1, 2)},
		{Name: "aux", Dimensions: ort.NewShape(-1, 2)},
	}

	in, out, err := resolveNames(Config{}, inputs, outputs)
	require.NoError(t, err)
	require.Equal(t, "input_1", in)
	require.Equal(t, "dense_2", out)

	_, out, err = resolveNames(Config{OutputName: "aux"}, inputs, outputs)
	require.NoError(t, err)
	require.Equal(t, "aux", out)

	_, _, err = resolveNames(Config{InputName: "pixels"}, inputs, outputs)
	require.Error(t, err)
}

func TestResolveNames_ShapeMismatch(t *testing.T) {
	outputs := []ort.InputOutputInfo{{Name: "out", Dimensions: ort.NewShape(-1, 2)}}

	// NCHW вместо NHWC
	_, _, err := resolveNames(Config{}, []ort.InputOutputInfo{{Name: "in", Dimensions: ort.NewShape(1, 3, 224, 224)}}, outputs)
	require.Error(t, err)

	inputs := []ort.InputOutputInfo{{Name: "in", Dimensions: ort.NewShape(1, 224, 224, 3)}}
	_, _, err = resolveNames(Config{}, inputs, []ort.InputOutputInfo{{Name: "out", Dimensions: ort.NewShape(1, 4)}})
	require.Error(t, err)

	_, _, err = resolveNames(Config{}, nil, outputs)
	require.Error(t, err)
}

func TestScoresFromOutput(t *testing.T) {
	scores := scoresFromOutput([]float32{0.25, 0.75})
	require.Equal(t, entity.ScoreVector{0.25, 0.75}, scores)
}

func TestClassifier_NotReadyWithoutSession(t *testing.T) {
	c := &Classifier{}
	require.False(t, c.Ready())

	_, err := c.Predict(context.Background(), entity.NewTensor())
	require.ErrorIs(t, err, entity.ErrModelUnavailable)
}
