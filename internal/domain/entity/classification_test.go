package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterpret_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		scores     ScoreVector
		label      Label
		confidence float64
	}{
		{name: "confident normal", scores: ScoreVector{0.97, 0.03}, label: LabelNormal, confidence: 97.00},
		{name: "tie goes to normal", scores: ScoreVector{0.5, 0.5}, label: LabelNormal, confidence: 50.00},
		{name: "pneumonia", scores: ScoreVector{0.12, 0.88}, label: LabelPneumonia, confidence: 88.00},
		{name: "rounded to two places", scores: ScoreVector{0.123456, 0.876544}, label: LabelPneumonia, confidence: 87.65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Interpret(tt.scores)
			require.NoError(t, err)
			require.Equal(t, tt.label, res.Label)
			require.InDelta(t, tt.confidence, res.ConfidencePercent, 1e-9)
			require.Equal(t, tt.scores, res.Probabilities)
		})
	}
}

func TestInterpret_ConfidenceMatchesMaxScore(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		p := float64(i) / 1000
		scores := ScoreVector{p, 1 - p}

		res, err := Interpret(scores)
		require.NoError(t, err)

		want := Label(0)
		if scores[1] > scores[0] {
			want = 1
		}
		require.Equal(t, want, res.Label)
		require.Equal(t, math.Round(100*scores[want]*100)/100, res.ConfidencePercent)
		require.GreaterOrEqual(t, res.ConfidencePercent, 0.0)
		require.LessOrEqual(t, res.ConfidencePercent, 100.0)
	}
}

func TestInterpret_AcceptsSumWithinTolerance(t *testing.T) {
	_, err := Interpret(ScoreVector{0.6, 0.3995})
	require.NoError(t, err)
}

func TestInterpret_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		scores ScoreVector
	}{
		{name: "empty", scores: nil},
		{name: "one class", scores: ScoreVector{1}},
		{name: "three classes", scores: ScoreVector{0.2, 0.3, 0.5}},
		{name: "sum too low", scores: ScoreVector{0.4, 0.4}},
		{name: "sum too high", scores: ScoreVector{0.9, 0.2}},
		{name: "nan", scores: ScoreVector{math.NaN(), 1}},
		{name: "negative", scores: ScoreVector{-0.5, 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Interpret(tt.scores)
			require.ErrorIs(t, err, ErrMalformedScore)
		})
	}
}

func TestInterpret_CopiesProbabilities(t *testing.T) {
	scores := ScoreVector{0.2, 0.8}
	res, err := Interpret(scores)
	require.NoError(t, err)

	scores[0] = 0.9
	require.Equal(t, 0.2, res.Probability(LabelNormal))
	require.Equal(t, 0.8, res.Probability(LabelPneumonia))
	require.Equal(t, 0.0, res.Probability(Label(5)))
}

func TestLabel_String(t *testing.T) {
	require.Equal(t, "Normal", LabelNormal.String())
	require.Equal(t, "Pneumonia", LabelPneumonia.String())
	require.Equal(t, "Unknown", Label(7).String())
	require.Equal(t, []Label{LabelNormal, LabelPneumonia}, Labels())
}

func TestTensor_Layout(t *testing.T) {
	tensor := NewTensor()
	require.Equal(t, [4]int64{1, 224, 224, 3}, tensor.Shape)
	require.Equal(t, 224*224*3, tensor.Len())
	require.Len(t, tensor.Data, tensor.Len())

	tensor.Set(5, 7, 2, 0.25)
	require.Equal(t, float32(0.25), tensor.At(5, 7, 2))
	require.Equal(t, float32(0.25), tensor.Data[(7*224+5)*3+2])
}
