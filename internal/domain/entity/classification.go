package entity

import (
	"fmt"
	"math"
)

// scoreSumTolerance: допуск на сумму вероятностей.
const scoreSumTolerance = 1e-3

// Interpret превращает выход модели в метку, уверенность и распределение.
// При равенстве побеждает меньший индекс, то есть Normal.
func Interpret(scores ScoreVector) (ClassificationResult, error) {
	if len(scores) != NumClasses {
		return ClassificationResult{}, fmt.Errorf("%w: expected %d scores, got %d", ErrMalformedScore, NumClasses, len(scores))
	}

	var sum float64
	for i, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
			return ClassificationResult{}, fmt.Errorf("%w: score %d is %v", ErrMalformedScore, i, s)
		}
		sum += s
	}
	if math.Abs(sum-1) > scoreSumTolerance {
		return ClassificationResult{}, fmt.Errorf("%w: scores sum to %.6f", ErrMalformedScore, sum)
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	probs := make(ScoreVector, len(scores))
	copy(probs, scores)

	return ClassificationResult{
		Label:             Label(best),
		ConfidencePercent: roundTo(scores[best]*100, 2),
		Probabilities:     probs,
	}, nil
}

// Probability возвращает вероятность класса l.
func (r ClassificationResult) Probability(l Label) float64 {
	if int(l) < 0 || int(l) >= len(r.Probabilities) {
		return 0
	}
	return r.Probabilities[l]
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
