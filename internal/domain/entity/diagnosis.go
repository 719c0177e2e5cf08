package entity

import (
	"time"
)

// Label: класс снимка. Порядок совпадает с выходом модели.
type Label int

const (
	LabelNormal    Label = iota // 0
	LabelPneumonia              // 1
)

// NumClasses: число классов модели.
const NumClasses = 2

// String возвращает отображаемое имя класса.
func (l Label) String() string {
	switch l {
	case LabelNormal:
		return "Normal"
	case LabelPneumonia:
		return "Pneumonia"
	default:
		return "Unknown"
	}
}

// Labels возвращает классы в порядке выхода модели.
func Labels() []Label {
	return []Label{LabelNormal, LabelPneumonia}
}

// ScoreVector: softmax-выход модели над {Normal, Pneumonia}.
type ScoreVector []float64

// ClassificationResult: итог интерпретации выхода модели.
type ClassificationResult struct {
	Label             Label
	ConfidencePercent float64     // 100 × Probabilities[Label], 2 знака
	Probabilities     ScoreVector // копия выхода модели
}

// ExplanationResult: текстовое пояснение от внешней модели.
// При сбое Text содержит сообщение об ошибке, а Succeeded = false.
type ExplanationResult struct {
	Text      string
	Succeeded bool
}

// DiagnosticReport: единственный результат одного запроса.
type DiagnosticReport struct {
	ID             string
	CreatedAt      time.Time
	Classification ClassificationResult
	Explanation    ExplanationResult
}

// Disclaimer выводится вместе с каждым отчётом.
const Disclaimer = "This result is not a medical diagnosis. Please consult a doctor."
