package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"pneumo-bot/internal/domain/entity"
)

func reportWith(t *testing.T, probs entity.ScoreVector, explanation entity.ExplanationResult) *entity.DiagnosticReport {
	t.Helper()
	res, err := entity.Interpret(probs)
	require.NoError(t, err)
	return &entity.DiagnosticReport{ID: "r", Classification: res, Explanation: explanation}
}

func TestFormatReport_Pneumonia(t *testing.T) {
	report := reportWith(t, entity.ScoreVector{0.12, 0.88},
		entity.ExplanationResult{Text: "Right lower lobe consolidation.", Succeeded: true})

	text := FormatReport(report)
	require.Contains(t, text, "Классификация: ⚠️ Pneumonia")
	require.Contains(t, text, "Уверенность: 88.00%")
	require.Contains(t, text, "✅ Normal: 0.1200")
	require.Contains(t, text, "⚠️ Pneumonia: 0.8800")
	require.Contains(t, text, "📝 Пояснение ИИ\nRight lower lobe consolidation.")
	require.True(t, strings.HasSuffix(text, msgDisclaimer))
}

func TestFormatReport_ExplanationUnavailable(t *testing.T) {
	report := reportWith(t, entity.ScoreVector{0.97, 0.03},
		entity.ExplanationResult{Text: "Explanation unavailable: http 500"})

	text := FormatReport(report)
	require.Contains(t, text, "Классификация: ✅ Normal")
	require.Contains(t, text, "Уверенность: 97.00%")
	require.Contains(t, text, "📝 Пояснение недоступно\nExplanation unavailable: http 500")
}

func TestFormatReport_FitsTelegramLimit(t *testing.T) {
	long := strings.Repeat("опacity ", 2000)
	report := reportWith(t, entity.ScoreVector{0.5, 0.5},
		entity.ExplanationResult{Text: long, Succeeded: true})

	text := FormatReport(report)
	require.LessOrEqual(t, utf8.RuneCountInString(text), maxMessageLen)
	require.Contains(t, text, "…")
	require.True(t, strings.HasSuffix(text, msgDisclaimer))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 3))
	require.Equal(t, "ab…", truncate("abcd", 3))
	require.Equal(t, "…", truncate("abcd", 1))
	require.Equal(t, "", truncate("abcd", 0))
}

func TestImageFileID(t *testing.T) {
	msg := &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}}
	id, ok := imageFileID(msg)
	require.True(t, ok)
	require.Equal(t, "large", id)

	msg = &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", MimeType: "image/png"}}
	id, ok = imageFileID(msg)
	require.True(t, ok)
	require.Equal(t, "doc", id)

	msg = &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "pdf", MimeType: "application/pdf"}}
	_, ok = imageFileID(msg)
	require.False(t, ok)

	_, ok = imageFileID(&tgbotapi.Message{Text: "hi"})
	require.False(t, ok)
}
