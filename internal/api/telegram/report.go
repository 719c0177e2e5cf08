package telegram

import (
	"fmt"
	"strings"

	"pneumo-bot/internal/domain/entity"
)

// FormatReport собирает текст ответа: результат, пояснение, вероятности
func FormatReport(report *entity.DiagnosticReport) string {
	c := report.Classification

	var sb strings.Builder
	sb.WriteString("📊 Результат\n")
	fmt.Fprintf(&sb, "Классификация: %s %s\n", labelIcon(c.Label), c.Label)
	fmt.Fprintf(&sb, "Уверенность: %.2f%%\n\n", c.ConfidencePercent)

	sb.WriteString("📌 Вероятности\n")
	for _, l := range entity.Labels() {
		fmt.Fprintf(&sb, "%s %s: %.4f\n", labelIcon(l), l, c.Probability(l))
	}
	sb.WriteString("\n")

	footer := "\n\n" + msgDisclaimer

	var head string
	if report.Explanation.Succeeded {
		head = "📝 Пояснение ИИ\n"
	} else {
		head = "📝 Пояснение недоступно\n"
	}
	sb.WriteString(head)

	room := maxMessageLen - runeLen(sb.String()) - runeLen(footer)
	sb.WriteString(truncate(report.Explanation.Text, room))
	sb.WriteString(footer)

	return sb.String()
}

func labelIcon(l entity.Label) string {
	if l == entity.LabelPneumonia {
		return "⚠️"
	}
	return "✅"
}

func runeLen(s string) int {
	return len([]rune(s))
}

// truncate обрезает текст до limit рун с многоточием
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}
