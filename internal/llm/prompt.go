package llm

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const summaryPrompt = `Ты аналитик ресторана. Тебе передают отчет из OLAP-системы в формате TSV:
первая строка содержит заголовки, строка "Итого:" содержит итоговые значения.
Кратко (3-5 предложений) опиши главное: общие итоги, заметные лидеры и провалы, аномалии.
Не пересказывай таблицу построчно и не придумывай данные, которых нет в отчете.
Отвечай на русском языке простым текстом без markdown.`

const maxReportBytes = 48 << 10

func summaryRequest(reportName, period, tsv string) string {
	if len(tsv) > maxReportBytes {
		tsv = truncateLines(tsv, maxReportBytes)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Отчет: %s\n", reportName)
	if period != "" {
		fmt.Fprintf(&sb, "Период: %s\n", period)
	}
	sb.WriteString("\n")
	sb.WriteString(tsv)
	return sb.String()
}

// truncateLines cuts text to at most limit bytes on a line boundary,
// or on a rune boundary when the first line alone is too long.
func truncateLines(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := strings.LastIndexByte(text[:limit], '\n')
	if cut <= 0 {
		cut = limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
	}
	return text[:cut] + "\n(отчет обрезан)\n"
}
