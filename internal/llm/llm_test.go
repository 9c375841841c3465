package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"olap_report/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSummarizeDisabled(t *testing.T) {
	client, err := NewClient(config.Default(), zap.NewNop())
	require.NoError(t, err)

	assert.False(t, client.Enabled())
	_, err = client.Summarize(context.Background(), "Отчет", "", "a\tb\n")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		if !assert.NoError(t, err) {
			return
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content any    `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Contains(t, req.Messages[1].Content, "Почасовая выручка")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","model":"test-model","choices":[{"index":0,"message":{"role":"assistant","content":"  Выручка стабильна.  "}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.LLMBaseURL = srv.URL
	cfg.LLMAPIKey = "test-key"
	cfg.LLMModel = "test-model"
	cfg.LLMTimeout = 5 * time.Second

	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)
	require.True(t, client.Enabled())

	answer, err := client.Summarize(context.Background(), "Почасовая выручка", "2024-01-01 - 2024-01-02", "Час\tСумма\n9\t100\n")
	require.NoError(t, err)
	assert.Equal(t, "Выручка стабильна.", answer)
}

func TestSummaryRequestTruncates(t *testing.T) {
	tsv := strings.Repeat("строка\tзначение\n", maxReportBytes/10)
	req := summaryRequest("Отчет", "", tsv)

	assert.Less(t, len(req), maxReportBytes+200)
	assert.Contains(t, req, "(отчет обрезан)")
}

func TestTruncateLines(t *testing.T) {
	t.Run("line boundary", func(t *testing.T) {
		got := truncateLines("Итого\nАнна\nБорис\n", 20)
		assert.Equal(t, "Итого\nАнна\n(отчет обрезан)\n", got)
	})

	t.Run("single long line keeps runes whole", func(t *testing.T) {
		text := strings.Repeat("Я", 10)
		got := truncateLines(text, 7)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, "ЯЯЯ\n(отчет обрезан)\n", got)
	})

	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "a\tb\n", truncateLines("a\tb\n", 100))
	})
}
