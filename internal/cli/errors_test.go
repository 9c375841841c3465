package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"olap_report/internal/llm"
	"olap_report/internal/reporting"
	"olap_report/internal/resto"
	"olap_report/internal/settings"

	"github.com/stretchr/testify/assert"
)

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not authorized", reporting.ErrNotAuthorized, "Сначала выполните вход."},
		{
			"wrong credentials",
			&resto.AuthError{Server: "http://x", Err: fmt.Errorf("%w: 401", resto.ErrUnauthorized)},
			"Неверный логин или пароль.",
		},
		{
			"empty server",
			&resto.AuthError{Err: resto.ErrEmptyServer},
			"Укажите адрес сервера (-server или SERVER_URL).",
		},
		{
			"unreachable",
			&resto.AuthError{Server: "http://x", Err: errors.New("connection refused")},
			"Не удалось подключиться к http://x: connection refused",
		},
		{
			"expired session",
			&resto.FetchError{Report: resto.ReportGuests, StatusCode: 401, Err: fmt.Errorf("%w: 401", resto.ErrUnauthorized)},
			"Нет доступа: сессия недействительна, выполните вход заново.",
		},
		{
			"fetch failure",
			&resto.FetchError{Report: resto.ReportGuests, StatusCode: 500, Err: errors.New("boom")},
			"Ошибка получения отчета (HTTP 500): boom",
		},
		{
			"wrapped fetch failure without status",
			fmt.Errorf("report: %w", &resto.FetchError{Report: resto.ReportHourly, Err: errors.New("bad body")}),
			"Ошибка получения отчета: bad body",
		},
		{"timeout", fmt.Errorf("request: %w", context.DeadlineExceeded), "Сервер не ответил вовремя. Попробуйте позже."},
		{"llm", llm.ErrNotConfigured, "Сводка недоступна: не заданы LLM_MODEL и LLM_API_KEY."},
		{"settings", settings.ErrNotFound, "Конфиг не найден"},
		{"invalid", fmt.Errorf("%w: Login (required)", reporting.ErrInvalidInput), "Проверьте параметры: Login (required)"},
		{"other", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, friendlyError(tt.err))
		})
	}
}

func TestFriendlyErrorUnknownReport(t *testing.T) {
	_, err := resto.ParseReportType("sales")
	assert.Contains(t, friendlyError(err), "guests, waiters, hourly, stores, writeoffs")
}
