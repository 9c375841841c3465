package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"olap_report/internal/llm"
	"olap_report/internal/reporting"
	"olap_report/internal/resto"
	"olap_report/internal/settings"
)

// userError carries the message shown to the user next to the underlying error.
type userError struct {
	message string
	err     error
}

func (e *userError) Error() string {
	return e.message
}

func (e *userError) Unwrap() error {
	return e.err
}

func friendlyError(err error) string {
	var authErr *resto.AuthError
	fetchErr, isFetchErr := resto.IsFetchError(err)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "Операция прервана."
	case errors.Is(err, context.DeadlineExceeded):
		return "Сервер не ответил вовремя. Попробуйте позже."
	case errors.Is(err, reporting.ErrNotAuthorized):
		return "Сначала выполните вход."
	case errors.Is(err, reporting.ErrInvalidInput):
		return "Проверьте параметры: " + strings.TrimPrefix(err.Error(), reporting.ErrInvalidInput.Error()+": ")
	case errors.As(err, &authErr):
		return friendlyAuthError(authErr)
	case errors.Is(err, resto.ErrUnauthorized):
		return "Нет доступа: сессия недействительна, выполните вход заново."
	case errors.Is(err, resto.ErrUnknownReportType):
		return "Неизвестный тип отчета. Доступны: " + reportTypeList() + "."
	case isFetchErr:
		if fetchErr.StatusCode != 0 {
			return fmt.Sprintf("Ошибка получения отчета (HTTP %d): %s", fetchErr.StatusCode, fetchErr.Message())
		}
		return "Ошибка получения отчета: " + fetchErr.Message()
	case errors.Is(err, llm.ErrNotConfigured):
		return "Сводка недоступна: не заданы LLM_MODEL и LLM_API_KEY."
	case errors.Is(err, settings.ErrNotFound):
		return "Конфиг не найден"
	default:
		return err.Error()
	}
}

func friendlyAuthError(err *resto.AuthError) string {
	switch {
	case errors.Is(err, resto.ErrEmptyServer):
		return "Укажите адрес сервера (-server или SERVER_URL)."
	case errors.Is(err, resto.ErrUnauthorized):
		return "Неверный логин или пароль."
	case errors.Is(err, resto.ErrEmptySessionKey):
		return "Сервер не выдал ключ сессии."
	default:
		return fmt.Sprintf("Не удалось подключиться к %s: %v", err.Server, err.Err)
	}
}

func reportTypeList() string {
	types := resto.ReportTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
