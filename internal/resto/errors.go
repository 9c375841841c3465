package resto

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	ErrUnauthorized      = errors.New("resto unauthorized")
	ErrUnknownReportType = errors.New("unknown report type")
	ErrEmptyServer       = errors.New("server url is required")
	ErrEmptySessionKey   = errors.New("server returned an empty session key")
	ErrNotAuthenticated  = errors.New("session is not established")
)

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("resto api error: %s", e.Status)
	}
	return fmt.Sprintf("resto api error: %s: %s", e.Status, e.Body)
}

// AuthError reports a failed login: empty server, unreachable server or a rejected credential.
type AuthError struct {
	Server string
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authenticate at %q: %v", e.Server, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError is returned when an aggregate report could not be fetched.
// Details holds the decoded backend error body when the server sent one.
type FetchError struct {
	Report     ReportType
	StatusCode int
	Details    any
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s report: %v", e.Report, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Message is the short error text shown to the user.
func (e *FetchError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func apiErrorFromResponse(resp *resty.Response) error {
	body := strings.TrimSpace(resp.String())
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       body,
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error())
	default:
		return apiErr
	}
}
