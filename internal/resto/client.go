package resto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"olap_report/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Timeouts are applied per call class.
type Timeouts struct {
	Auth       time.Duration
	Dictionary time.Duration
	Writeoff   time.Duration
	Report     time.Duration
}

type Client struct {
	http     *resty.Client
	timeouts Timeouts
	logger   *zap.Logger
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	return &Client{
		http: httpClient,
		timeouts: Timeouts{
			Auth:       cfg.AuthTimeout,
			Dictionary: cfg.DictionaryTimeout,
			Writeoff:   cfg.WriteoffTimeout,
			Report:     cfg.ReportTimeout,
		},
		logger: logger.Named("resto"),
	}
}

// Session is the credential established by Authenticate.
type Session struct {
	BaseURL string
	Key     string
}

func (s Session) Valid() bool {
	return s.BaseURL != "" && s.Key != ""
}

func (s Session) url(path string) string {
	return s.BaseURL + path
}

func (s Session) query(extra map[string]string) map[string]string {
	params := map[string]string{"key": s.Key}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

func (c *Client) doGet(ctx context.Context, timeout time.Duration, url string, query map[string]string) (*resty.Response, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("resto request: %w", err)
	}
	if resp.IsError() {
		return resp, apiErrorFromResponse(resp)
	}
	return resp, nil
}

func (c *Client) doPost(ctx context.Context, timeout time.Duration, url string, query map[string]string, body any) (*resty.Response, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Post(url)
	if err != nil {
		return nil, fmt.Errorf("resto request: %w", err)
	}
	if resp.IsError() {
		return resp, apiErrorFromResponse(resp)
	}
	return resp, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// decodeBody decodes a JSON body keeping numbers as json.Number.
func decodeBody(raw []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func normalizeBaseURL(server string) string {
	return strings.TrimRight(strings.TrimSpace(server), "/")
}
