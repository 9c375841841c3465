package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"olap_report/internal/config"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("llm is not configured")
	ErrEmptyResponse = errors.New("llm returned empty response")
)

type Client struct {
	client  *openrouter.Client
	model   string
	logger  *zap.Logger
	enabled bool
}

func NewClient(cfg config.Config, logger *zap.Logger) (*Client, error) {
	logger = logger.Named("llm")
	model := strings.TrimSpace(cfg.LLMModel)
	apiKey := strings.TrimSpace(cfg.LLMAPIKey)

	if model == "" || apiKey == "" {
		logger.Debug("LLM config is incomplete; report summaries are disabled",
			zap.Bool("has_model", model != ""),
			zap.Bool("has_api_key", apiKey != ""),
		)
		return &Client{
			model:  model,
			logger: logger,
		}, nil
	}

	cfgClient := openrouter.DefaultConfig(apiKey)
	if strings.TrimSpace(cfg.LLMBaseURL) != "" {
		cfgClient.BaseURL = strings.TrimSpace(cfg.LLMBaseURL)
	}
	cfgClient.HTTPClient = &http.Client{Timeout: cfg.LLMTimeout}

	return &Client{
		client:  openrouter.NewClientWithConfig(*cfgClient),
		model:   model,
		logger:  logger,
		enabled: true,
	}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Summarize asks the model for a short plain-language reading of a rendered report.
func (c *Client) Summarize(ctx context.Context, reportName, period, tsv string) (string, error) {
	if !c.Enabled() || c.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := c.chat(ctx, summaryPrompt, summaryRequest(reportName, period, tsv))
	if err != nil {
		return "", fmt.Errorf("summarize %q: %w", reportName, err)
	}
	c.logUsage(resp)

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content.Text)
	if answer == "" {
		return "", ErrEmptyResponse
	}
	return answer, nil
}

func (c *Client) chat(ctx context.Context, systemPrompt, userPrompt string) (openrouter.ChatCompletionResponse, error) {
	request := openrouter.ChatCompletionRequest{
		Model: c.model,
		Messages: []openrouter.ChatCompletionMessage{
			openrouter.SystemMessage(systemPrompt),
			openrouter.UserMessage(userPrompt),
		},
	}

	c.logger.Debug("llm request", zap.String("model", c.model), zap.Int("prompt_bytes", len(userPrompt)))
	return c.client.CreateChatCompletion(ctx, request)
}

func (c *Client) logUsage(resp openrouter.ChatCompletionResponse) {
	if resp.Usage == nil {
		return
	}
	c.logger.Info("llm usage",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Float64("cost", resp.Usage.Cost),
	)
}
