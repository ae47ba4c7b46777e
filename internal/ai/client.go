// Package ai writes short narrative insights for the reports page with an OpenAI-compatible chat completion API.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/reports"
	"github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the API answered without choices.
var ErrEmptyCompletion = errors.NewSentinel("empty completion")

// MaxTokens bounds the length of an insight.
const MaxTokens = 400

type Config struct {
	APIKey string
	// BaseURL overrides the API endpoint, e.g. for a self-hosted model. Empty uses the OpenAI default.
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient returns nil when no API key is configured. A nil *Client is valid and reports Enabled false.
func NewClient(cfg Config) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second //nolint:mnd // 20s
	}
	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
	}
}

// Enabled reports whether insights can be generated.
func (c *Client) Enabled() bool {
	return c != nil
}

// SummarizeReport writes a few sentences about the trends in summary.
func (c *Client) SummarizeReport(ctx context.Context, summary reports.Summary) (string, error) {
	if !c.Enabled() {
		return "", errors.New("insights are not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleSystem,
					Content: "You are an analyst for the Forest Rights Act programme. Describe the trends in the " +
						"figures you are given in at most three plain sentences. Do not invent numbers.",
				},
				{Role: openai.ChatMessageRoleUser, Content: Prompt(summary)},
			},
			Temperature: 0.2, //nolint:mnd // factual
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion", slog.String("model", c.model))
	}
	if len(completion.Choices) == 0 {
		return "", errors.Wrap(ErrEmptyCompletion, "create chat completion", slog.String("model", c.model))
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// Prompt renders summary as the user message.
func Prompt(summary reports.Summary) string {
	var b strings.Builder
	b.WriteString("Monthly beneficiaries:\n")
	for _, m := range summary.Timeseries {
		fmt.Fprintf(&b, "- %s: %d\n", m.Month, m.Beneficiaries)
	}
	b.WriteString("Claims by type:\n")
	for _, t := range summary.ByType {
		fmt.Fprintf(&b, "- %s: %g\n", t.Type, t.Value)
	}
	b.WriteString("Top districts:\n")
	for _, d := range summary.TopDistricts {
		fmt.Fprintf(&b, "- %s: %d\n", d.Name, d.Beneficiaries)
	}
	return b.String()
}
