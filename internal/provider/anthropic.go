package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic is a Provider backed by the Anthropic Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropic creates an Anthropic provider from config.
func NewAnthropic(config *Config) *Anthropic {
	return &Anthropic{
		client:    anthropic.NewClient(option.WithAPIKey(config.APIKey)),
		model:     anthropic.Model(config.Model),
		maxTokens: config.MaxTokens,
	}
}

// Generate sends the prompt as a single user message and returns the
// concatenated text blocks of the response.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", wrapAPIError(err)
	}

	var out strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}

// apiError carries the upstream HTTP status so retry classification can
// distinguish transient failures from permanent ones.
type apiError struct {
	status int
	err    error
}

func (e *apiError) Error() string {
	return fmt.Sprintf("anthropic api: %v", e.err)
}

func (e *apiError) Unwrap() error {
	return e.err
}

func (e *apiError) StatusCode() int {
	return e.status
}

func wrapAPIError(err error) error {
	var upstream *anthropic.Error
	if errors.As(err, &upstream) {
		return &apiError{status: upstream.StatusCode, err: err}
	}
	return fmt.Errorf("anthropic api: %w", err)
}
