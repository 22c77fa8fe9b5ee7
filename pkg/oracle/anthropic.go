package oracle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/stefanpenner/unfold/pkg/store"
)

// Anthropic is an Oracle backed by the Messages API.
type Anthropic struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	log       *slog.Logger
}

// NewAnthropic creates the adapter. SDK retries are disabled.
func NewAnthropic(cfg Config, log *slog.Logger) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Anthropic{
		client:    &client,
		model:     model,
		maxTokens: int64(maxTokens),
		log:       log,
	}
}

// ProposeGoal implements Oracle.
func (a *Anthropic) ProposeGoal(ctx context.Context, intention string, profile store.Profile) (store.Proposal, error) {
	text, err := a.complete(ctx, SystemPrompt(profile), GoalPrompt(intention, profile))
	if err != nil {
		return store.Proposal{}, err
	}
	p, err := DecodeProposal(text)
	if err != nil {
		a.log.Warn("could not decode goal proposal", "error", err, "response", text)
		return store.Proposal{}, err
	}
	return p, nil
}

// ProposeReflection implements Oracle.
func (a *Anthropic) ProposeReflection(ctx context.Context, goals []store.Goal, profile store.Profile) (string, error) {
	text, err := a.complete(ctx, SystemPrompt(profile), ReflectionPrompt(goals, profile))
	if err != nil {
		return "", err
	}
	return ReflectionText(text), nil
}

func (a *Anthropic) complete(ctx context.Context, system, prompt string) (string, error) {
	a.log.Debug("anthropic request", "model", a.model, "prompt_bytes", len(prompt))

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	a.log.Debug("anthropic response", "model", a.model, "output_tokens", resp.Usage.OutputTokens)
	return text.String(), nil
}
