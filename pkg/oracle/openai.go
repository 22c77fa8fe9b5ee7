package oracle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/stefanpenner/unfold/pkg/store"
)

// OpenAI is an Oracle backed by any OpenAI-compatible chat completions API.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
	log       *slog.Logger
}

// NewOpenAI creates the adapter.
func NewOpenAI(cfg Config, log *slog.Logger) *OpenAI {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &OpenAI{
		client:    openai.NewClientWithConfig(config),
		model:     model,
		maxTokens: maxTokens,
		log:       log,
	}
}

// ProposeGoal implements Oracle.
func (o *OpenAI) ProposeGoal(ctx context.Context, intention string, profile store.Profile) (store.Proposal, error) {
	text, err := o.complete(ctx, SystemPrompt(profile), GoalPrompt(intention, profile), true)
	if err != nil {
		return store.Proposal{}, err
	}
	p, err := DecodeProposal(text)
	if err != nil {
		o.log.Warn("could not decode goal proposal", "error", err, "response", text)
		return store.Proposal{}, err
	}
	return p, nil
}

// ProposeReflection implements Oracle.
func (o *OpenAI) ProposeReflection(ctx context.Context, goals []store.Goal, profile store.Profile) (string, error) {
	text, err := o.complete(ctx, SystemPrompt(profile), ReflectionPrompt(goals, profile), false)
	if err != nil {
		return "", err
	}
	return ReflectionText(text), nil
}

func (o *OpenAI) complete(ctx context.Context, system, prompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	o.log.Debug("openai request", "model", o.model, "prompt_bytes", len(prompt))
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformed)
	}
	return resp.Choices[0].Message.Content, nil
}
