// Package oracle talks to the language model that classifies intentions and
// writes reflections. Its answers are untrusted: callers get a Proposal whose
// fields may all be empty, never a half-built Goal.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/stefanpenner/unfold/pkg/store"
)

// Oracle is the gateway to the external model. Calls are never retried.
type Oracle interface {
	// ProposeGoal classifies an intention and breaks it into milestones.
	ProposeGoal(ctx context.Context, intention string, profile store.Profile) (store.Proposal, error)

	// ProposeReflection writes a short prose reflection on the goal collection.
	ProposeReflection(ctx context.Context, goals []store.Goal, profile store.Profile) (string, error)
}

// Supported providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderNone      = "none"
)

// Default models per provider.
const (
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultOpenAIModel    = "gpt-4o-mini"
)

const defaultMaxTokens = 2048

// ErrUnavailable is returned by every call on an Unavailable oracle.
var ErrUnavailable = errors.New("oracle unavailable")

// Config selects and configures an adapter.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

// New builds the adapter named by cfg.Provider. A missing API key is not an
// error: the app keeps working offline with an Unavailable oracle.
func New(cfg Config, log *slog.Logger) (Oracle, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", ProviderAnthropic, ProviderOpenAI:
	case ProviderNone:
		return Unavailable{Reason: "disabled in config"}, nil
	default:
		return nil, fmt.Errorf("unknown oracle provider: %s", cfg.Provider)
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Info("no API key configured, oracle disabled", "provider", provider)
		return Unavailable{Reason: "no API key configured"}, nil
	}

	if provider == ProviderOpenAI {
		return NewOpenAI(cfg, log), nil
	}
	return NewAnthropic(cfg, log), nil
}

// Unavailable is the oracle used when no model is reachable.
type Unavailable struct {
	Reason string
}

// ProposeGoal implements Oracle.
func (u Unavailable) ProposeGoal(context.Context, string, store.Profile) (store.Proposal, error) {
	return store.Proposal{}, u.err()
}

// ProposeReflection implements Oracle.
func (u Unavailable) ProposeReflection(context.Context, []store.Goal, store.Profile) (string, error) {
	return "", u.err()
}

func (u Unavailable) err() error {
	if u.Reason == "" {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, u.Reason)
}
