package llmprovider

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

// AnthropicConfig configures the Anthropic Messages backend.
type AnthropicConfig struct {
	APIKey        string
	Model         string
	DefaultTemp   float64
	DefaultMaxTok int
	Logger        *logrus.Logger
}

func (c *AnthropicConfig) withDefaults() {
	if c.Model == "" {
		c.Model = "claude-3-5-sonnet-20241022"
	}
	if c.DefaultTemp == 0 {
		c.DefaultTemp = 0.7
	}
	if c.DefaultMaxTok == 0 {
		c.DefaultMaxTok = 1000
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
}

// AnthropicProvider implements Provider against the Anthropic Messages API.
type AnthropicProvider struct {
	cfg *AnthropicConfig
	llm llms.Model
}

// NewAnthropicProvider builds a provider; returns ProviderError{NotConfigured}
// if no API key is set.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	cfg.withDefaults()
	if cfg.APIKey == "" {
		return nil, &ProviderError{Kind: ErrNotConfigured, Message: "missing API key"}
	}

	model, err := anthropic.New(anthropic.WithToken(cfg.APIKey), anthropic.WithModel(cfg.Model))
	if err != nil {
		return nil, &ProviderError{Kind: ErrNotConfigured, Message: "build anthropic client", Wrapped: err}
	}

	return &AnthropicProvider{cfg: &cfg, llm: model}, nil
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

// Complete sends system+user as an Anthropic Messages request.
func (p *AnthropicProvider) Complete(ctx context.Context, system, user string, params CompleteParams) (Response, error) {
	model := params.Model
	if model == "" {
		model = p.cfg.Model
	}
	temp := params.Temperature
	if temp == 0 {
		temp = p.cfg.DefaultTemp
	}
	maxTok := params.MaxTokens
	if maxTok == 0 {
		maxTok = p.cfg.DefaultMaxTok
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	p.cfg.Logger.WithFields(logrus.Fields{
		"provider": p.Name(),
		"model":    model,
	}).Debug("llmprovider: completion request")

	resp, err := p.llm.GenerateContent(ctx, messages,
		llms.WithModel(model),
		llms.WithTemperature(temp),
		llms.WithMaxTokens(maxTok),
	)
	if err != nil {
		return Response{}, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, &ProviderError{Kind: ErrInvalidResponse, Message: "no choices returned"}
	}

	choice := resp.Choices[0]
	return Response{
		Text:  choice.Content,
		Model: model,
		Usage: usageFromGenerationInfo(choice.GenerationInfo),
	}, nil
}

// HealthCheck issues a minimal completion to confirm credentials and
// connectivity are sound.
func (p *AnthropicProvider) HealthCheck(ctx context.Context) error {
	_, err := p.Complete(ctx, "healthcheck", "reply with the single word ok", CompleteParams{MaxTokens: 5})
	return err
}
