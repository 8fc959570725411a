package llmprovider

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAICompatConfig configures a backend speaking the OpenAI
// chat-completions schema. Setting BaseURL to a local Ollama endpoint
// reuses this same struct and client, since the two share a request
// shape.
type OpenAICompatConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	DefaultTemp   float64
	DefaultMaxTok int
	Logger        *logrus.Logger
	ProviderLabel string // "openai" or "ollama", surfaced by Name()
}

func (c *OpenAICompatConfig) withDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
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
	if c.ProviderLabel == "" {
		c.ProviderLabel = "openai"
	}
}

// OpenAICompatProvider implements Provider against any OpenAI-schema
// chat-completions endpoint.
type OpenAICompatProvider struct {
	cfg *OpenAICompatConfig
	llm llms.Model
}

// NewOpenAICompatProvider builds a provider; it returns a
// ProviderError{NotConfigured} if no API key is set and no BaseURL
// override is given (local endpoints often need no key).
func NewOpenAICompatProvider(cfg OpenAICompatConfig) (*OpenAICompatProvider, error) {
	cfg.withDefaults()
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, &ProviderError{Kind: ErrNotConfigured, Message: "missing API key"}
	}

	opts := []openai.Option{openai.WithModel(cfg.Model)}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, &ProviderError{Kind: ErrNotConfigured, Message: "build openai client", Wrapped: err}
	}

	return &OpenAICompatProvider{cfg: &cfg, llm: model}, nil
}

func (p *OpenAICompatProvider) Name() string { return p.cfg.ProviderLabel }

// Complete sends system+user as a two-message chat completion.
func (p *OpenAICompatProvider) Complete(ctx context.Context, system, user string, params CompleteParams) (Response, error) {
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
func (p *OpenAICompatProvider) HealthCheck(ctx context.Context) error {
	_, err := p.Complete(ctx, "healthcheck", "reply with the single word ok", CompleteParams{MaxTokens: 5})
	return err
}

func usageFromGenerationInfo(info map[string]interface{}) Usage {
	get := func(key string) int {
		v, ok := info[key]
		if !ok {
			return 0
		}
		if n, ok := v.(int); ok {
			return n
		}
		return 0
	}
	return Usage{
		PromptTokens:     get("PromptTokens"),
		CompletionTokens: get("CompletionTokens"),
		TotalTokens:      get("TotalTokens"),
	}
}

func classifyError(err error) *ProviderError {
	return &ProviderError{Kind: ErrHTTPError, Message: "completion request failed", Wrapped: err}
}
