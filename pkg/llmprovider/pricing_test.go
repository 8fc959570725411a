package llmprovider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuitbot/tuitbot/pkg/llmprovider"
)

func TestEstimateCostUSDKnownModel(t *testing.T) {
	cost := llmprovider.EstimateCostUSD("openai", "gpt-4o-mini", llmprovider.Usage{
		PromptTokens:     1_000_000,
		CompletionTokens: 1_000_000,
	})
	assert.InDelta(t, 0.75, cost, 0.0001)
}

func TestEstimateCostUSDUnknownProviderIsZero(t *testing.T) {
	cost := llmprovider.EstimateCostUSD("ollama", "llama3", llmprovider.Usage{PromptTokens: 1000})
	assert.Equal(t, 0.0, cost)
}

func TestEstimateCostUSDLongestPrefixWins(t *testing.T) {
	cost := llmprovider.EstimateCostUSD("openai", "gpt-4o-mini", llmprovider.Usage{PromptTokens: 1_000_000})
	costParent := llmprovider.EstimateCostUSD("openai", "gpt-4o", llmprovider.Usage{PromptTokens: 1_000_000})
	assert.NotEqual(t, cost, costParent)
}

func TestAccountantAccumulates(t *testing.T) {
	a := llmprovider.NewAccountant("openai")
	a.Record("gpt-4o-mini", llmprovider.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150})
	a.Record("gpt-4o-mini", llmprovider.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150})

	usage, cost := a.Totals()
	assert.Equal(t, 200, usage.PromptTokens)
	assert.Equal(t, 100, usage.CompletionTokens)
	assert.Greater(t, cost, 0.0)
}
