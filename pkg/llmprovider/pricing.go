package llmprovider

import "strings"

// priceEntry holds USD-per-million-token pricing.
type priceEntry struct {
	PromptPerMillion     float64
	CompletionPerMillion float64
}

// pricingTable is keyed by provider name, then by a model-name prefix
// (the longest matching prefix wins). Unknown models and local
// inference (Ollama carries no entry) attribute zero cost.
var pricingTable = map[string][]struct {
	Prefix string
	Price  priceEntry
}{
	"openai": {
		{Prefix: "gpt-4o-mini", Price: priceEntry{PromptPerMillion: 0.15, CompletionPerMillion: 0.60}},
		{Prefix: "gpt-4o", Price: priceEntry{PromptPerMillion: 2.50, CompletionPerMillion: 10.00}},
		{Prefix: "gpt-4", Price: priceEntry{PromptPerMillion: 30.00, CompletionPerMillion: 60.00}},
		{Prefix: "gpt-3.5", Price: priceEntry{PromptPerMillion: 0.50, CompletionPerMillion: 1.50}},
	},
	"anthropic": {
		{Prefix: "claude-3-5-sonnet", Price: priceEntry{PromptPerMillion: 3.00, CompletionPerMillion: 15.00}},
		{Prefix: "claude-3-5-haiku", Price: priceEntry{PromptPerMillion: 0.80, CompletionPerMillion: 4.00}},
		{Prefix: "claude-3-opus", Price: priceEntry{PromptPerMillion: 15.00, CompletionPerMillion: 75.00}},
	},
}

// EstimateCostUSD looks up the longest matching model-prefix for
// provider and returns the dollar cost of usage, or 0 for an unknown
// provider/model (including any local Ollama deployment, which never
// appears in the table).
func EstimateCostUSD(provider, model string, usage Usage) float64 {
	entries, ok := pricingTable[provider]
	if !ok {
		return 0
	}

	var best priceEntry
	bestLen := -1
	for _, e := range entries {
		if strings.HasPrefix(model, e.Prefix) && len(e.Prefix) > bestLen {
			best = e.Price
			bestLen = len(e.Prefix)
		}
	}
	if bestLen < 0 {
		return 0
	}

	promptCost := float64(usage.PromptTokens) / 1_000_000 * best.PromptPerMillion
	completionCost := float64(usage.CompletionTokens) / 1_000_000 * best.CompletionPerMillion
	return promptCost + completionCost
}
