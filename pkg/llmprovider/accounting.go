package llmprovider

import "sync"

// Accountant accumulates token usage and estimated cost across calls,
// the way a long-running loop tallies spend per billing period.
type Accountant struct {
	mu          sync.Mutex
	provider    string
	totalUsage  Usage
	totalCostUS float64
}

// NewAccountant starts a fresh ledger for provider.
func NewAccountant(provider string) *Accountant {
	return &Accountant{provider: provider}
}

// Record adds one completion's usage and cost to the running totals.
func (a *Accountant) Record(model string, usage Usage) {
	cost := EstimateCostUSD(a.provider, model, usage)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalUsage.PromptTokens += usage.PromptTokens
	a.totalUsage.CompletionTokens += usage.CompletionTokens
	a.totalUsage.TotalTokens += usage.TotalTokens
	a.totalCostUS += cost
}

// Totals returns the accumulated usage and estimated USD cost so far.
func (a *Accountant) Totals() (Usage, float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalUsage, a.totalCostUS
}
