package masa

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Config is the fallback scrape endpoint's settings, sourced from the
// environment: MASA_BASE_URL and MASA_API_KEY. An empty BaseURL means
// no fallback is configured, which ConfigFromEnv reports rather than treating
// as an error — the fallback path is optional.
type Config struct {
	BaseURL string
	APIKey  string
}

// ConfigFromEnv reads MASA_BASE_URL/MASA_API_KEY. ok is false when no
// fallback endpoint is configured.
func ConfigFromEnv() (cfg Config, ok bool) {
	cfg.BaseURL = os.Getenv("MASA_BASE_URL")
	cfg.APIKey = os.Getenv("MASA_API_KEY")
	return cfg, cfg.BaseURL != ""
}

// NewScraperFromEnv wires a Client and Scraper from the environment,
// logging through logger. Returns (nil, false) when no fallback
// endpoint is configured.
func NewScraperFromEnv(logger *logrus.Logger) (*Scraper, bool) {
	cfg, ok := ConfigFromEnv()
	if !ok {
		return nil, false
	}
	logger.WithField("base_url", cfg.BaseURL).Info("masa: fallback scrape endpoint configured")
	return NewScraper(NewClient(cfg.BaseURL, cfg.APIKey), logger), true
}
