// Package workflow composes the toolkit, store, content generator,
// scoring engine, safety layer, and mutation gateway into the five
// typed pipeline steps the automation loops and the tool surface call:
// discover, draft, queue, publish/publish_thread, thread_plan, and the
// orchestrate entry point that chains the first three.
package workflow

import (
	"github.com/sirupsen/logrus"

	"github.com/tuitbot/tuitbot/internal/config"
	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/gateway"
	"github.com/tuitbot/tuitbot/pkg/store"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

// Workflow holds everything a pipeline step needs: the API client, the
// store, a content generator, the mutation gateway, and the scoring
// and safety configuration.
type Workflow struct {
	api       toolkit.SocialApiClient
	store     *store.Store
	generator *content.Generator
	gateway   *gateway.Gateway
	profile   content.BusinessProfile
	scoring   config.ScoringConfig
	limits    config.LimitsConfig
	logger    *logrus.Logger
}

// New wires a Workflow from its dependencies.
func New(api toolkit.SocialApiClient, st *store.Store, generator *content.Generator, gw *gateway.Gateway, profile content.BusinessProfile, cfg config.Config, logger *logrus.Logger) *Workflow {
	return &Workflow{
		api:       api,
		store:     st,
		generator: generator,
		gateway:   gw,
		profile:   profile,
		scoring:   cfg.Scoring,
		limits:    cfg.Limits,
		logger:    logger,
	}
}
