// Package runtime is the automation runtime: eight concurrent, jittered
// loops (discovery, mentions, content, thread, target, analytics,
// approval, cleanup) layered over pkg/workflow. Each loop paces itself
// with a LoopScheduler and trips a CircuitBreaker independent of the
// mutation gateway's own policy so a string of API failures quiets one
// loop without touching the others. Every loop except analytics and
// cleanup also checks in with a ScheduleGate before acting.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tuitbot/tuitbot/internal/config"
	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/store"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
	"github.com/tuitbot/tuitbot/pkg/workflow"
)

// minRestartBackoff and maxRestartBackoff bound how long the supervisor
// waits before restarting a loop that panicked or returned unexpectedly.
const (
	minRestartBackoff = time.Second
	maxRestartBackoff = 5 * time.Minute
)

// Runtime owns the eight automation loops and the shared scheduling
// infrastructure they're built from.
type Runtime struct {
	wf      *workflow.Workflow
	api     toolkit.SocialApiClient
	store   *store.Store
	cfg     config.Config
	profile content.BusinessProfile
	logger  *logrus.Logger

	selfUserID   string
	selfUsername string

	events  *eventBus
	breaker *CircuitBreaker
	gate    *ScheduleGate

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New wires a Runtime from its dependencies. selfUserID and selfUsername
// identify the authenticating account; they drive GetMentions and the
// analytics loop's follower snapshot and don't belong in internal/config
// (not domain policy) or toolkit.HTTPSocialClientConfig (credential
// layer, not available to every SocialApiClient implementation).
func New(wf *workflow.Workflow, api toolkit.SocialApiClient, st *store.Store, cfg config.Config, profile content.BusinessProfile, logger *logrus.Logger, selfUserID, selfUsername string) *Runtime {
	return &Runtime{
		wf:           wf,
		api:          api,
		store:        st,
		cfg:          cfg,
		profile:      profile,
		logger:       logger,
		selfUserID:   selfUserID,
		selfUsername: selfUsername,
		events:       newEventBus(),
		breaker:      NewCircuitBreaker(cfg.CircuitBreaker),
		gate:         NewScheduleGate(cfg.Schedule),
	}
}

// Events returns a channel of runtime events for the tool surface's
// status/telemetry endpoints to drain. Subscribe before Run to avoid
// missing early events.
func (r *Runtime) Events() <-chan RuntimeEvent {
	return r.events.Subscribe()
}

// Run starts all eight loops and blocks until ctx is canceled. Each loop
// runs under its own supervisor goroutine: a panic or unexpected return
// is logged and the loop restarts after a backoff, never propagating to
// the others.
func (r *Runtime) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	loops := map[string]func(context.Context){
		"discovery": r.runDiscoveryLoop,
		"mentions":  r.runMentionsLoop,
		"content":   r.runContentLoop,
		"thread":    r.runThreadLoop,
		"target":    r.runTargetLoop,
		"analytics": r.runAnalyticsLoop,
		"approval":  r.runApprovalLoop,
		"cleanup":   r.runCleanupLoop,
	}

	for name, fn := range loops {
		r.wg.Add(1)
		go r.superviseLoop(ctx, name, fn)
	}

	<-ctx.Done()
	r.wg.Wait()
	return ctx.Err()
}

// Stop cancels every loop and waits for them to exit.
func (r *Runtime) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// superviseLoop runs fn repeatedly, recovering panics and restarting
// with exponential backoff (capped at maxRestartBackoff) until ctx is
// canceled. A loop that returns normally (it shouldn't — every loop
// below runs until ctx.Err() != nil) is treated the same as a panic:
// logged, backed off, restarted.
func (r *Runtime) superviseLoop(ctx context.Context, name string, fn func(context.Context)) {
	defer r.wg.Done()
	backoff := minRestartBackoff

	for ctx.Err() == nil {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.WithField("loop", name).WithField("panic", rec).Error("runtime: loop panicked")
					r.events.publish(RuntimeEvent{
						Kind:    EventLoopError,
						Loop:    name,
						Message: fmt.Sprintf("panic: %v", rec),
						At:      time.Now().UTC(),
					})
				}
			}()
			fn(ctx)
		}()

		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxRestartBackoff {
			backoff = maxRestartBackoff
		}
	}
}

// gatedScheduler builds a LoopScheduler from the interval/jitter pair a
// loop uses, the jitter bounds coming from LimitsConfig's action-delay
// window shared across every loop.
func (r *Runtime) gatedScheduler(interval time.Duration) *LoopScheduler {
	return NewLoopScheduler(
		interval,
		time.Duration(r.cfg.Limits.MinActionDelaySeconds)*time.Second,
		time.Duration(r.cfg.Limits.MaxActionDelaySeconds)*time.Second,
	)
}
