// Command tuitbot runs the autonomous social growth assistant. It has
// three modes, selected by the first argument:
//
//	tuitbot run         long-running daemon, all eight loops supervised
//	tuitbot tick <loop>  one-shot invocation of a single loop, advisory-locked
//	tuitbot toolsurface <profile>  stdio tool dispatch server for an external agent
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tuitbot/tuitbot/internal/config"
	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/gateway"
	"github.com/tuitbot/tuitbot/pkg/llmprovider"
	"github.com/tuitbot/tuitbot/pkg/logging"
	"github.com/tuitbot/tuitbot/pkg/runtime"
	"github.com/tuitbot/tuitbot/pkg/store"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
	"github.com/tuitbot/tuitbot/pkg/toolkit/masa"
	"github.com/tuitbot/tuitbot/pkg/toolsurface"
	"github.com/tuitbot/tuitbot/pkg/workflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file found, continuing with process environment")
	}

	log := logrus.New()
	log.SetFormatter(logging.NewAutoFormatter())
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: tuitbot <run|tick|toolsurface> [args]")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("received shutdown signal")
		cancel()
	}()

	dataDir := envOr("TUITBOT_DATA_DIR", ".")
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(dataDir, "tuitbot.db")
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	st, err := store.Open(cfg.Storage.DBPath, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.WithError(err).Error("error closing store")
		}
	}()

	provider, err := buildProvider(log)
	if err != nil {
		log.WithError(err).Fatal("failed to build LLM provider")
	}

	client, err := buildSocialClient(log)
	if err != nil {
		log.WithError(err).Fatal("failed to build social API client")
	}
	if scraper, ok := masa.NewScraperFromEnv(log); ok {
		client = masa.NewFallbackClient(client, scraper, log)
	}

	profile := buildBusinessProfile()

	selfUser, err := resolveSelfUser(ctx, client, log)
	if err != nil {
		log.WithError(err).Fatal("failed to resolve authenticated user")
	}

	gen := content.NewGenerator(provider, profile)
	gw := gateway.New(st, cfg, log)
	wf := workflow.New(client, st, gen, gw, profile, cfg, log)
	rt := runtime.New(wf, client, st, cfg, profile, log, selfUser.ID, selfUser.Username)

	switch os.Args[1] {
	case "run":
		runDaemon(ctx, rt, log)
	case "tick":
		runTick(ctx, rt, log, dataDir, os.Args[2:])
	case "toolsurface":
		runToolsurface(ctx, gw, st, wf, client, log, os.Args[2:])
	default:
		log.Fatalf("unknown mode %q", os.Args[1])
	}
}

func runDaemon(ctx context.Context, rt *runtime.Runtime, log *logrus.Logger) {
	log.Info("starting tuitbot automation runtime")
	if err := rt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("runtime stopped with error")
	}
	rt.Stop()
	log.Info("tuitbot shutdown complete")
}

func runTick(ctx context.Context, rt *runtime.Runtime, log *logrus.Logger, dataDir string, args []string) {
	if len(args) == 0 {
		log.Fatal("usage: tuitbot tick <discovery|mentions|content|thread|target|analytics|approval|cleanup>")
	}

	lock, err := runtime.AcquireLock(filepath.Join(dataDir, "tuitbot.lock"))
	if err != nil {
		log.WithError(err).Fatal("failed to acquire tick lock")
	}
	defer lock.Release()

	loop := runtime.TickName(args[0])
	if err := rt.Tick(ctx, loop); err != nil {
		log.WithError(err).WithField("loop", loop).Fatal("tick failed")
	}
	log.WithField("loop", loop).Info("tick complete")
}

func runToolsurface(ctx context.Context, gw *gateway.Gateway, st *store.Store, wf *workflow.Workflow, client toolkit.SocialApiClient, log *logrus.Logger, args []string) {
	profile := toolsurface.ProfileReadonly
	if len(args) > 0 {
		profile = toolsurface.Profile(args[0])
	}

	deps := &toolsurface.Dependencies{API: client, Gateway: gw, Store: st, Workflow: wf, Logger: log}
	dispatcher := toolsurface.NewDispatcher(profile, deps, log)

	log.WithField("profile", profile).Info("starting tool dispatch surface on stdio")
	if err := dispatcher.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("tool dispatch loop stopped with error")
	}
}

func buildProvider(log *logrus.Logger) (llmprovider.Provider, error) {
	switch envOr("LLM_PROVIDER", "openai") {
	case "anthropic":
		return llmprovider.NewAnthropicProvider(llmprovider.AnthropicConfig{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:  os.Getenv("ANTHROPIC_MODEL"),
			Logger: log,
		})
	case "ollama":
		return llmprovider.NewOpenAICompatProvider(llmprovider.OpenAICompatConfig{
			APIKey:        "ollama",
			BaseURL:       envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
			Model:         envOr("OLLAMA_MODEL", "llama3"),
			Logger:        log,
			ProviderLabel: "ollama",
		})
	default:
		return llmprovider.NewOpenAICompatProvider(llmprovider.OpenAICompatConfig{
			APIKey:        os.Getenv("OPENAI_API_KEY"),
			Model:         os.Getenv("OPENAI_MODEL"),
			Logger:        log,
			ProviderLabel: "openai",
		})
	}
}

func buildSocialClient(log *logrus.Logger) (toolkit.SocialApiClient, error) {
	cfg := toolkit.HTTPSocialClientConfig{
		ConsumerKey:       os.Getenv("X_CONSUMER_KEY"),
		ConsumerSecret:    os.Getenv("X_CONSUMER_SECRET"),
		AccessToken:       os.Getenv("X_ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv("X_ACCESS_TOKEN_SECRET"),
		BearerToken:       os.Getenv("X_BEARER_TOKEN"),
		UserID:            os.Getenv("X_USER_ID"),
		Logger:            log,
	}
	return toolkit.NewHTTPSocialClient(cfg, 300, 15*time.Minute)
}

func buildBusinessProfile() content.BusinessProfile {
	return content.BusinessProfile{
		ProductName:     envOr("PRODUCT_NAME", "Tuitbot"),
		Description:     envOr("PRODUCT_DESCRIPTION", "an autonomous social growth assistant"),
		Keywords:        splitCSV(os.Getenv("PRODUCT_KEYWORDS")),
		Topics:          splitCSV(os.Getenv("PRODUCT_TOPICS")),
		VoiceStyle:      os.Getenv("PRODUCT_VOICE_STYLE"),
		Pillars:         splitCSV(os.Getenv("PRODUCT_PILLARS")),
		TargetUsernames: splitCSV(os.Getenv("TARGET_USERNAMES")),
	}
}

// resolveSelfUser looks up the authenticating account's id, retrying
// with a fixed backoff on a retryable x_api failure (rate limit, 5xx)
// instead of failing startup outright — the same posture the teacher
// takes toward its own bot-id lookup before it starts its task loop.
func resolveSelfUser(ctx context.Context, client toolkit.SocialApiClient, log *logrus.Logger) (toolkit.User, error) {
	username := os.Getenv("X_USERNAME")
	if username == "" {
		return toolkit.User{}, fmt.Errorf("X_USERNAME must be set")
	}

	const maxAttempts = 5
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		user, err := client.GetUserByUsername(ctx, username)
		if err == nil {
			return user, nil
		}
		lastErr = err

		var tkErr *toolkit.ToolkitError
		if !errors.As(err, &tkErr) || !tkErr.Retryable {
			return toolkit.User{}, err
		}

		wait := 5 * time.Minute
		if tkErr.RetryAfter > 0 {
			wait = time.Duration(tkErr.RetryAfter) * time.Millisecond
		}
		log.WithError(err).WithField("attempt", attempt).WithField("wait", wait).
			Warn("failed to resolve authenticated user, retrying")

		select {
		case <-ctx.Done():
			return toolkit.User{}, ctx.Err()
		case <-time.After(wait):
		}
	}
	return toolkit.User{}, fmt.Errorf("resolve self user: %w", lastErr)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
